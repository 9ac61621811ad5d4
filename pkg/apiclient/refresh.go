package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rankwise/dashboard/pkg/credstore"
	"github.com/rankwise/dashboard/pkg/session"
)

// pendingRefresh is the shared future for one in-flight refresh. At most one
// exists process-wide: the first failing request creates it, every
// concurrent failure attaches to it, and the slot frees only after
// resolution.
type pendingRefresh struct {
	done chan struct{}
	cred credstore.Credential
	err  error
}

// refreshCoordinator funnels every credential write through one place. The
// refresh token is single-use: without the single-flight guarantee, N
// concurrent 401s would race N refresh attempts and all but one would lose.
type refreshCoordinator struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	creds    credstore.Store
	session  *session.Store // may be nil when no session context exists
	logger   *slog.Logger

	mu      sync.Mutex
	pending *pendingRefresh
}

func newRefreshCoordinator(
	endpoint string,
	hc *http.Client,
	timeout time.Duration,
	creds credstore.Store,
	sess *session.Store,
	logger *slog.Logger,
) *refreshCoordinator {
	return &refreshCoordinator{
		endpoint: endpoint,
		http:     hc,
		timeout:  timeout,
		creds:    creds,
		session:  sess,
		logger:   logger,
	}
}

// Refresh exchanges the refresh token for a new credential. Concurrent
// callers share a single exchange and observe the same outcome. A caller
// whose ctx ends while waiting gets ctx.Err(); the exchange itself is not
// cancelled and completes for any remaining waiters.
func (rc *refreshCoordinator) Refresh(ctx context.Context) (credstore.Credential, error) {
	rc.mu.Lock()
	p := rc.pending
	if p == nil {
		p = &pendingRefresh{done: make(chan struct{})}
		rc.pending = p
		go rc.run(p)
	}
	rc.mu.Unlock()

	select {
	case <-p.done:
		return p.cred, p.err
	case <-ctx.Done():
		return credstore.Credential{}, ctx.Err()
	}
}

// run performs the exchange on a context detached from every waiter, bounded
// by the shared request timeout. It resolves the pending future exactly
// once.
func (rc *refreshCoordinator) run(p *pendingRefresh) {
	ctx, cancel := context.WithTimeout(context.Background(), rc.timeout)
	defer cancel()

	cred, err := rc.exchange(ctx)
	if err != nil {
		// No partial state: a failed refresh must not leave a stale access
		// token usable anywhere.
		rc.teardown()
		refreshTotal.WithLabelValues("failure").Inc()
		rc.logger.Warn("token refresh failed", "err", err)
		p.err = err
	} else {
		refreshTotal.WithLabelValues("success").Inc()
		rc.logger.Debug("token refresh succeeded")
		p.cred = cred
	}

	rc.mu.Lock()
	rc.pending = nil
	rc.mu.Unlock()
	close(p.done)
}

// exchange issues the refresh call and persists the rotated credential
// through the store's single write path (both views).
func (rc *refreshCoordinator) exchange(ctx context.Context) (credstore.Credential, error) {
	current, err := rc.creds.Load(ctx)
	if err != nil || current.RefreshToken == "" {
		return credstore.Credential{}, ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": current.RefreshToken})
	if err != nil {
		return credstore.Credential{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.endpoint, bytes.NewReader(payload))
	if err != nil {
		return credstore.Credential{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.http.Do(req)
	if err != nil {
		return credstore.Credential{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return credstore.Credential{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return credstore.Credential{}, fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var next credstore.Credential
	if err := json.Unmarshal(body, &next); err != nil {
		return credstore.Credential{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if next.AccessToken == "" || next.RefreshToken == "" {
		return credstore.Credential{}, fmt.Errorf("%w: incomplete token pair", ErrRefreshFailed)
	}

	if err := rc.creds.Save(ctx, next); err != nil {
		return credstore.Credential{}, fmt.Errorf("%w: persist: %v", ErrRefreshFailed, err)
	}
	return next, nil
}

// teardown clears both credential views and the session. The store clear
// runs on its own context so an expired refresh deadline cannot leave stale
// state behind.
func (rc *refreshCoordinator) teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if rc.session != nil {
		if err := rc.session.Logout(ctx); err != nil {
			rc.logger.Error("session teardown failed", "err", err)
		}
		return
	}
	if err := rc.creds.Clear(ctx); err != nil {
		rc.logger.Error("credential teardown failed", "err", err)
	}
}
