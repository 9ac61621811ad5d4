package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/rankwise/dashboard/pkg/credstore"
)

// Doer is one stage boundary in the request pipeline.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Stage wraps the next Doer, forming an explicit middleware pipeline. The
// refresh-and-retry behavior is a visible stage here, not a hook hidden
// inside the HTTP client.
type Stage func(next Doer) Doer

// pipeline applies stages to base so the first listed stage runs outermost.
func pipeline(base Doer, stages ...Stage) Doer {
	d := base
	for i := len(stages) - 1; i >= 0; i-- {
		d = stages[i](d)
	}
	return d
}

// transport is the innermost Doer: the real HTTP round trip, with timeout
// failures mapped to ErrTimeout. No retries happen at this layer.
func transport(hc *http.Client) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := hc.Do(req)
		if err != nil {
			if isTimeout(err) {
				return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return nil, err
		}
		return resp, nil
	})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// bearerAuth attaches the stored access token as a bearer credential. A
// missing token is not an error at this layer — the request goes out
// unauthenticated and the server decides. An Authorization header already
// set upstream (the refresh-retry stage) wins.
func bearerAuth(creds credstore.Store) Stage {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") == "" {
				if cred, err := creds.Load(req.Context()); err == nil && cred.AccessToken != "" {
					req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
				}
			}
			return next.Do(req)
		})
	}
}

// refreshRetry recovers exactly one class of failure: a 401 on a request
// that has not been retried yet. It delegates to the refresh coordinator and
// resends the original request once with the refreshed token. A 401 on the
// resent request surfaces to the caller like any other failure.
func refreshRetry(rc *refreshCoordinator, logger *slog.Logger) Stage {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}

			// This response never reaches the caller; release the connection
			// before the refresh round trip.
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			cred, refreshErr := rc.Refresh(req.Context())
			if refreshErr != nil {
				if errors.Is(refreshErr, context.Canceled) ||
					errors.Is(refreshErr, context.DeadlineExceeded) {
					// The caller abandoned the request while waiting; the
					// refresh itself keeps running for the remaining waiters.
					return nil, refreshErr
				}
				return nil, fmt.Errorf("%w: %w", ErrSessionExpired, refreshErr)
			}

			retry, err := replayableClone(req)
			if err != nil {
				return nil, err
			}
			// The coordinator's credential, not a fresh store read: the retry
			// must carry the exact token the refresh resolved with.
			retry.Header.Set("Authorization", "Bearer "+cred.AccessToken)

			logger.Debug("retrying request with refreshed token",
				"method", req.Method, "path", req.URL.Path)
			return next.Do(retry)
		})
	}
}

// replayableClone rebuilds a request whose body can be sent again.
func replayableClone(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}
