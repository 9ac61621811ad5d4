package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rankwise/dashboard/pkg/credstore"
	"github.com/rankwise/dashboard/pkg/session"
)

const (
	// apiPrefix is the versioned path segment every application call is
	// prefixed with. Auth endpoints live unversioned at the base URL.
	apiPrefix = "/api/v1"

	// DefaultTimeout is the fixed per-request ceiling. It applies to every
	// round trip, the refresh call included.
	DefaultTimeout = 30 * time.Second
)

// Config assembles a Client. Credentials is required; everything else has a
// default.
type Config struct {
	// BaseURL is the API origin, without the versioned path segment.
	BaseURL string

	// Credentials is the process-wide credential store read on every request
	// and written only through the refresh coordinator and the login/logout
	// paths.
	Credentials credstore.Store

	// Session, when set, is torn down together with the credential store on
	// refresh failure.
	Session *session.Store

	// Timeout bounds every request (default DefaultTimeout).
	Timeout time.Duration

	// HTTPClient overrides the underlying client, mainly for tests. Its
	// Timeout is left as configured by the caller.
	HTTPClient *http.Client

	// Breaker enables the upstream circuit breaker stage.
	Breaker *BreakerConfig

	Logger *slog.Logger
}

// Client is the request gateway for the dashboard API: it injects bearer
// credentials, detects credential expiry, coordinates the one-time refresh
// and replays the failed request. Every screen's traffic goes through it.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     credstore.Store
	refresher *refreshCoordinator
	pipeline  Doer
	logger    *slog.Logger
}

// New builds the client and its stage pipeline. Stage order, outermost
// first: refresh-and-retry, circuit breaker (optional), bearer auth,
// transport.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    hc,
		creds:   cfg.Credentials,
		logger:  logger,
	}
	c.refresher = newRefreshCoordinator(
		c.baseURL+"/auth/refresh", hc, timeout, cfg.Credentials, cfg.Session, logger,
	)

	stages := []Stage{refreshRetry(c.refresher, logger)}
	if cfg.Breaker != nil {
		stages = append(stages, circuitBreaker(*cfg.Breaker, logger))
	}
	stages = append(stages, bearerAuth(cfg.Credentials))
	c.pipeline = pipeline(transport(hc), stages...)

	return c
}

// send runs one request through the stage pipeline and decodes the response
// into out (which may be nil). Non-2xx responses come back as the typed
// errors in errors.go.
func (c *Client) send(ctx context.Context, method, rawURL string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(resp)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiURL joins an application path onto the versioned API base.
func (c *Client) apiURL(path string) string {
	return c.baseURL + apiPrefix + path
}

// authURL joins an auth path onto the unversioned base.
func (c *Client) authURL(path string) string {
	return c.baseURL + path
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, c.apiURL(path), nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPost, c.apiURL(path), in, out)
}

func (c *Client) patch(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPatch, c.apiURL(path), in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.send(ctx, http.MethodDelete, c.apiURL(path), nil, nil)
}

// listPath appends pagination/search query parameters to a collection path.
func listPath(path string, opts ListOptions) string {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
