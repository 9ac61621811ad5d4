package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrTimeout reports a request that exceeded the client's request
	// ceiling. The gateway never retries on timeout.
	ErrTimeout = errors.New("apiclient: request timed out")

	// ErrSessionExpired reports that a 401 could not be recovered: the
	// refresh failed and the local session has been torn down. The caller
	// must not assume any residual session validity.
	ErrSessionExpired = errors.New("apiclient: session expired")

	// ErrNoRefreshToken reports a refresh attempt with no refresh token in
	// the credential store.
	ErrNoRefreshToken = errors.New("apiclient: no refresh token")

	// ErrRefreshFailed reports a refresh call that failed. The credential
	// store and session state are cleared before this surfaces.
	ErrRefreshFailed = errors.New("apiclient: token refresh failed")
)

// defaultRetryAfter applies when a 429 carries no Retry-After header.
const defaultRetryAfter = 60 * time.Second

// RateLimitError reports a 429 from the API, carrying the server's
// advertised wait. The gateway performs no automatic retry; the caller
// decides whether to back off or surface the wait to the user.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("apiclient: rate limited, retry after %s", e.RetryAfter)
}

// APIError is any other non-2xx response: the HTTP status, the
// server-supplied message (with a generic fallback) and an optional
// machine-readable code.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("apiclient: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("apiclient: %d: %s", e.Status, e.Message)
}

// genericErrorMessage is what screens render when the server gives nothing
// usable.
const genericErrorMessage = "Something went wrong"

// parseAPIError builds the typed error for a non-2xx response body of the
// form {"message": ..., "code": ...}.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	_ = json.Unmarshal(body, apiErr)
	if apiErr.Message == "" {
		apiErr.Message = genericErrorMessage
	}
	return apiErr
}

// parseRetryAfter reads a Retry-After header given in seconds, falling back
// to the default when absent or malformed.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
