package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/httpx"
	"github.com/rankwise/dashboard/pkg/session"
	"github.com/rankwise/dashboard/pkg/slogx"
)

// writeError maps gateway and session errors onto HTTP responses. Every
// handler funnels failures through here so the browser sees one consistent
// error shape.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var rle *apiclient.RateLimitError
	var apiErr *apiclient.APIError

	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		httpx.WriteErrorJSON(w, http.StatusUnauthorized, "Your session has expired. Please log in again.", "SESSION_EXPIRED")

	case errors.As(err, &rle):
		w.Header().Set("Retry-After", strconv.Itoa(int(rle.RetryAfter.Seconds())))
		httpx.WriteErrorJSON(w, http.StatusTooManyRequests, rle.Error(), "RATE_LIMITED")

	case errors.As(err, &apiErr):
		httpx.WriteErrorJSON(w, apiErr.Status, apiErr.Message, apiErr.Code)

	case errors.Is(err, apiclient.ErrTimeout):
		log.Warn("upstream timeout", "path", r.URL.Path)
		httpx.WriteErrorJSON(w, http.StatusGatewayTimeout, "The request timed out. Please try again.", "TIMEOUT")

	case errors.Is(err, session.ErrInvalidOrganization):
		httpx.WriteErrorJSON(w, http.StatusBadRequest, "You are not a member of that organization.", "INVALID_ORGANIZATION")

	default:
		log.Error("request failed", "path", r.URL.Path, "error", err)
		httpx.WriteErrorJSON(w, http.StatusBadGateway, "Something went wrong", "")
	}
}

// decodeJSON reads a request body into dst, rejecting bodies that aren't
// valid JSON with a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := jsonDecode(r, dst); err != nil {
		httpx.WriteErrorJSON(w, http.StatusBadRequest, "Invalid request body.", "INVALID_BODY")
		return false
	}
	return true
}
