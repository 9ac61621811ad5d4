package apiclient

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for the optional upstream circuit
// breaker stage.
type BreakerConfig struct {
	// Name identifies this breaker (used in metrics and logs).
	Name string

	// MaxRequests is the maximum number of requests allowed in the half-open
	// state. 0 means 1 request is allowed.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing internal
	// counts. 0 means internal counts are never cleared while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio is the ratio of failures to total requests that trips the
	// breaker.
	FailureRatio float64

	// MinRequests is the minimum number of requests needed before the failure
	// ratio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns sensible defaults for the upstream breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// errUpstreamServer marks a 5xx inside the breaker so it counts as a failure
// without discarding the response. The response still surfaces to the caller
// with its body intact.
var errUpstreamServer = errors.New("apiclient: upstream server error")

// circuitBreaker fails fast when the upstream API is persistently unhealthy.
// Network errors and 5xx responses count as failures; auth failures do not —
// an expired token is the refresh stage's business, not an outage signal.
func circuitBreaker(cfg BreakerConfig, logger *slog.Logger) Stage {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](settings)
	breakerState.WithLabelValues(cfg.Name).Set(breakerStateValue(gobreaker.StateClosed))

	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := cb.Execute(func() (*http.Response, error) {
				resp, err := next.Do(req)
				if err != nil {
					return nil, err
				}
				if resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented {
					return resp, errUpstreamServer
				}
				return resp, nil
			})

			switch {
			case errors.Is(err, gobreaker.ErrOpenState),
				errors.Is(err, gobreaker.ErrTooManyRequests):
				return nil, &APIError{
					Status:  http.StatusServiceUnavailable,
					Message: "The service is temporarily unavailable. Please try again shortly.",
					Code:    "CIRCUIT_OPEN",
				}
			case errors.Is(err, errUpstreamServer):
				// Counted against the breaker; the caller still gets the
				// server's actual response.
				return resp, nil
			default:
				return resp, err
			}
		})
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
