package gateway

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Middleware decorates a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain applies middlewares so the first one runs outermost.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// RequestID stamps every request with a fresh correlation id unless the
// caller already set one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

// BearerAuth attaches the session token when one exists.
func BearerAuth(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if tokens == nil {
				return next.RoundTrip(r)
			}
			token, ok := tokens.Token(r.Context())
			if !ok {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(r)
		})
	}
}

// Logging logs outgoing requests with timing information.
func Logging(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(r)

			duration := time.Since(start)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", r.Header.Get(RequestIDHeader)).
					Dur("duration", duration).
					Msg("api request failed")
				return nil, err
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", resp.StatusCode).
				Str("request_id", r.Header.Get(RequestIDHeader)).
				Dur("duration", duration).
				Msg("api request")
			return resp, nil
		})
	}
}

// Metrics records request outcomes.
func Metrics(m *metrics.RequestMetrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			if err != nil {
				m.ObserveFailure(r.Method, time.Since(start))
				return nil, err
			}
			m.ObserveResponse(r.Method, resp.StatusCode, time.Since(start))
			return resp, nil
		})
	}
}
