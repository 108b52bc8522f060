// Package gateway is the single HTTP client every view talks to the
// backend through.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Session is what the gateway needs from the session store.
type Session interface {
	TokenSource
	Logout(ctx context.Context)
}

// Config holds the gateway settings.
type Config struct {
	BaseURL string
	// Timeout of zero means no timeout.
	Timeout time.Duration
	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// Client sends JSON requests to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
	metrics *metrics.RequestMetrics
	logger  zerolog.Logger
}

// New creates a gateway client.
func New(cfg Config, session Session, m *metrics.RequestMetrics, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	logger = logger.With().Str("component", "api-gateway").Logger()

	transport := Chain(base,
		RequestID(),
		BearerAuth(session),
		Logging(logger),
		Metrics(m),
	)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		session: session,
		metrics: m,
		logger:  logger,
	}, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body (if non-nil) as JSON and decodes a 2xx response into out
// (if non-nil). A 401 clears the session before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	_, err := c.do(ctx, method, path, body, out)
	return err
}

// do is Do that also reports the response status, zero when no response
// arrived.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &model.APIError{Kind: model.KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &model.APIError{Kind: model.KindNetwork, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody model.ErrorResponse
		// Non-JSON error bodies simply carry no server message.
		_ = json.Unmarshal(raw, &errBody)
		apiErr := model.NewHTTPError(method, path, resp.StatusCode, errBody)

		if apiErr.Kind == model.KindUnauthorized {
			c.logger.Warn().
				Str("method", method).
				Str("path", path).
				Msg("unauthorized response, clearing session")
			c.metrics.IncForcedLogout()
			if c.session != nil {
				c.session.Logout(context.WithoutCancel(ctx))
			}
		}
		return resp.StatusCode, apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, &model.APIError{Kind: model.KindDecode, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
