package nav

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Navigator tracks the current location and applies the guard on every
// move. It satisfies session.Redirector.
type Navigator struct {
	mu       sync.Mutex
	claims   ClaimsSource
	logger   zerolog.Logger
	location string
	history  []string
}

// NewNavigator creates a navigator starting at the home route.
func NewNavigator(claims ClaimsSource, logger zerolog.Logger) *Navigator {
	return &Navigator{
		claims:   claims,
		logger:   logger.With().Str("component", "navigator").Logger(),
		location: RouteHome,
	}
}

// Navigate moves to path, or to wherever the guard redirects. It returns
// the location actually reached.
func (n *Navigator) Navigate(ctx context.Context, path string) (string, error) {
	decision, err := Guard(ctx, n.claims, path)
	if err != nil {
		n.logger.Warn().Str("path", path).Msg("unknown route")
		return n.Location(), err
	}

	target := path
	if !decision.Allowed {
		n.logger.Info().Str("path", path).Str("redirect", decision.Redirect).Msg("access denied")
		target = decision.Redirect
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if target != n.location {
		n.history = append(n.history, n.location)
		n.location = target
	}
	return target, nil
}

// Redirect implements session.Redirector.
func (n *Navigator) Redirect(path string) {
	if _, err := n.Navigate(context.Background(), path); err != nil {
		n.logger.Error().Err(err).Str("path", path).Msg("redirect failed")
	}
}

// Back returns to the previous location.
func (n *Navigator) Back() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return n.location
	}
	n.location = n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	return n.location
}

// Location returns the current route.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// History returns the visited routes, oldest first.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}
