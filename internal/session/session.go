// Package session keeps the authentication token and the claims derived
// from it in local storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// LoginRoute is where Logout sends the user.
const LoginRoute = "/login"

// ErrDecode is returned when a token payload cannot be decoded.
var ErrDecode = errors.New("malformed session token")

// Redirector moves the client to another route.
type Redirector interface {
	Redirect(path string)
}

// UserID accepts both numeric and string ids in token claims.
type UserID string

// UnmarshalJSON implements json.Unmarshaler.
func (u *UserID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*u = UserID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("user id must be a number or string: %w", err)
	}
	*u = UserID(s)
	return nil
}

// Claims are the token claims the storefront relies on.
type Claims struct {
	Role  model.Role `json:"role"`
	ID    UserID     `json:"id"`
	Email string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// DecodeToken reads the claims of a JWT without verifying its signature;
// verification is the backend's job.
func DecodeToken(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDecode)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return claims, nil
}

// Session is the explicit, injectable session context.
type Session struct {
	store    storage.Store
	redirect Redirector
	logger   zerolog.Logger
}

// New creates a session bound to store.
func New(store storage.Store, logger zerolog.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// SetRedirector wires the navigator used by Logout.
func (s *Session) SetRedirector(r Redirector) {
	s.redirect = r
}

// Login persists token and the role/id decoded from it. A malformed token
// clears the session and returns ErrDecode.
func (s *Session) Login(ctx context.Context, token string) error {
	return s.LoginWithEmail(ctx, token, "")
}

// LoginWithEmail is Login that also remembers the email used to sign in.
func (s *Session) LoginWithEmail(ctx context.Context, token, email string) error {
	claims, err := DecodeToken(token)
	if err != nil {
		s.logger.Error().Err(err).Msg("invalid token, treating as unauthenticated")
		s.clear(ctx)
		return err
	}

	values := [][2]string{
		{storage.KeyToken, token},
		{storage.KeyRole, string(claims.Role)},
		{storage.KeyUserID, string(claims.ID)},
	}
	if email == "" {
		email = claims.Email
	}
	if email != "" {
		values = append(values, [2]string{storage.KeyEmail, email})
	}

	for _, kv := range values {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			s.logger.Error().Err(err).Str("key", kv[0]).Msg("failed to persist session")
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}

	s.logger.Info().
		Str("role", string(claims.Role)).
		Str("user_id", string(claims.ID)).
		Msg("session started")
	return nil
}

// Logout clears every session key and redirects to the login route.
func (s *Session) Logout(ctx context.Context) {
	s.clear(ctx)
	s.logger.Info().Msg("session cleared")
	if s.redirect != nil {
		s.redirect.Redirect(LoginRoute)
	}
}

func (s *Session) clear(ctx context.Context) {
	if err := s.store.Remove(ctx, storage.KeyToken, storage.KeyRole, storage.KeyUserID, storage.KeyEmail); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear session")
	}
}

// Token returns the stored token.
func (s *Session) Token(ctx context.Context) (string, bool) {
	return s.get(ctx, storage.KeyToken)
}

// CurrentRole returns the stored role.
func (s *Session) CurrentRole(ctx context.Context) (model.Role, bool) {
	v, ok := s.get(ctx, storage.KeyRole)
	return model.Role(v), ok
}

// CurrentUserID returns the stored user id.
func (s *Session) CurrentUserID(ctx context.Context) (string, bool) {
	return s.get(ctx, storage.KeyUserID)
}

// CurrentUserIDInt returns the stored user id as an integer.
func (s *Session) CurrentUserIDInt(ctx context.Context) (int64, bool) {
	v, ok := s.CurrentUserID(ctx)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Email returns the stored login email.
func (s *Session) Email(ctx context.Context) (string, bool) {
	return s.get(ctx, storage.KeyEmail)
}

// Claims decodes the stored token. A stored token that no longer decodes
// clears the session.
func (s *Session) Claims(ctx context.Context) (*Claims, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return nil, false
	}
	claims, err := DecodeToken(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stored token is malformed, clearing session")
		s.clear(ctx)
		return nil, false
	}
	return claims, true
}

func (s *Session) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to read session")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
