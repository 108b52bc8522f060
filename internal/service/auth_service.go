package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// TokenClaims are the claims carried by issued tokens.
type TokenClaims struct {
	Role  model.Role `json:"role"`
	ID    int64      `json:"id"`
	Email string     `json:"email"`
	jwt.RegisteredClaims
}

// AuthOption configures the auth service.
type AuthOption func(*authService)

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *authService) {
		s.cost = cost
	}
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(s *authService) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) {
		s.now = now
	}
}

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	cost     int
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewAuthService creates an auth service signing tokens with secret.
func NewAuthService(userRepo repository.UserRepository, secret string, logger zerolog.Logger, opts ...AuthOption) (AuthService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	s := &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		cost:     bcrypt.DefaultCost,
		ttl:      DefaultTokenTTL,
		now:      time.Now,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an account with the given role.
func (s *authService) Register(ctx context.Context, creds model.Credentials, role model.Role) (*model.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        creds.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// Login checks credentials and returns a signed token.
func (s *authService) Login(ctx context.Context, creds model.Credentials) (string, error) {
	if err := validate.Struct(creds); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.logger.Warn().Int64("user_id", user.ID).Msg("password mismatch")
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := TokenClaims{
		Role:  user.Role,
		ID:    user.ID,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return token, nil
}

// Authenticate verifies a token and returns its principal.
func (s *authService) Authenticate(token string) (*Principal, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.Role.IsValid() || claims.ID == 0 {
		return nil, ErrInvalidToken
	}

	return &Principal{UserID: claims.ID, Role: claims.Role, Email: claims.Email}, nil
}
