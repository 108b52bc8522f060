// Package account implements the login and registration forms.
package account

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/model"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// User-visible messages.
const (
	LoginFailedMessage    = "Login failed."
	RegisterFailedMessage = "Registration failed."
	RegisteredMessage     = "Registration successful! You can now log in."
)

// Routes the forms move to after success.
const (
	HomeRoute  = "/"
	LoginRoute = "/login"
)

// API is the part of the gateway the forms need.
type API interface {
	Login(ctx context.Context, creds model.Credentials) (string, error)
	Register(ctx context.Context, creds model.Credentials) (string, error)
}

// Session stores the token after a successful login.
type Session interface {
	LoginWithEmail(ctx context.Context, token, email string) error
}

// Redirector moves the client to another route.
type Redirector interface {
	Redirect(path string)
}

// Forms holds the login and registration state.
type Forms struct {
	mu       sync.Mutex
	api      API
	session  Session
	redirect Redirector
	logger   zerolog.Logger

	loginErr    string
	registerErr string
	registerMsg string
}

// New creates the account forms.
func New(api API, session Session, redirect Redirector, logger zerolog.Logger) *Forms {
	return &Forms{
		api:      api,
		session:  session,
		redirect: redirect,
		logger:   logger.With().Str("component", "account").Logger(),
	}
}

// Login signs in and, on success, moves to the home route.
func (f *Forms) Login(ctx context.Context, email, password string) error {
	creds := model.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := validate.Struct(creds); err != nil {
		f.setLoginErr(LoginFailedMessage)
		return err
	}

	token, err := f.api.Login(ctx, creds)
	if err != nil {
		f.logger.Warn().Err(err).Str("email", creds.Email).Msg("login failed")
		f.setLoginErr(model.UserMessage(err, LoginFailedMessage))
		return fmt.Errorf("failed to log in: %w", err)
	}

	if err := f.session.LoginWithEmail(ctx, token, creds.Email); err != nil {
		f.setLoginErr(LoginFailedMessage)
		return err
	}

	f.setLoginErr("")
	if f.redirect != nil {
		f.redirect.Redirect(HomeRoute)
	}
	return nil
}

// Register creates an account and, on success, moves to the login route.
func (f *Forms) Register(ctx context.Context, email, password string) error {
	creds := model.Credentials{Email: strings.TrimSpace(email), Password: password}

	f.mu.Lock()
	f.registerErr = ""
	f.registerMsg = ""
	f.mu.Unlock()

	if err := validate.Struct(creds); err != nil {
		f.mu.Lock()
		f.registerErr = RegisterFailedMessage
		f.mu.Unlock()
		return err
	}

	if _, err := f.api.Register(ctx, creds); err != nil {
		f.logger.Warn().Err(err).Str("email", creds.Email).Msg("registration failed")
		f.mu.Lock()
		f.registerErr = model.UserMessage(err, RegisterFailedMessage)
		f.mu.Unlock()
		return fmt.Errorf("failed to register: %w", err)
	}

	f.mu.Lock()
	f.registerMsg = RegisteredMessage
	f.mu.Unlock()

	f.logger.Info().Str("email", creds.Email).Msg("account registered")
	if f.redirect != nil {
		f.redirect.Redirect(LoginRoute)
	}
	return nil
}

// LoginError returns the last login error message.
func (f *Forms) LoginError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginErr
}

// RegisterError returns the last registration error message.
func (f *Forms) RegisterError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerErr
}

// RegisterMessage returns the registration confirmation.
func (f *Forms) RegisterMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerMsg
}

func (f *Forms) setLoginErr(msg string) {
	f.mu.Lock()
	f.loginErr = msg
	f.mu.Unlock()
}
