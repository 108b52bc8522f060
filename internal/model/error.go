package model

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorResponse is the error body shape the backend may send.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorKind discriminates API failures.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindHTTP         ErrorKind = "http"
	KindUnauthorized ErrorKind = "unauthorized"
	KindDecode       ErrorKind = "decode"
)

// APIError describes a failed call through the API gateway.
type APIError struct {
	Kind          ErrorKind
	Method        string
	Path          string
	Status        int
	ServerMessage string
	Err           error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
	case KindDecode:
		return fmt.Sprintf("%s %s: failed to decode response: %v", e.Method, e.Path, e.Err)
	}
	if e.ServerMessage != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.ServerMessage)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage returns the server-supplied message when present, else fallback.
func (e *APIError) UserMessage(fallback string) string {
	if e != nil && e.ServerMessage != "" {
		return e.ServerMessage
	}
	return fallback
}

// NewHTTPError builds an APIError for a non-2xx response.
func NewHTTPError(method, path string, status int, body ErrorResponse) *APIError {
	kind := KindHTTP
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	return &APIError{
		Kind:          kind,
		Method:        method,
		Path:          path,
		Status:        status,
		ServerMessage: msg,
	}
}

// IsUnauthorized reports whether err is a 401 from the gateway.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// UserMessage extracts a user-visible message from any error, preferring
// the server-supplied one.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(fallback)
	}
	return fallback
}

// ValidationError carries per-field messages from client-side form checks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError creates a validation error from a field map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error codes for client-side domain failures.
const (
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeNoDraft          = "NO_DRAFT"
	ErrCodeReviewNotAllowed = "REVIEW_NOT_ALLOWED"
	ErrCodeReviewExists     = "REVIEW_EXISTS"
	ErrCodeNoCatalogFile    = "NO_CATALOG_FILE"
	ErrCodeAlreadyInit      = "ALREADY_INITIALIZED"
	ErrCodeMissingUserID    = "MISSING_USER_ID"
)

// DomainError is a client-side business rule violation.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrNoDraft          = NewDomainError(ErrCodeNoDraft, "No product selected for editing")
	ErrReviewNotAllowed = NewDomainError(ErrCodeReviewNotAllowed, "Reviews can only be added to completed or canceled orders")
	ErrReviewExists     = NewDomainError(ErrCodeReviewExists, "A review for this order already exists")
	ErrNoCatalogFile    = NewDomainError(ErrCodeNoCatalogFile, "No valid file content to upload")
	ErrAlreadyInit      = NewDomainError(ErrCodeAlreadyInit, "Database already initialized")
	ErrMissingUserID    = NewDomainError(ErrCodeMissingUserID, "Missing customer id")
)
