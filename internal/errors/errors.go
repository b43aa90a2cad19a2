// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every AppError unwraps to exactly one of these so callers can
// branch with errors.Is regardless of how deeply the error was wrapped.
var (
	ErrMissingInput           = errors.New("missing input")
	ErrNotFound               = errors.New("not found")
	ErrLimitReached           = errors.New("generation limit reached")
	ErrUpstreamRateLimited    = errors.New("upstream rate limited")
	ErrUpstreamQuotaExhausted = errors.New("upstream quota exhausted")
	ErrUpstream               = errors.New("upstream error")
	ErrPersistence            = errors.New("persistence error")
	ErrParse                  = errors.New("parse error")
	ErrAuth                   = errors.New("authentication error")
)

// ErrInvalidRepoFormat is returned when a repository string is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// AppError carries a kind sentinel, a client-safe message and the underlying cause.
type AppError struct {
	Kind       error
	Message    string
	Cause      error
	StatusCode int // upstream HTTP status, if any
	Remaining  int // only meaningful for ErrLimitReached
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func MissingInput(field string) *AppError {
	return &AppError{Kind: ErrMissingInput, Message: fmt.Sprintf("%s is required", field)}
}

func NotFound(resource string, id any) *AppError {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf("%s not found: %v", resource, id)}
}

// EmptyTree reports a repository that exists but has no usable file tree.
func EmptyTree(githubRepoID int64) *AppError {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf("repository %d has no file tree data", githubRepoID)}
}

func LimitReached(message string) *AppError {
	if message == "" {
		message = "Generation limit reached"
	}
	return &AppError{Kind: ErrLimitReached, Message: message, Remaining: 0}
}

func RateLimited(cause error) *AppError {
	return &AppError{Kind: ErrUpstreamRateLimited, Message: "Rate limit exceeded. Please try again later.", Cause: cause, StatusCode: 429}
}

func QuotaExhausted(cause error) *AppError {
	return &AppError{Kind: ErrUpstreamQuotaExhausted, Message: "AI credits exhausted. Please add funds.", Cause: cause, StatusCode: 402}
}

func Upstream(message string, statusCode int, cause error) *AppError {
	return &AppError{Kind: ErrUpstream, Message: message, Cause: cause, StatusCode: statusCode}
}

func Persistence(op string, cause error) *AppError {
	return &AppError{Kind: ErrPersistence, Message: fmt.Sprintf("failed to %s", op), Cause: cause}
}

func Parse(message string, cause error) *AppError {
	return &AppError{Kind: ErrParse, Message: message, Cause: cause}
}

// AuthError is returned when GitHub App authentication fails.
type AuthError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("github app auth failed (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github app auth failed: %s", e.Message)
}

func (e *AuthError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrAuth}
	}
	return []error{ErrAuth, e.Cause}
}
