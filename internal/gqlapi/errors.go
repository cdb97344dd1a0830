package gqlapi

import (
	"errors"

	"github.com/anonto42/bonfire-demo/backend/internal/services"
)

// Error codes reported in extensions.code.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeNotFound        = "NOT_FOUND"
	CodeBadCredentials  = "BAD_CREDENTIALS"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Error is a resolver error carrying a machine-readable code. graphql-go
// copies Extensions() into the formatted error.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// toGraphQLError attaches a code to a service error.
func toGraphQLError(err error) error {
	if err == nil {
		return nil
	}
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	switch {
	case errors.Is(err, services.ErrAuthRequired):
		return &Error{Code: CodeUnauthenticated, Message: "Not authenticated", Err: err}
	case errors.Is(err, services.ErrInvalidToken):
		return &Error{Code: CodeInvalidToken, Message: "Invalid or expired token", Err: err}
	case errors.Is(err, services.ErrInvalidCredentials):
		return &Error{Code: CodeBadCredentials, Message: "Invalid credentials. Use demo/demo123", Err: err}
	case errors.Is(err, services.ErrValidation):
		return &Error{Code: CodeBadUserInput, Message: err.Error(), Err: err}
	case errors.Is(err, services.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error(), Err: err}
	default:
		return &Error{Code: CodeInternal, Message: err.Error(), Err: err}
	}
}
