package services

import (
	"errors"

	"github.com/anonto42/bonfire-demo/backend/internal/repositories"
)

var (
	// ErrAuthRequired means the caller presented no bearer token.
	ErrAuthRequired = errors.New("authentication required")
	// ErrInvalidToken means the token failed signature or expiry checks.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInvalidCredentials is returned by Login for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation wraps malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrIntegrity means a stored record references an entity that does not exist.
	ErrIntegrity = errors.New("integrity violation")
	// ErrRealModeUnsupported is returned when login is asked to proxy to the remote Bonfire API.
	ErrRealModeUnsupported = errors.New("real mode login unsupported")

	ErrNotFound  = repositories.ErrNotFound
	ErrDuplicate = repositories.ErrDuplicate
)
