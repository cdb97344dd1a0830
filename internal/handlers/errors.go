package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/bonfire-demo/backend/internal/middleware"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// httpError maps service errors onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	var status int
	switch {
	case errors.Is(err, services.ErrAuthRequired):
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required").SetInternal(err)
	case errors.Is(err, services.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token").SetInternal(err)
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials. Use demo/demo123").SetInternal(err)
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, services.ErrRealModeUnsupported):
		return echo.NewHTTPError(http.StatusNotImplemented, "Real API authentication not yet implemented. Please use mock mode.").SetInternal(err)
	default:
		status = http.StatusInternalServerError
	}
	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}

// getUserIDFromContext returns the authenticated user's ID, or "" when absent.
func getUserIDFromContext(c echo.Context) string {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return ""
	}
	return claims.UserID
}
