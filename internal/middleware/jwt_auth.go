package middleware

import (
	"errors"
	"net/http"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const (
	// ClaimsKey is the echo context key holding *models.JwtCustomClaims.
	ClaimsKey = "user"
	// AuthErrorKey holds the token error seen by OptionalJWTMiddleware.
	AuthErrorKey = "authError"
)

// JWTAuthMiddleware rejects requests without a valid bearer token.
// No token is 401, a token that fails verification is 403.
func JWTAuthMiddleware(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := auth.ParseAuthorizationHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if errors.Is(err, services.ErrAuthRequired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
				}
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}

			// Store user claims in context
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

// OptionalJWTMiddleware never rejects. It stores the claims of a valid token,
// or the verification error of a bad one, and lets the handler decide.
func OptionalJWTMiddleware(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			claims, err := auth.ParseAuthorizationHeader(header)
			if err != nil {
				c.Set(AuthErrorKey, err)
				return next(c)
			}
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by the JWT middlewares.
func ClaimsFromContext(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*models.JwtCustomClaims)
	return claims, ok && claims != nil
}

// AuthErrorFromContext returns the token error recorded by OptionalJWTMiddleware.
func AuthErrorFromContext(c echo.Context) error {
	err, _ := c.Get(AuthErrorKey).(error)
	return err
}
