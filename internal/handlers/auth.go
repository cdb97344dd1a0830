package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService    *services.AuthService
	bonfireService services.BonfireService
	defaultMode    string
}

// NewAuthHandler creates a new AuthHandler. defaultMode applies when the
// login request carries no ?mode= parameter.
func NewAuthHandler(authService *services.AuthService, bonfireService services.BonfireService, defaultMode string) *AuthHandler {
	if defaultMode == "" {
		defaultMode = services.ModeMock
	}
	return &AuthHandler{
		authService:    authService,
		bonfireService: bonfireService,
		defaultMode:    defaultMode,
	}
}

// RegisterAuthRoutes registers unauthenticated routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
}

// RegisterSessionRoutes registers routes that need a verified token
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
}

// Login handles demo login in mock mode; real mode is not available yet.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mode := c.QueryParam("mode")
	if mode == "" {
		mode = h.defaultMode
	}

	resp, err := h.authService.Login(c.Request().Context(), req, mode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	user, err := h.bonfireService.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
