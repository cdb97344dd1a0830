package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	bonfireService services.BonfireService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(bonfireService services.BonfireService) *UserHandler {
	return &UserHandler{bonfireService: bonfireService}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser) // Get any user's profile by ID
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.bonfireService.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
