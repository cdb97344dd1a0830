package handlers

import (
	"net/http"

	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the activity feed
type FeedHandler struct {
	bonfireService services.BonfireService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(bonfireService services.BonfireService) *FeedHandler {
	return &FeedHandler{bonfireService: bonfireService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/activities", h.GetActivities)
}

// GetActivities returns every activity with its subject, newest first.
func (h *FeedHandler) GetActivities(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	activities, err := h.bonfireService.GetActivitiesForUser(c.Request().Context(), currentUserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, activities)
}
