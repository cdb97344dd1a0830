package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConversationHandler handles conversation and message requests
type ConversationHandler struct {
	bonfireService services.BonfireService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(bonfireService services.BonfireService) *ConversationHandler {
	return &ConversationHandler{bonfireService: bonfireService}
}

// RegisterConversationRoutes registers conversation-related routes
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id", h.GetConversation)
	g.POST("/conversations/:id/messages", h.SendMessage)
}

// GetConversations lists the caller's conversations, most recently active first.
func (h *ConversationHandler) GetConversations(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	conversations, err := h.bonfireService.GetConversationsForUser(c.Request().Context(), currentUserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conversations)
}

// GetConversation returns one conversation with participants and messages.
func (h *ConversationHandler) GetConversation(c echo.Context) error {
	conversation, err := h.bonfireService.GetConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conversation)
}

// SendMessage appends a message from the caller to the conversation.
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Message content is required")
	}

	message, err := h.bonfireService.CreateMessage(c.Request().Context(), c.Param("id"), currentUserID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, message)
}
