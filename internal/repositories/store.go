package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field (username, email) is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrNoParticipants is returned when a conversation is created without members.
	ErrNoParticipants = errors.New("conversation requires at least one participant")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUserStatus sets the online flag and last-seen time. A missing user is not an error.
	UpdateUserStatus(ctx context.Context, id string, online bool) error
}

// ConversationRepository defines conversation and participant operations
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conversation *models.Conversation, participantIDs []string) error
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	GetParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
	// TouchConversation moves UpdatedAt forward to at. It never moves it backwards
	// and ignores unknown conversations.
	TouchConversation(ctx context.Context, id string, at time.Time) error
}

// MessageRepository defines message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	// ListMessagesByConversation returns messages in insertion order.
	ListMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
}

// ActivityRepository defines activity log operations
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	// ListActivities returns every activity in insertion order.
	ListActivities(ctx context.Context) ([]models.Activity, error)
}

// Store is the entity store consumed by the aggregation layer.
type Store interface {
	UserRepository
	ConversationRepository
	MessageRepository
	ActivityRepository
}
