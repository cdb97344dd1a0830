package repositories

import (
	"context"
	"time"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresConversationRepository implements ConversationRepository for PostgreSQL
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// CreateConversation inserts the conversation and its participant rows in one transaction
func (r *PostgresConversationRepository) CreateConversation(ctx context.Context, conversation *models.Conversation, participantIDs []string) error {
	if len(participantIDs) == 0 {
		return ErrNoParticipants
	}

	conversation.ID = uuid.New().String()
	now := time.Now().UTC()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	if conversation.UpdatedAt.IsZero() {
		conversation.UpdatedAt = conversation.CreatedAt
	}

	rows := participantRows(conversation.ID, participantIDs, now)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
}

// participantRows deduplicates participantIDs and stamps each row a microsecond
// after the previous one, the resolution of a Postgres timestamp, so that
// ordering by joined_at reproduces the given order.
func participantRows(conversationID string, participantIDs []string, joinedAt time.Time) []models.ConversationParticipant {
	seen := make(map[string]struct{}, len(participantIDs))
	rows := make([]models.ConversationParticipant, 0, len(participantIDs))
	for _, userID := range participantIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		rows = append(rows, models.ConversationParticipant{
			ConversationID: conversationID,
			UserID:         userID,
			JoinedAt:       joinedAt.Truncate(time.Microsecond).Add(time.Duration(len(rows)) * time.Microsecond),
		})
	}
	return rows
}

// GetConversationByID retrieves a conversation by ID
func (r *PostgresConversationRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error; err != nil {
		return nil, translateError(err, "conversation "+id)
	}
	return &conv, nil
}

// ListConversations retrieves all conversations
func (r *PostgresConversationRepository) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var convs []models.Conversation
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// GetParticipantIDs returns the user IDs joined to a conversation
func (r *PostgresConversationRepository) GetParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// TouchConversation bumps updated_at when at is later than the stored value
func (r *PostgresConversationRepository) TouchConversation(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ? AND updated_at < ?", id, at.UTC()).
		UpdateColumn("updated_at", at.UTC()).Error
}
