package repositories

import (
	"context"
	"time"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage inserts a message; the sequence column is filled by the database
func (r *PostgresMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = uuid.New().String()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessagesByConversation returns the messages of a conversation in insertion order
func (r *PostgresMessageRepository) ListMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	msgs := make([]models.Message, 0)
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sequence ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
