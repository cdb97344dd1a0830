package models

import "time"

// Message belongs to exactly one conversation and never changes after creation.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ConversationID string    `json:"conversationId" gorm:"type:varchar(36);index;not null"`
	SenderID       string    `json:"senderId" gorm:"type:varchar(36);not null"`
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"createdAt"`
	// Sequence records insertion order; it breaks ties between equal CreatedAt values.
	Sequence int64 `json:"-" gorm:"type:bigserial;<-:false"`
}

// SendMessageRequest defines the request body for posting to a conversation
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
