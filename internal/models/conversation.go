package models

import "time"

// Conversation is a 1:1 or group chat. Membership lives in ConversationParticipant.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     *string   `json:"title"`
	IsGroup   bool      `json:"isGroup"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"index"`
}

// ConversationParticipant links a user to a conversation (many-to-many side relation).
type ConversationParticipant struct {
	ConversationID string    `json:"conversationId" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"userId" gorm:"primaryKey;type:varchar(36);index"`
	JoinedAt       time.Time `json:"joinedAt" gorm:"autoCreateTime"`
}

// CreateConversationRequest defines the request body for opening a conversation
type CreateConversationRequest struct {
	Title          string   `json:"title,omitempty" validate:"omitempty,max=200"`
	IsGroup        bool     `json:"isGroup"`
	ParticipantIDs []string `json:"participantIds" validate:"required,min=1,dive,required"`
}
