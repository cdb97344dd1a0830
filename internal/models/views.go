package models

import "time"

// MessageWithSender is a message joined with its sender.
type MessageWithSender struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Sender         User      `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewMessageWithSender joins m with sender.
func NewMessageWithSender(m Message, sender User) MessageWithSender {
	return MessageWithSender{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Sender:         sender,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// ConversationWithMessages is a conversation populated with its participants and ordered messages.
type ConversationWithMessages struct {
	ID           string              `json:"id"`
	Title        *string             `json:"title"`
	IsGroup      bool                `json:"isGroup"`
	Participants []User              `json:"participants"`
	Messages     []MessageWithSender `json:"messages"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ActivityWithSubject is an activity joined with the user who performed it.
type ActivityWithSubject struct {
	ID            string       `json:"id"`
	SubjectID     string       `json:"subjectId"`
	Subject       User         `json:"subject"`
	Verb          ActivityVerb `json:"verb"`
	ObjectType    string       `json:"objectType"`
	ObjectID      string       `json:"objectId"`
	ObjectContent *string      `json:"objectContent"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// NewActivityWithSubject joins a with subject.
func NewActivityWithSubject(a Activity, subject User) ActivityWithSubject {
	return ActivityWithSubject{
		ID:            a.ID,
		SubjectID:     a.SubjectID,
		Subject:       subject,
		Verb:          a.Verb,
		ObjectType:    a.ObjectType,
		ObjectID:      a.ObjectID,
		ObjectContent: a.ObjectContent,
		CreatedAt:     a.CreatedAt,
	}
}
