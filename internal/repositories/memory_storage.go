package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/google/uuid"
)

// MemStorage is an in-memory Store. It is safe for concurrent use; a single
// RWMutex serializes writers so every read observes all earlier writes.
// Nothing survives a restart.
type MemStorage struct {
	mu sync.RWMutex

	users         map[string]models.User
	conversations map[string]models.Conversation
	messages      map[string]models.Message
	activities    map[string]models.Activity
	// conversation ID -> participant user IDs, deduplicated, in join order
	participants map[string][]string

	// insertion order, used for list scans and tie-breaks
	userOrder         []string
	conversationOrder []string
	messageOrder      []string
	activityOrder     []string

	sequence int64
	now      func() time.Time
	newID    func() string
}

var _ Store = (*MemStorage)(nil)

// MemOption configures a MemStorage.
type MemOption func(*MemStorage)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) MemOption {
	return func(s *MemStorage) { s.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) MemOption {
	return func(s *MemStorage) { s.newID = newID }
}

// NewMemStorage creates an empty store.
func NewMemStorage(opts ...MemOption) *MemStorage {
	s := &MemStorage{
		users:         make(map[string]models.User),
		conversations: make(map[string]models.Conversation),
		messages:      make(map[string]models.Message),
		activities:    make(map[string]models.Activity),
		participants:  make(map[string][]string),
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStorage) nowUTC() time.Time {
	return s.now().UTC()
}

// User operations ------------------------------------------------------------

// CreateUser assigns a fresh ID and last-seen time and inserts the user.
func (s *MemStorage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}
		if existing.Email == user.Email {
			return fmt.Errorf("email %q: %w", user.Email, ErrDuplicate)
		}
	}

	user.ID = s.newID()
	seen := s.nowUTC()
	user.LastSeen = &seen

	s.users[user.ID] = *user
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

// GetUserByID retrieves a user by ID
func (s *MemStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetUserByUsername scans users for an exact username match
func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userOrder {
		if user := s.users[id]; user.Username == username {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

// ListUsers returns all users in creation order
func (s *MemStorage) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, s.users[id])
	}
	return users, nil
}

// UpdateUserStatus sets the online flag and bumps last-seen; unknown users are ignored.
func (s *MemStorage) UpdateUserStatus(_ context.Context, id string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil
	}
	seen := s.nowUTC()
	user.IsOnline = online
	user.LastSeen = &seen
	s.users[id] = user
	return nil
}

// Conversation operations ----------------------------------------------------

// CreateConversation inserts a conversation together with its participant set.
func (s *MemStorage) CreateConversation(_ context.Context, conversation *models.Conversation, participantIDs []string) error {
	if len(participantIDs) == 0 {
		return ErrNoParticipants
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conversation.ID = s.newID()
	now := s.nowUTC()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	if conversation.UpdatedAt.IsZero() {
		conversation.UpdatedAt = conversation.CreatedAt
	}

	seen := make(map[string]struct{}, len(participantIDs))
	members := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}

	s.conversations[conversation.ID] = *conversation
	s.conversationOrder = append(s.conversationOrder, conversation.ID)
	s.participants[conversation.ID] = members
	return nil
}

// GetConversationByID retrieves a conversation by ID
func (s *MemStorage) GetConversationByID(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return &conv, nil
}

// ListConversations returns all conversations in creation order
func (s *MemStorage) ListConversations(_ context.Context) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	convs := make([]models.Conversation, 0, len(s.conversationOrder))
	for _, id := range s.conversationOrder {
		convs = append(convs, s.conversations[id])
	}
	return convs, nil
}

// GetParticipantIDs returns the member IDs of a conversation in the order they were added.
func (s *MemStorage) GetParticipantIDs(_ context.Context, conversationID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := s.participants[conversationID]
	ids := make([]string, len(members))
	copy(ids, members)
	return ids, nil
}

// TouchConversation moves UpdatedAt forward to at.
func (s *MemStorage) TouchConversation(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	if at.After(conv.UpdatedAt) {
		conv.UpdatedAt = at.UTC()
		s.conversations[id] = conv
	}
	return nil
}

// Message operations ---------------------------------------------------------

// CreateMessage inserts a message. Referenced IDs are not checked here.
func (s *MemStorage) CreateMessage(_ context.Context, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.newID()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = s.nowUTC()
	}
	s.sequence++
	message.Sequence = s.sequence

	s.messages[message.ID] = *message
	s.messageOrder = append(s.messageOrder, message.ID)
	return nil
}

// ListMessagesByConversation scans every message and keeps those of conversationID.
func (s *MemStorage) ListMessagesByConversation(_ context.Context, conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]models.Message, 0)
	for _, id := range s.messageOrder {
		if msg := s.messages[id]; msg.ConversationID == conversationID {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// Activity operations --------------------------------------------------------

// CreateActivity appends an activity to the log.
func (s *MemStorage) CreateActivity(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity.ID = s.newID()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = s.nowUTC()
	}

	s.activities[activity.ID] = *activity
	s.activityOrder = append(s.activityOrder, activity.ID)
	return nil
}

// ListActivities returns the whole activity log in insertion order.
func (s *MemStorage) ListActivities(_ context.Context) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activities := make([]models.Activity, 0, len(s.activityOrder))
	for _, id := range s.activityOrder {
		activities = append(activities, s.activities[id])
	}
	return activities, nil
}
