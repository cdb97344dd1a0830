package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/anonto42/bonfire-demo/backend/internal/metrics"
	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// BonfireService joins entity store records into the shapes served by the
// REST and GraphQL facades.
type BonfireService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	SetUserOnline(ctx context.Context, id string, online bool) error

	GetConversationsForUser(ctx context.Context, userID string) ([]models.ConversationWithMessages, error)
	GetConversation(ctx context.Context, id string) (*models.ConversationWithMessages, error)
	CreateConversation(ctx context.Context, req models.CreateConversationRequest) (*models.Conversation, error)

	GetMessagesForConversation(ctx context.Context, conversationID string) ([]models.MessageWithSender, error)
	CreateMessage(ctx context.Context, conversationID, senderID, content string) (*models.MessageWithSender, error)

	GetActivitiesForUser(ctx context.Context, userID string) ([]models.ActivityWithSubject, error)
	CreateActivity(ctx context.Context, activity *models.Activity) error
}

type bonfireService struct {
	store    repositories.Store
	validate *validator.Validate
	log      *logrus.Entry
}

// NewBonfireService creates the aggregation service over store.
func NewBonfireService(store repositories.Store, log *logrus.Entry) BonfireService {
	return &bonfireService{
		store:    store,
		validate: validator.New(),
		log:      log,
	}
}

// Users ----------------------------------------------------------------------

func (s *bonfireService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

func (s *bonfireService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

func (s *bonfireService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		IsOnline:    req.IsOnline,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *bonfireService) SetUserOnline(ctx context.Context, id string, online bool) error {
	return s.store.UpdateUserStatus(ctx, id, online)
}

// Conversations --------------------------------------------------------------

// GetConversationsForUser returns the conversations userID participates in,
// most recently active first.
func (s *bonfireService) GetConversationsForUser(ctx context.Context, userID string) ([]models.ConversationWithMessages, error) {
	convs, err := s.store.ListConversations(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.ConversationWithMessages, 0)
	for _, conv := range convs {
		participantIDs, err := s.store.GetParticipantIDs(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(participantIDs, userID) {
			continue
		}
		populated, err := s.populate(ctx, conv, participantIDs)
		if err != nil {
			return nil, err
		}
		result = append(result, *populated)
	}

	// zero UpdatedAt sorts last, like the epoch
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *bonfireService) GetConversation(ctx context.Context, id string) (*models.ConversationWithMessages, error) {
	conv, err := s.store.GetConversationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	participantIDs, err := s.store.GetParticipantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, *conv, participantIDs)
}

func (s *bonfireService) CreateConversation(ctx context.Context, req models.CreateConversationRequest) (*models.Conversation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, id := range req.ParticipantIDs {
		if _, err := s.store.GetUserByID(ctx, id); err != nil {
			return nil, fmt.Errorf("participant: %w", err)
		}
	}

	conv := &models.Conversation{
		Title:   models.StringPtr(req.Title),
		IsGroup: req.IsGroup,
	}
	if err := s.store.CreateConversation(ctx, conv, req.ParticipantIDs); err != nil {
		return nil, err
	}
	return conv, nil
}

// populate attaches ordered messages and participant users to conv.
// Participant IDs without a stored user are skipped.
func (s *bonfireService) populate(ctx context.Context, conv models.Conversation, participantIDs []string) (*models.ConversationWithMessages, error) {
	messages, err := s.GetMessagesForConversation(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	participants := make([]models.User, 0, len(participantIDs))
	for _, id := range participantIDs {
		user, err := s.store.GetUserByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			s.log.WithFields(logrus.Fields{"conversation": conv.ID, "user": id}).Warn("Skipping unknown participant")
			continue
		}
		if err != nil {
			return nil, err
		}
		participants = append(participants, *user)
	}

	return &models.ConversationWithMessages{
		ID:           conv.ID,
		Title:        conv.Title,
		IsGroup:      conv.IsGroup,
		Participants: participants,
		Messages:     messages,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
	}, nil
}

// Messages -------------------------------------------------------------------

// GetMessagesForConversation returns the conversation's messages oldest first,
// ties kept in insertion order. A message whose sender is gone is an integrity error.
func (s *bonfireService) GetMessagesForConversation(ctx context.Context, conversationID string) ([]models.MessageWithSender, error) {
	msgs, err := s.store.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	senders := newUserCache(s.store)
	result := make([]models.MessageWithSender, 0, len(msgs))
	for _, msg := range msgs {
		sender, err := senders.get(ctx, msg.SenderID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("sender %s of message %s: %w", msg.SenderID, msg.ID, ErrIntegrity)
		}
		if err != nil {
			return nil, err
		}
		result = append(result, models.NewMessageWithSender(msg, *sender))
	}
	return result, nil
}

// CreateMessage stores a message from senderID and bumps the conversation's
// UpdatedAt. The conversation itself is not required to exist.
func (s *bonfireService) CreateMessage(ctx context.Context, conversationID, senderID, content string) (*models.MessageWithSender, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	sender, err := s.store.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	if _, err := s.store.GetConversationByID(ctx, conversationID); errors.Is(err, repositories.ErrNotFound) {
		s.log.WithFields(logrus.Fields{"conversation": conversationID, "sender": senderID}).
			Warn("Message sent to unknown conversation")
	} else if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.store.TouchConversation(ctx, conversationID, msg.CreatedAt); err != nil {
		return nil, err
	}
	metrics.RecordMessageSent()

	result := models.NewMessageWithSender(*msg, *sender)
	return &result, nil
}

// Activities -----------------------------------------------------------------

// GetActivitiesForUser returns the global activity feed, newest first.
// userID is accepted for API symmetry but does not filter the feed.
func (s *bonfireService) GetActivitiesForUser(ctx context.Context, userID string) ([]models.ActivityWithSubject, error) {
	activities, err := s.store.ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})

	subjects := newUserCache(s.store)
	result := make([]models.ActivityWithSubject, 0, len(activities))
	for _, activity := range activities {
		subject, err := subjects.get(ctx, activity.SubjectID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("subject %s of activity %s: %w", activity.SubjectID, activity.ID, ErrIntegrity)
		}
		if err != nil {
			return nil, err
		}
		result = append(result, models.NewActivityWithSubject(activity, *subject))
	}

	s.log.WithFields(logrus.Fields{"viewer": userID, "count": len(result)}).Debug("Served activity feed")
	return result, nil
}

func (s *bonfireService) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if err := s.validate.Struct(activity); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.store.GetUserByID(ctx, activity.SubjectID); err != nil {
		return fmt.Errorf("subject: %w", err)
	}
	return s.store.CreateActivity(ctx, activity)
}

// helpers --------------------------------------------------------------------

// userCache memoizes user lookups for the duration of one aggregation.
type userCache struct {
	store repositories.UserRepository
	users map[string]*models.User
}

func newUserCache(store repositories.UserRepository) *userCache {
	return &userCache{store: store, users: make(map[string]*models.User)}
}

func (c *userCache) get(ctx context.Context, id string) (*models.User, error) {
	if user, ok := c.users[id]; ok {
		return user, nil
	}
	user, err := c.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.users[id] = user
	return user, nil
}
