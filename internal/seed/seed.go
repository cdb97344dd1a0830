// Package seed fills an empty store with demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
)

const (
	extraUsers        = 8
	conversationCount = 5
	activityCount     = 15
)

var objectTypes = []string{"post", "comment", "user", "article"}

// Seeder generates mock users, conversations, messages and activities.
type Seeder struct {
	bonfire services.BonfireService
	faker   *gofakeit.Faker
	log     *logrus.Entry
}

// NewSeeder creates a Seeder. A zero seed picks a random one.
func NewSeeder(bonfire services.BonfireService, seed int64, log *logrus.Entry) *Seeder {
	return &Seeder{
		bonfire: bonfire,
		faker:   gofakeit.New(seed),
		log:     log,
	}
}

// Run seeds the store unless the demo user already exists. It reports
// whether data was created.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	demoReq := services.DemoUserRequest()
	if _, err := s.bonfire.GetUserByUsername(ctx, demoReq.Username); err == nil {
		s.log.Info("Mock data already initialized")
		return false, nil
	} else if !errors.Is(err, services.ErrNotFound) {
		return false, err
	}

	s.log.Info("Initializing mock data...")

	demo, err := s.bonfire.CreateUser(ctx, demoReq)
	if err != nil {
		return false, fmt.Errorf("create demo user: %w", err)
	}

	others := make([]models.User, 0, extraUsers)
	for len(others) < extraUsers {
		user, err := s.bonfire.CreateUser(ctx, s.userRequest())
		if errors.Is(err, services.ErrDuplicate) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("create mock user: %w", err)
		}
		others = append(others, *user)
	}
	s.log.WithField("count", len(others)+1).Info("Created mock users")

	for i := 0; i < conversationCount; i++ {
		if err := s.conversation(ctx, demo.ID, others); err != nil {
			return false, err
		}
	}
	s.log.WithField("count", conversationCount).Info("Created conversations with messages")

	for i := 0; i < activityCount; i++ {
		if err := s.bonfire.CreateActivity(ctx, s.activity(others)); err != nil {
			return false, fmt.Errorf("create activity: %w", err)
		}
	}
	s.log.WithField("count", activityCount).Info("Created activity items")

	s.log.Info("Mock data initialization complete!")
	return true, nil
}

func (s *Seeder) userRequest() models.CreateUserRequest {
	first, last := s.faker.FirstName(), s.faker.LastName()
	handle := fmt.Sprintf("%s.%s%d", slug(first), slug(last), s.faker.Number(1, 99))

	var bio *string
	if s.faker.Float64() < 0.7 {
		bio = models.StringPtr(s.faker.Sentence(8))
	}

	return models.CreateUserRequest{
		Username:    handle,
		Email:       handle + "@example.com",
		DisplayName: first + " " + last,
		Bio:         bio,
		AvatarURL:   models.StringPtr("https://api.dicebear.com/7.x/avataaars/svg?seed=" + handle),
		IsOnline:    s.faker.Bool(),
	}
}

// conversation opens a chat between the demo user and one other user, or
// about a third of the time a titled group of three to five people.
func (s *Seeder) conversation(ctx context.Context, demoID string, others []models.User) error {
	isGroup := s.faker.Float64() < 0.3

	participantIDs := []string{demoID}
	req := models.CreateConversationRequest{IsGroup: isGroup}
	if isGroup {
		req.Title = s.faker.BS()
		for _, user := range s.pick(others, s.faker.Number(2, 4)) {
			participantIDs = append(participantIDs, user.ID)
		}
	} else {
		participantIDs = append(participantIDs, s.pick(others, 1)[0].ID)
	}
	req.ParticipantIDs = participantIDs

	conv, err := s.bonfire.CreateConversation(ctx, req)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	messages := s.faker.Number(3, 10)
	for j := 0; j < messages; j++ {
		sender := participantIDs[s.faker.Number(0, len(participantIDs)-1)]
		content := s.faker.Paragraph(1, s.faker.Number(1, 3), 10, " ")
		if _, err := s.bonfire.CreateMessage(ctx, conv.ID, sender, content); err != nil {
			return fmt.Errorf("create message: %w", err)
		}
	}
	return nil
}

func (s *Seeder) activity(others []models.User) *models.Activity {
	subject := s.pick(others, 1)[0]
	verb := models.ActivityVerbs[s.faker.Number(0, len(models.ActivityVerbs)-1)]

	objectType := objectTypes[s.faker.Number(0, len(objectTypes)-1)]
	if verb == models.VerbFollowed {
		objectType = "user"
	}

	var content *string
	if verb == models.VerbPosted || verb == models.VerbCommented {
		content = models.StringPtr(s.faker.Paragraph(1, s.faker.Number(1, 3), 12, " "))
	}

	return &models.Activity{
		SubjectID:     subject.ID,
		Verb:          verb,
		ObjectType:    objectType,
		ObjectID:      s.faker.UUID(),
		ObjectContent: content,
	}
}

// pick returns n distinct users chosen at random.
func (s *Seeder) pick(users []models.User, n int) []models.User {
	shuffled := make([]models.User, len(users))
	copy(shuffled, users)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.faker.Number(0, i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// slug keeps the ASCII letters and digits of name, lower-cased.
func slug(name string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, name)
	if out == "" {
		return "user"
	}
	return out
}
