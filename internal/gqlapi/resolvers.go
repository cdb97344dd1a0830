package gqlapi

import (
	"errors"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/graphql-go/graphql"
)

// Resolver adapts the aggregation and auth services to GraphQL fields.
type Resolver struct {
	bonfire services.BonfireService
	auth    *services.AuthService
}

// NewResolver creates a Resolver.
func NewResolver(bonfire services.BonfireService, auth *services.AuthService) *Resolver {
	return &Resolver{bonfire: bonfire, auth: auth}
}

// Me errors when the caller's user no longer exists.
func (r *Resolver) Me(p graphql.ResolveParams) (interface{}, error) {
	claims, err := requireViewer(p.Context)
	if err != nil {
		return nil, err
	}
	user, err := r.bonfire.GetUser(p.Context, claims.UserID)
	if errors.Is(err, services.ErrNotFound) {
		return nil, &Error{Code: CodeNotFound, Message: "User not found", Err: err}
	}
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return user, nil
}

// User is public and resolves to null for an unknown id.
func (r *Resolver) User(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	user, err := r.bonfire.GetUser(p.Context, id)
	if errors.Is(err, services.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return user, nil
}

func (r *Resolver) Conversations(p graphql.ResolveParams) (interface{}, error) {
	claims, err := requireViewer(p.Context)
	if err != nil {
		return nil, err
	}
	conversations, err := r.bonfire.GetConversationsForUser(p.Context, claims.UserID)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return conversations, nil
}

// Conversation resolves to null for an unknown id.
func (r *Resolver) Conversation(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireViewer(p.Context); err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	conversation, err := r.bonfire.GetConversation(p.Context, id)
	if errors.Is(err, services.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return conversation, nil
}

func (r *Resolver) Activities(p graphql.ResolveParams) (interface{}, error) {
	claims, err := requireViewer(p.Context)
	if err != nil {
		return nil, err
	}
	activities, err := r.bonfire.GetActivitiesForUser(p.Context, claims.UserID)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return activities, nil
}

// Login always runs in mock mode.
func (r *Resolver) Login(p graphql.ResolveParams) (interface{}, error) {
	req := models.LoginRequest{}
	req.Username, _ = p.Args["username"].(string)
	req.Password, _ = p.Args["password"].(string)

	resp, err := r.auth.Login(p.Context, req, services.ModeMock)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return resp, nil
}

func (r *Resolver) SendMessage(p graphql.ResolveParams) (interface{}, error) {
	claims, err := requireViewer(p.Context)
	if err != nil {
		return nil, err
	}
	conversationID, _ := p.Args["conversationId"].(string)
	content, _ := p.Args["content"].(string)

	message, err := r.bonfire.CreateMessage(p.Context, conversationID, claims.UserID, content)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return message, nil
}

func resolveVerb(p graphql.ResolveParams) (interface{}, error) {
	if activity, ok := p.Source.(models.ActivityWithSubject); ok {
		return string(activity.Verb), nil
	}
	return nil, nil
}
