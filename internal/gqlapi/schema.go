package gqlapi

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds the Bonfire schema over r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"displayName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"bio":         &graphql.Field{Type: graphql.String},
			"avatarUrl":   &graphql.Field{Type: graphql.String},
			"isOnline":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"lastSeen":    &graphql.Field{Type: DateTime},
		},
	})

	messageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Message",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"conversationId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"senderId":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"sender":         &graphql.Field{Type: graphql.NewNonNull(userType)},
			"content":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt":      &graphql.Field{Type: graphql.NewNonNull(DateTime)},
		},
	})

	conversationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Conversation",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":        &graphql.Field{Type: graphql.String},
			"isGroup":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"participants": &graphql.Field{Type: nonNullList(userType)},
			"messages":     &graphql.Field{Type: nonNullList(messageType)},
			"createdAt":    &graphql.Field{Type: graphql.NewNonNull(DateTime)},
			"updatedAt":    &graphql.Field{Type: graphql.NewNonNull(DateTime)},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"subjectId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"subject":   &graphql.Field{Type: graphql.NewNonNull(userType)},
			"verb": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: resolveVerb,
			},
			"objectType":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"objectId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"objectContent": &graphql.Field{Type: graphql.String},
			"createdAt":     &graphql.Field{Type: graphql.NewNonNull(DateTime)},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})

	idArgs := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.Me,
			},
			"user": &graphql.Field{
				Type:    userType,
				Args:    idArgs,
				Resolve: r.User,
			},
			"conversations": &graphql.Field{
				Type:    nonNullList(conversationType),
				Resolve: r.Conversations,
			},
			"conversation": &graphql.Field{
				Type:    conversationType,
				Args:    idArgs,
				Resolve: r.Conversation,
			},
			"activities": &graphql.Field{
				Type:    nonNullList(activityType),
				Resolve: r.Activities,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.Login,
			},
			"sendMessage": &graphql.Field{
				Type: graphql.NewNonNull(messageType),
				Args: graphql.FieldConfigArgument{
					"conversationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"content":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.SendMessage,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types:    []graphql.Type{DateTime},
	})
}

func nonNullList(of graphql.Type) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(of)))
}
