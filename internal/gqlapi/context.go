package gqlapi

import (
	"context"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
)

type viewerKey struct{}

type viewer struct {
	claims *models.JwtCustomClaims
	err    error
}

// WithViewer records the caller's verified claims, or the reason the bearer
// token was rejected, for resolvers to consult.
func WithViewer(ctx context.Context, claims *models.JwtCustomClaims, authErr error) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer{claims: claims, err: authErr})
}

// requireViewer returns the caller's claims or the auth error to report.
func requireViewer(ctx context.Context) (*models.JwtCustomClaims, error) {
	v, _ := ctx.Value(viewerKey{}).(viewer)
	if v.err != nil {
		return nil, toGraphQLError(v.err)
	}
	if v.claims == nil {
		return nil, toGraphQLError(services.ErrAuthRequired)
	}
	return v.claims, nil
}
