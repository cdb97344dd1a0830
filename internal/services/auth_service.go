package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/bonfire-demo/backend/internal/metrics"
	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Login modes accepted by AuthService.Login.
const (
	ModeMock = "mock"
	ModeReal = "real"
)

const (
	// TokenTTL is how long an issued token stays valid.
	TokenTTL = 7 * 24 * time.Hour

	demoUsername = "demo"
	demoPassword = "demo123"
)

// DemoUserRequest describes the demo account created on first login or seed.
func DemoUserRequest() models.CreateUserRequest {
	return models.CreateUserRequest{
		Username:    demoUsername,
		Email:       "demo@bonfire.local",
		DisplayName: "Demo User",
		Bio:         models.StringPtr("This is the demo account for testing Bonfire integration"),
		AvatarURL:   models.StringPtr("https://api.dicebear.com/7.x/avataaars/svg?seed=demo"),
		IsOnline:    true,
	}
}

// AuthService checks the demo credential and issues and verifies bearer tokens.
type AuthService struct {
	users    BonfireService
	secret   []byte
	demoHash []byte
	validate *validator.Validate
	now      func() time.Time
	log      *logrus.Entry
}

// NewAuthService hashes the demo password once so logins compare against a bcrypt hash.
func NewAuthService(users BonfireService, secret string, log *logrus.Entry) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		demoHash: hash,
		validate: validator.New(),
		now:      time.Now,
		log:      log,
	}, nil
}

// Login authenticates req in the given mode. Mock mode accepts demo/demo123,
// creating the demo user if needed, marks the user online and returns a token.
func (a *AuthService) Login(ctx context.Context, req models.LoginRequest, mode string) (*models.AuthResponse, error) {
	if err := a.validate.Struct(req); err != nil {
		metrics.RecordLogin("rejected")
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	switch mode {
	case "", ModeMock:
	case ModeReal:
		metrics.RecordLogin("rejected")
		return nil, ErrRealModeUnsupported
	default:
		metrics.RecordLogin("rejected")
		return nil, fmt.Errorf("%w: unknown mode %q", ErrValidation, mode)
	}

	if req.Username != demoUsername || bcrypt.CompareHashAndPassword(a.demoHash, []byte(req.Password)) != nil {
		a.log.WithField("username", req.Username).Info("Rejected login")
		metrics.RecordLogin("rejected")
		return nil, ErrInvalidCredentials
	}

	user, err := a.ensureDemoUser(ctx)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}
	if err := a.users.SetUserOnline(ctx, user.ID, true); err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}
	// re-read so the response carries the fresh online flag and last-seen time
	if fresh, err := a.users.GetUser(ctx, user.ID); err == nil {
		user = fresh
	}

	token, err := a.GenerateToken(user)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, fmt.Errorf("generate token: %w", err)
	}

	metrics.RecordLogin("success")
	a.log.WithField("user", user.ID).Info("User logged in")
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (a *AuthService) ensureDemoUser(ctx context.Context) (*models.User, error) {
	user, err := a.users.GetUserByUsername(ctx, demoUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	a.log.Info("Demo user missing, creating it")
	return a.users.CreateUser(ctx, DemoUserRequest())
}

// GenerateToken signs an HS256 token carrying the user's ID and username.
func (a *AuthService) GenerateToken(user *models.User) (string, error) {
	now := a.now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken verifies signature and expiry and returns the claims.
func (a *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAuthorizationHeader extracts and verifies a "Bearer <token>" header.
// A missing or tokenless header is ErrAuthRequired; a token that fails
// verification is ErrInvalidToken.
func (a *AuthService) ParseAuthorizationHeader(header string) (*models.JwtCustomClaims, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, ErrAuthRequired
	}
	return a.ParseToken(parts[1])
}
