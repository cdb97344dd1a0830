package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a Bonfire account. Conversations, messages and activities refer to it by ID only.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username    string     `json:"username" gorm:"uniqueIndex;not null"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName string     `json:"displayName" gorm:"not null"`
	Bio         *string    `json:"bio"`
	AvatarURL   *string    `json:"avatarUrl"`
	IsOnline    bool       `json:"isOnline"`
	LastSeen    *time.Time `json:"lastSeen"`
}

// CreateUserRequest defines the fields accepted when creating a user
type CreateUserRequest struct {
	Username    string  `json:"username" validate:"required,min=1,max=64"`
	Email       string  `json:"email" validate:"required,email"`
	DisplayName string  `json:"displayName" validate:"required,min=1,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	IsOnline    bool    `json:"isOnline"`
}

// LoginRequest is the login payload shared by the REST and GraphQL facades.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
