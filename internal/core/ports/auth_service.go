package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	TenantID uuid.UUID
	Username string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserResult
}

// AuthService authenticates users and issues tokens.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}
