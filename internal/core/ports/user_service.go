package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RegisterUserInput carries all data needed to register a user.
type RegisterUserInput struct {
	TenantID uuid.UUID
	Username string
	Email    string
	Password string
	RoleIDs  []uuid.UUID
}

// UpdateUserInput carries an update request. Nil fields are left unchanged.
type UpdateUserInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Username *string
	Email    *string
	Password *string
}

// RoleResult is the flat representation of a role returned by the services.
type RoleResult struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// UserResult is the flat representation of a user returned by the services.
// It never carries credential material.
type UserResult struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Username  string
	Email     string
	Roles     []RoleResult
	CreatedAt time.Time
}

// UserService implements the user management use cases.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*UserResult, error)
	Update(ctx context.Context, in UpdateUserInput) (*UserResult, error)
	Delete(ctx context.Context, tenantID, userID uuid.UUID) error
	Get(ctx context.Context, tenantID, userID uuid.UUID) (*UserResult, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]UserResult, error)
	AssignRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*UserResult, error)
	RemoveRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*UserResult, error)
}
