package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence. Every query is
// scoped to a tenant; cross-tenant lookups are not possible through it.
//
// The store enforces uniqueness of (tenant, username) and (tenant, email)
// with unique indexes; Insert and Update surface violations as
// domain.ErrUsernameTaken / domain.ErrEmailTaken.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, tenantID, userID uuid.UUID) error
	FindByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*domain.User, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.User, error)
	UsernameExists(ctx context.Context, tenantID uuid.UUID, username string, excludeID uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, tenantID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)
	// DetachRole removes the role from every user of the tenant holding it.
	DetachRole(ctx context.Context, tenantID, roleID uuid.UUID) error
}
