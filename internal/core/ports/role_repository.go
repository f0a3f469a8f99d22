package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

// RoleRepository defines the interface for role persistence. The store
// enforces uniqueness of (tenant, name) with a unique index; violations
// surface as domain.ErrRoleNameTaken.
type RoleRepository interface {
	Insert(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, tenantID, roleID uuid.UUID) error
	FindByID(ctx context.Context, tenantID, roleID uuid.UUID) (*domain.Role, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, roleIDs []uuid.UUID) ([]domain.Role, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Role, error)
}
