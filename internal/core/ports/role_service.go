package ports

import (
	"context"

	"github.com/google/uuid"
)

// CreateRoleInput carries the data for a new role.
type CreateRoleInput struct {
	TenantID    uuid.UUID
	Name        string
	Description string
}

// UpdateRoleInput renames an existing role.
type UpdateRoleInput struct {
	TenantID uuid.UUID
	RoleID   uuid.UUID
	Name     string
}

// RoleService implements tenant-scoped role administration.
type RoleService interface {
	Create(ctx context.Context, in CreateRoleInput) (*RoleResult, error)
	Update(ctx context.Context, in UpdateRoleInput) (*RoleResult, error)
	Delete(ctx context.Context, tenantID, roleID uuid.UUID) error
	Get(ctx context.Context, tenantID, roleID uuid.UUID) (*RoleResult, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]RoleResult, error)
}
