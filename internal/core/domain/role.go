package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Names of the roles seeded for every tenant.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Role is a named permission grouping scoped to a tenant. The name is unique
// within the tenant. Roles are referenced by users, never owned by them.
type Role struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRole builds a role with a fresh id.
func NewRole(tenantID uuid.UUID, name, description string) (*Role, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	return &Role{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Rename changes the role name, rejecting blank values.
func (r *Role) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	r.Name = name
	return nil
}
