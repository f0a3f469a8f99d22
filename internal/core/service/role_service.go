package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/ports"
)

// RoleService implements tenant-scoped role administration. Role names are
// unique within a tenant; the repository's unique index backs the check.
type RoleService struct {
	roles ports.RoleRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, log: log}
}

func (s *RoleService) Create(ctx context.Context, in ports.CreateRoleInput) (*ports.RoleResult, error) {
	role, err := domain.NewRole(in.TenantID, in.Name, in.Description)
	if err != nil {
		return nil, err
	}
	if err := s.roles.Insert(ctx, role); err != nil {
		return nil, err
	}

	s.log.Info().Str("role_id", role.ID.String()).Str("name", role.Name).Msg("role created")
	return toRoleResult(role), nil
}

func (s *RoleService) Update(ctx context.Context, in ports.UpdateRoleInput) (*ports.RoleResult, error) {
	role, err := s.roles.FindByID(ctx, in.TenantID, in.RoleID)
	if err != nil {
		return nil, err
	}
	if err := role.Rename(in.Name); err != nil {
		return nil, err
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}

	s.log.Info().Str("role_id", role.ID.String()).Str("name", role.Name).Msg("role renamed")
	return toRoleResult(role), nil
}

// Delete removes a role and detaches it from every user holding it.
func (s *RoleService) Delete(ctx context.Context, tenantID, roleID uuid.UUID) error {
	if _, err := s.roles.FindByID(ctx, tenantID, roleID); err != nil {
		return err
	}
	if err := s.users.DetachRole(ctx, tenantID, roleID); err != nil {
		return fmt.Errorf("delete role: detach users: %w", err)
	}
	if err := s.roles.Delete(ctx, tenantID, roleID); err != nil {
		return err
	}

	s.log.Info().Str("role_id", roleID.String()).Msg("role deleted")
	return nil
}

func (s *RoleService) Get(ctx context.Context, tenantID, roleID uuid.UUID) (*ports.RoleResult, error) {
	role, err := s.roles.FindByID(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	return toRoleResult(role), nil
}

func (s *RoleService) List(ctx context.Context, tenantID uuid.UUID) ([]ports.RoleResult, error) {
	roles, err := s.roles.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	results := make([]ports.RoleResult, 0, len(roles))
	for i := range roles {
		results = append(results, *toRoleResult(&roles[i]))
	}
	return results, nil
}

func toRoleResult(role *domain.Role) *ports.RoleResult {
	return &ports.RoleResult{ID: role.ID, Name: role.Name, Description: role.Description}
}
