package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/ports"
)

// Seeder bootstraps a tenant at startup: the Admin and User roles always
// exist, and an initial admin account is created when credentials are
// configured. Seeding is idempotent across restarts.
type Seeder struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewSeeder(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, hasher: hasher, log: log}
}

// Seed ensures the default roles and, when adminPassword is non-empty, the
// initial admin user for the tenant.
func (s *Seeder) Seed(ctx context.Context, tenantID uuid.UUID, adminUsername, adminEmail, adminPassword string) error {
	adminRole, err := s.ensureRole(ctx, tenantID, domain.RoleAdmin, "full administrative access")
	if err != nil {
		return err
	}
	if _, err := s.ensureRole(ctx, tenantID, domain.RoleUser, "standard user access"); err != nil {
		return err
	}

	if adminPassword == "" {
		return nil
	}

	if _, err := s.users.FindByUsername(ctx, tenantID, adminUsername); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed: %w", err)
	}

	hash, salt, err := s.hasher.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}
	admin, err := domain.NewUser(tenantID, adminUsername, adminEmail, hash, salt)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	admin.AddRole(*adminRole)

	if err := s.users.Insert(ctx, admin); err != nil {
		// Lost the race against a concurrent boot; the account exists.
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("seed: insert admin: %w", err)
	}

	s.log.Info().Str("username", adminUsername).Str("tenant_id", tenantID.String()).Msg("seeded admin user")
	return nil
}

func (s *Seeder) ensureRole(ctx context.Context, tenantID uuid.UUID, name, description string) (*domain.Role, error) {
	roles, err := s.roles.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("seed: list roles: %w", err)
	}
	for i := range roles {
		if roles[i].Name == name {
			return &roles[i], nil
		}
	}

	role, err := domain.NewRole(tenantID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.roles.Insert(ctx, role); err != nil {
		if errors.Is(err, domain.ErrRoleNameTaken) {
			return role, nil
		}
		return nil, fmt.Errorf("seed: insert role %s: %w", name, err)
	}

	s.log.Info().Str("role", name).Str("tenant_id", tenantID.String()).Msg("seeded role")
	return role, nil
}
