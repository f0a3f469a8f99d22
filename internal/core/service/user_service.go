package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/ports"
)

// EventDispatcher is the interface the service uses to hand off integration
// events. Enqueue must never block the request.
type EventDispatcher interface {
	Enqueue(event domain.UserCreated)
}

// UserService implements registration and user administration. Uniqueness of
// username and email within a tenant is pre-checked for fast feedback, but
// the repository's unique indexes remain the authoritative guard against
// concurrent registration.
type UserService struct {
	users      ports.UserRepository
	roles      ports.RoleRepository
	hasher     ports.PasswordHasher
	dispatcher EventDispatcher
	log        zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	dispatcher EventDispatcher,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:      users,
		roles:      roles,
		hasher:     hasher,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*ports.UserResult, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	if taken, err := s.users.UsernameExists(ctx, in.TenantID, in.Username, uuid.Nil); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}
	if taken, err := s.users.EmailExists(ctx, in.TenantID, in.Email, uuid.Nil); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	} else if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, salt, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user, err := domain.NewUser(in.TenantID, in.Username, in.Email, hash, salt)
	if err != nil {
		return nil, err
	}

	var roles []domain.Role
	if len(in.RoleIDs) > 0 {
		roles, err = s.roles.FindByIDs(ctx, in.TenantID, in.RoleIDs)
		if err != nil {
			return nil, fmt.Errorf("register: load roles: %w", err)
		}
		for _, r := range roles {
			user.AddRole(r)
		}
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("tenant_id", user.TenantID.String()).
		Str("username", user.Username).
		Msg("user registered")

	if s.dispatcher != nil {
		s.dispatcher.Enqueue(domain.UserCreated{
			UserID:     user.ID,
			TenantID:   user.TenantID,
			Username:   user.Username,
			Email:      user.Email,
			OccurredAt: time.Now().UTC(),
		})
	}

	result := toUserResult(user, roles)
	return &result, nil
}

func (s *UserService) Update(ctx context.Context, in ports.UpdateUserInput) (*ports.UserResult, error) {
	user, err := s.users.FindByID(ctx, in.TenantID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username {
		taken, err := s.users.UsernameExists(ctx, in.TenantID, *in.Username, user.ID)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
	}
	if in.Email != nil && *in.Email != user.Email {
		taken, err := s.users.EmailExists(ctx, in.TenantID, *in.Email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
	}

	if err := user.UpdateProfile(in.Username, in.Email); err != nil {
		return nil, err
	}
	if in.Password != nil && *in.Password != "" {
		hash, salt, err := s.hasher.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		if err := user.SetPassword(hash, salt); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user updated")
	return s.resolve(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, tenantID, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID.String()).Msg("user deleted")
	return nil
}

func (s *UserService) Get(ctx context.Context, tenantID, userID uuid.UUID) (*ports.UserResult, error) {
	user, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user)
}

func (s *UserService) List(ctx context.Context, tenantID uuid.UUID) ([]ports.UserResult, error) {
	users, err := s.users.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	allRoles, err := s.roles.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list users: load roles: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Role, len(allRoles))
	for _, r := range allRoles {
		byID[r.ID] = r
	}

	results := make([]ports.UserResult, 0, len(users))
	for i := range users {
		var roles []domain.Role
		for _, id := range users[i].RoleIDs() {
			if r, ok := byID[id]; ok {
				roles = append(roles, r)
			}
		}
		results = append(results, toUserResult(&users[i], roles))
	}
	return results, nil
}

func (s *UserService) AssignRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*ports.UserResult, error) {
	user, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}

	user.AddRole(*role)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID.String()).Str("role", role.Name).Msg("role assigned")
	return s.resolve(ctx, user)
}

func (s *UserService) RemoveRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*ports.UserResult, error) {
	user, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	user.RemoveRole(roleID)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).Msg("role removed")
	return s.resolve(ctx, user)
}

// resolve loads the user's roles and builds the result DTO.
func (s *UserService) resolve(ctx context.Context, user *domain.User) (*ports.UserResult, error) {
	roles, err := s.roles.FindByIDs(ctx, user.TenantID, user.RoleIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve user roles: %w", err)
	}
	result := toUserResult(user, roles)
	return &result, nil
}

func toUserResult(user *domain.User, roles []domain.Role) ports.UserResult {
	rs := make([]ports.RoleResult, 0, len(roles))
	for _, r := range roles {
		rs = append(rs, ports.RoleResult{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return ports.UserResult{
		ID:        user.ID,
		TenantID:  user.TenantID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     rs,
		CreatedAt: user.CreatedAt,
	}
}
