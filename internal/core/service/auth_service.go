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

// LoginThrottle abstracts the failed-attempt store (Redis). A throttled pair
// is rejected before any password work happens.
type LoginThrottle interface {
	Allowed(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	RecordFailure(ctx context.Context, tenantID uuid.UUID, username string) error
	Reset(ctx context.Context, tenantID uuid.UUID, username string) error
}

// AuthService implements login. An unknown username and a wrong password
// produce the same error so callers cannot enumerate accounts; the log lines
// still distinguish the two.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	throttle LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		log:      log,
	}
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allowed(ctx, in.TenantID, in.Username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", in.Username).Msg("throttle check failed, allowing attempt")
		} else if !allowed {
			s.log.Warn().Str("username", in.Username).Str("tenant_id", in.TenantID.String()).Msg("login throttled")
			return nil, domain.ErrInvalidCredentials
		}
	}

	user, err := s.users.FindByUsername(ctx, in.TenantID, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("username", in.Username).Str("reason", "user_not_found").Msg("login failed")
			s.recordFailure(ctx, in)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.VerifyPassword(in.Password, user.PasswordHash, user.Salt) {
		s.log.Warn().Str("username", in.Username).Str("reason", "bad_password").Msg("login failed")
		s.recordFailure(ctx, in)
		return nil, domain.ErrInvalidCredentials
	}

	roles, err := s.roles.FindByIDs(ctx, in.TenantID, user.RoleIDs())
	if err != nil {
		return nil, fmt.Errorf("login: load roles: %w", err)
	}

	token, err := s.tokens.GenerateToken(user, roles)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, in.TenantID, in.Username); err != nil {
			s.log.Warn().Err(err).Str("username", in.Username).Msg("failed to reset throttle")
		}
	}

	s.log.Info().Str("username", in.Username).Str("user_id", user.ID.String()).Msg("login successful")

	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: s.tokens.TokenExpiration(),
		User:      toUserResult(user, roles),
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, in ports.LoginInput) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, in.TenantID, in.Username); err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("failed to record login failure")
	}
}
