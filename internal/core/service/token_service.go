package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// ErrMissingSecret is returned when the service is built without a signing
// secret. The service fails closed: there is no fallback key.
var ErrMissingSecret = errors.New("token service: signing secret is not configured")

// TokenService mints HS256-signed JWTs carrying the user's identity, tenant,
// and role claims.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenService(secret, issuer, audience string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// GenerateToken builds and signs a token for the user. Claims: sub (user id),
// name, email, tenant_id, roles (one name per assigned role), jti, iat, iss,
// aud, and exp at now plus the configured lifetime.
func (s *TokenService) GenerateToken(user *domain.User, roles []domain.Role) (string, error) {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}

	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"name":      user.Username,
		"email":     user.Email,
		"tenant_id": user.TenantID.String(),
		"roles":     names,
		"jti":       uuid.NewString(),
		"iss":       s.issuer,
		"aud":       s.audience,
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// TokenExpiration returns the expiry instant a token minted now would carry.
func (s *TokenService) TokenExpiration() time.Time {
	return s.now().UTC().Add(s.ttl)
}
