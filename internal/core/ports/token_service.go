package ports

import (
	"time"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

// TokenService mints signed bearer tokens. Tokens are stateless: validity is
// solely a function of signature and expiration.
type TokenService interface {
	GenerateToken(user *domain.User, roles []domain.Role) (string, error)
	// TokenExpiration returns the expiry instant a token minted now would get.
	TokenExpiration() time.Time
}
