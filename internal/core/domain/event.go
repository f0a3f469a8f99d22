package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserCreatedRoutingKey is the routing key used when publishing UserCreated.
const UserCreatedRoutingKey = "user.created"

// UserCreated is emitted after a successful registration. Delivery is
// best-effort; registration never fails because of it.
type UserCreated struct {
	UserID     uuid.UUID `json:"user_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
