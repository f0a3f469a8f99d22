package ports

import (
	"context"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

// EventPublisher delivers integration events to the message transport.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.UserCreated) error
}
