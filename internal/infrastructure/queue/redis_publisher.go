package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

const defaultStream = "identity.events"

// RedisPublisher writes integration events to a Redis stream. Consumers read
// the stream with XREAD/consumer groups; the entry carries the routing key
// and the JSON payload.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisPublisher creates a RedisPublisher. An empty stream name falls back
// to the default.
func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = defaultStream
	}
	return &RedisPublisher{client: client, stream: stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, event domain.UserCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"routing_key": domain.UserCreatedRoutingKey,
			"payload":     payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
