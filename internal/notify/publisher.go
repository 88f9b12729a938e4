package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher pushes a persisted notification to the addressed employee's
// real-time channel. Implementations must never be required for the write
// path to succeed.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// ChannelFor returns the per-employee pub/sub channel name.
func ChannelFor(empID int64) string {
	return fmt.Sprintf("notify:emp:%d", empID)
}

// RedisPublisher publishes notifications over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher constructs a RedisPublisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish sends the notification as JSON to the recipient's channel.
func (p *RedisPublisher) Publish(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: marshal notification: %w", err)
	}
	return p.client.Publish(ctx, ChannelFor(n.RecipientEmpID), payload).Err()
}

// NoopPublisher discards every push. Used when no real-time channel is
// attached.
type NoopPublisher struct{}

// Publish drops the notification.
func (NoopPublisher) Publish(context.Context, Notification) error { return nil }
