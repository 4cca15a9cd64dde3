package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

// message is the payload published to the Redis channel.
type message struct {
	Name    string       `json:"name"`
	Payload entity.Event `json:"payload"`
}

// RedisPublisher forwards events to a Redis Pub/Sub channel.
type RedisPublisher struct {
	client  redis.Cmdable
	channel string
}

func NewRedisPublisher(client redis.Cmdable, channel string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

// Handle publishes the event. It can be subscribed to a Bus directly.
func (p *RedisPublisher) Handle(ctx context.Context, event entity.Event) error {
	const op = "adapter.events.RedisPublisher.Handle"

	data, err := json.Marshal(message{
		Name:    event.EventName(),
		Payload: event,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to encode event: %w", op, err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("%s: failed to publish event: %w", op, err)
	}

	return nil
}
