package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// AlertPublisher fans the low-stock summary out to a Redis pub/sub channel.
// Subscribers (dashboards, chat bridges) receive the one-line summary.
type AlertPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewAlertPublisher(rdb *redis.Client, channel string) *AlertPublisher {
	return &AlertPublisher{rdb: rdb, channel: channel}
}

// Publish sends one message to the alert channel.
func (p *AlertPublisher) Publish(ctx context.Context, message string) error {
	return p.rdb.Publish(ctx, p.channel, message).Err()
}
