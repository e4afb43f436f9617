package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/gravitas-games/aftermath/internal/config"
)

// RedisSink appends entries to a Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
}

// OpenRedis connects to Redis and checks the connection.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisSink(client, cfg.Stream), nil
}

// NewRedisSink wraps an existing client.
func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream}
}

func (s *RedisSink) Write(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"id":     e.ID.String(),
			"turn":   e.Turn,
			"player": e.Player,
			"event":  e.Event,
			"entry":  string(payload),
		},
	}).Err()
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
