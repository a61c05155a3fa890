package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"promptgen-backend/config"
)

// ConnectRedis opens the session Redis and checks it answers.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisFullAddr(),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisFullAddr(), err)
	}
	return client, nil
}
