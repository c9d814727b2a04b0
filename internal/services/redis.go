package services

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a client; it connects lazily
func NewRedisClient(address, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// RedisChecker pings Redis
type RedisChecker struct {
	BaseChecker
	client redis.UniversalClient
}

// NewRedisChecker wraps an existing client
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{
		BaseChecker: BaseChecker{name: "redis"},
		client:      client,
	}
}

// HealthCheck verifies Redis connectivity
func (c *RedisChecker) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
