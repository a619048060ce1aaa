// Package cache provides the Redis connection backing the session store.
// It supports both embedded Redis (miniredis) and an external Redis server.
package cache

import (
	"context"
	"fmt"
	"time"

	"members-area/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	client     *redis.Client
	miniRedis  *miniredis.Miniredis
	ctx        = context.Background()
	isEmbedded = true
)

// InitRedis initializes the Redis client. If redisAddr is empty, an embedded
// instance is started; otherwise a connection to the external server is made.
func InitRedis(redisAddr string) error {
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		miniRedis = mr
		client = redis.NewClient(&redis.Options{
			Addr: mr.Addr(),
		})
		isEmbedded = true
		logger.Info("Embedded Redis started on", mr.Addr())
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})
		isEmbedded = false

		_, err := client.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("failed to connect to Redis at %s: %w", redisAddr, err)
		}
		logger.Info("Connected to external Redis at", redisAddr)
	}

	return nil
}

// GetClient returns the Redis client instance.
func GetClient() *redis.Client {
	return client
}

// IsEmbedded returns true if using embedded Redis.
func IsEmbedded() bool {
	return isEmbedded
}

// FastForward advances the clock of the embedded instance, expiring sessions
// whose TTL has passed. It is a no-op against external Redis, which keeps its
// own time.
func FastForward(d time.Duration) {
	if miniRedis != nil {
		miniRedis.FastForward(d)
	}
}

// Close closes the Redis connection and stops embedded Redis if running.
func Close() error {
	if client != nil {
		if err := client.Close(); err != nil {
			return err
		}
	}
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}
	client = nil
	return nil
}
