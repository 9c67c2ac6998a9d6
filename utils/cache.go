// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"barberbook/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// SessionCacheClient holds booking wizard snapshots.
	SessionCacheClient *redis.Client
)

// NewRedisClient connects to the configured Redis on db and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// InitSessionCache initializes the Redis client for booking sessions.
func InitSessionCache() {
	client, err := NewRedisClient(config.AppConfig.RedisSessionDB)
	if err != nil {
		GetLogger().Fatal("Failed to connect to Redis (Session Cache)", zap.Error(err))
	}
	SessionCacheClient = client
}

// GetSessionCacheClient returns the Redis client for booking sessions.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}
