// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"barangaylink/config"

	"github.com/go-redis/redis/v8"
)

// GateCacheClient is the dedicated client for access-gate decision caching.
var GateCacheClient *redis.Client

// GateCachePrefix namespaces gate decision keys.
const GateCachePrefix = "gate:"

// InitGateCache initializes the Redis client for gate decision caching.
func InitGateCache() {
	GateCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisGateDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := GateCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Gate Cache): %v", err)
	}
}

// GetGateCacheClient returns the Redis client for gate decision caching.
func GetGateCacheClient() *redis.Client {
	if GateCacheClient == nil {
		InitGateCache()
	}
	return GateCacheClient
}
