package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const adminStatsKey = "admin:stats"

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheAdminStats stores the admin dashboard statistics with a short TTL
func CacheAdminStats(ctx context.Context, stats map[string]interface{}) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, adminStatsKey, data, 5*time.Minute).Err()
}

// GetCachedAdminStats retrieves cached admin statistics, if present
func GetCachedAdminStats(ctx context.Context) (map[string]interface{}, error) {
	data, err := RedisClient.Get(ctx, adminStatsKey).Result()
	if err != nil {
		return nil, err
	}

	var stats map[string]interface{}
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

// InvalidateAdminStats drops the cached statistics after a booking mutation
func InvalidateAdminStats(ctx context.Context) error {
	return RedisClient.Del(ctx, adminStatsKey).Err()
}

// CacheGymList stores a rendered gym listing for a search key
func CacheGymList(ctx context.Context, cacheKey string, gyms interface{}) error {
	data, err := json.Marshal(gyms)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("gyms:list:%s", cacheKey)
	return RedisClient.Set(ctx, key, data, 2*time.Minute).Err()
}

// GetCachedGymList retrieves a cached gym listing for a search key
func GetCachedGymList(ctx context.Context, cacheKey string) ([]map[string]interface{}, error) {
	key := fmt.Sprintf("gyms:list:%s", cacheKey)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var gyms []map[string]interface{}
	if err := json.Unmarshal([]byte(data), &gyms); err != nil {
		return nil, err
	}

	return gyms, nil
}
