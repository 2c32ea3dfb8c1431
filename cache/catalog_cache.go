package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"songbox/db"
	"songbox/logger"
	"songbox/model"

	"github.com/redis/go-redis/v9"
)

// catalogKey holds the JSON-encoded song list for GET /music/.
const catalogKey = "catalog:songs"

// GetCatalog returns the cached song list, or (nil, nil) on a cache miss.
func GetCatalog(ctx context.Context) ([]*model.Song, error) {
	if db.RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	data, err := db.RedisClient.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get catalog from cache: %w", err)
	}

	var songs []*model.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}

	return songs, nil
}

// SetCatalog stores the song list with the given TTL.
func SetCatalog(ctx context.Context, songs []*model.Song, ttl time.Duration) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := db.RedisClient.Set(ctx, catalogKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set catalog cache: %w", err)
	}

	return nil
}

// InvalidateCatalog drops the cached song list. Called after every
// mutation; errors are logged by callers, never escalated.
func InvalidateCatalog(ctx context.Context) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	if err := db.RedisClient.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}

	logger.Debug("Catalog cache invalidated")
	return nil
}
