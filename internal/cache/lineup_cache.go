package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/types"
)

// LineupCacheService is a redis lookaside cache for solved lineups.
type LineupCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewLineupCacheService creates a new lineup cache service.
func NewLineupCacheService(client *redis.Client, logger *logrus.Logger) *LineupCacheService {
	return &LineupCacheService{
		client: client,
		logger: logger,
	}
}

// SetLineup stores a solved lineup under the request digest.
func (c *LineupCacheService) SetLineup(ctx context.Context, key string, solution *types.LineupSolution, expiration time.Duration) error {
	data, err := json.Marshal(solution)
	if err != nil {
		return fmt.Errorf("failed to marshal lineup: %w", err)
	}

	fullKey := fmt.Sprintf("lineup:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set lineup in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
	}).Debug("Cached lineup solution")

	return nil
}

// GetLineup retrieves a solved lineup; (nil, nil) on a cache miss.
func (c *LineupCacheService) GetLineup(ctx context.Context, key string) (*types.LineupSolution, error) {
	fullKey := fmt.Sprintf("lineup:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lineup from cache: %w", err)
	}

	var solution types.LineupSolution
	if err := json.Unmarshal([]byte(data), &solution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached lineup: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("Retrieved lineup from cache")
	return &solution, nil
}
