package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"ieltsprep/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// AnalyticsCache holds computed assignment analytics until the next
// submission or grade changes them
type AnalyticsCache interface {
	Get(ctx context.Context, assignmentID string) (*model.AssignmentAnalytics, error)
	Set(ctx context.Context, analytics *model.AssignmentAnalytics) error
	Invalidate(ctx context.Context, assignmentID string) error
}

type analyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalyticsCache creates a new analytics cache
func NewAnalyticsCache(client *redis.Client) AnalyticsCache {
	return &analyticsCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *analyticsCache) key(assignmentID string) string {
	return fmt.Sprintf("assignment:%s:analytics", assignmentID)
}

func (c *analyticsCache) Get(ctx context.Context, assignmentID string) (*model.AssignmentAnalytics, error) {
	data, err := c.client.Get(ctx, c.key(assignmentID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var analytics model.AssignmentAnalytics
	if err := json.Unmarshal([]byte(data), &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *analyticsCache) Set(ctx context.Context, analytics *model.AssignmentAnalytics) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(analytics.AssignmentID), data, c.ttl).Err()
}

func (c *analyticsCache) Invalidate(ctx context.Context, assignmentID string) error {
	return c.client.Del(ctx, c.key(assignmentID)).Err()
}
