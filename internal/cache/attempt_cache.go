package cache

import (
	"context"
	"fmt"
	"ieltsprep/internal/model"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCache counts integrity events reported while a student is working
// on an assignment
type AttemptCache interface {
	Record(ctx context.Context, assignmentID, studentID string, event model.AttemptEvent) (model.IntegrityMetadata, error)
	Get(ctx context.Context, assignmentID, studentID string) (model.IntegrityMetadata, error)
	Clear(ctx context.Context, assignmentID, studentID string) error
}

type attemptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAttemptCache creates a new attempt cache
func NewAttemptCache(client *redis.Client) AttemptCache {
	return &attemptCache{
		client: client,
		ttl:    48 * time.Hour,
	}
}

func (c *attemptCache) key(assignmentID, studentID string) string {
	return fmt.Sprintf("attempt:%s:s:%s", assignmentID, studentID)
}

func (c *attemptCache) Record(ctx context.Context, assignmentID, studentID string, event model.AttemptEvent) (model.IntegrityMetadata, error) {
	key := c.key(assignmentID, studentID)

	pipe := c.client.TxPipeline()
	pipe.HIncrBy(ctx, key, string(event), 1)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return model.IntegrityMetadata{}, err
	}
	return c.Get(ctx, assignmentID, studentID)
}

func (c *attemptCache) Get(ctx context.Context, assignmentID, studentID string) (model.IntegrityMetadata, error) {
	fields, err := c.client.HGetAll(ctx, c.key(assignmentID, studentID)).Result()
	if err != nil {
		return model.IntegrityMetadata{}, err
	}
	return integrityFromHash(fields), nil
}

func (c *attemptCache) Clear(ctx context.Context, assignmentID, studentID string) error {
	return c.client.Del(ctx, c.key(assignmentID, studentID)).Err()
}

func integrityFromHash(fields map[string]string) model.IntegrityMetadata {
	tabs, _ := strconv.Atoi(fields[string(model.AttemptEventTabSwitch)])
	pastes, _ := strconv.Atoi(fields[string(model.AttemptEventPaste)])
	return model.IntegrityMetadata{TabSwitches: tabs, PasteAttempts: pastes}
}
