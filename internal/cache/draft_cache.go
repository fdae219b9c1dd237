package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"ieltsprep/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftCache holds authoring drafts between edits. A draft lives until it is
// saved, discarded, or left untouched past the TTL.
type DraftCache interface {
	Save(ctx context.Context, draft *model.Draft) error
	Get(ctx context.Context, id string) (*model.Draft, error)
	Delete(ctx context.Context, draft *model.Draft) error
	// ListIDs returns a teacher's draft ids, most recently edited first
	ListIDs(ctx context.Context, teacherID string, limit int) ([]string, error)
}

type draftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// DraftTTL is how long an untouched draft survives
const DraftTTL = 24 * time.Hour

// NewDraftCache creates a new draft cache
func NewDraftCache(client *redis.Client) DraftCache {
	return &draftCache{
		client: client,
		ttl:    DraftTTL,
	}
}

func (c *draftCache) key(id string) string {
	return fmt.Sprintf("draft:%s", id)
}

func (c *draftCache) teacherKey(teacherID string) string {
	return fmt.Sprintf("teacher:%s:drafts", teacherID)
}

func (c *draftCache) Save(ctx context.Context, draft *model.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.key(draft.ID), data, c.ttl)
	pipe.ZAdd(ctx, c.teacherKey(draft.TeacherID), redis.Z{
		Score:  float64(draft.UpdatedAt.UnixMilli()),
		Member: draft.ID,
	})
	pipe.Expire(ctx, c.teacherKey(draft.TeacherID), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *draftCache) Get(ctx context.Context, id string) (*model.Draft, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var draft model.Draft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *draftCache) Delete(ctx context.Context, draft *model.Draft) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.key(draft.ID))
	pipe.ZRem(ctx, c.teacherKey(draft.TeacherID), draft.ID)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *draftCache) ListIDs(ctx context.Context, teacherID string, limit int) ([]string, error) {
	// drop index entries whose drafts already expired
	cutoff := time.Now().Add(-c.ttl).UnixMilli()
	if err := c.client.ZRemRangeByScore(ctx, c.teacherKey(teacherID), "-inf", fmt.Sprintf("(%d", cutoff)).Err(); err != nil {
		return nil, err
	}
	return c.client.ZRevRange(ctx, c.teacherKey(teacherID), 0, int64(limit-1)).Result()
}
