package cache

import (
	"context"
	"fmt"
	"ieltsprep/internal/model"
	"math"

	"github.com/redis/go-redis/v9"
)

// RankingCache keeps each assignment's graded scores in a sorted set
type RankingCache interface {
	SetScore(ctx context.Context, assignmentID, studentID string, percent float64) error
	Top(ctx context.Context, assignmentID string, limit int) ([]model.RankEntry, error)
	Rank(ctx context.Context, assignmentID, studentID string) (model.RankEntry, error)
	Delete(ctx context.Context, assignmentID string) error
}

type rankingCache struct {
	client *redis.Client
}

// NewRankingCache creates a new ranking cache
func NewRankingCache(client *redis.Client) RankingCache {
	return &rankingCache{
		client: client,
	}
}

func (c *rankingCache) key(assignmentID string) string {
	return fmt.Sprintf("assignment:%s:ranking", assignmentID)
}

func (c *rankingCache) SetScore(ctx context.Context, assignmentID, studentID string, percent float64) error {
	return c.client.ZAdd(ctx, c.key(assignmentID), redis.Z{
		Score:  percent,
		Member: studentID,
	}).Err()
}

func (c *rankingCache) Top(ctx context.Context, assignmentID string, limit int) ([]model.RankEntry, error) {
	if limit <= 0 {
		return []model.RankEntry{}, nil
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(assignmentID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.RankEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = model.RankEntry{
			StudentID: member,
			Score:     int(math.Round(z.Score)),
			Rank:      i + 1,
		}
	}
	return entries, nil
}

func (c *rankingCache) Rank(ctx context.Context, assignmentID, studentID string) (model.RankEntry, error) {
	entry := model.RankEntry{StudentID: studentID}
	rank, err := c.client.ZRevRank(ctx, c.key(assignmentID), studentID).Result()
	if err == redis.Nil {
		return entry, nil
	}
	if err != nil {
		return entry, err
	}
	score, err := c.client.ZScore(ctx, c.key(assignmentID), studentID).Result()
	if err != nil && err != redis.Nil {
		return entry, err
	}
	entry.Rank = int(rank) + 1 // 1-indexed
	entry.Score = int(math.Round(score))
	return entry, nil
}

func (c *rankingCache) Delete(ctx context.Context, assignmentID string) error {
	return c.client.Del(ctx, c.key(assignmentID)).Err()
}
