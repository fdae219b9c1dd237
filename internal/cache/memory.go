package cache

import (
	"context"
	"encoding/json"
	"ieltsprep/internal/model"
	"math"
	"sort"
	"sync"
	"time"
)

// In-process caches used by tests and the "memory" store mode. Values are
// stored as JSON so callers never share memory with the cache, as with redis.

type memoryDraftCache struct {
	mu     sync.Mutex
	drafts map[string]memoryEntry
	ttl    time.Duration
}

type memoryEntry struct {
	data      []byte
	teacherID string
	updatedAt time.Time
	expires   time.Time
}

// NewMemoryDraftCache creates a process-local DraftCache
func NewMemoryDraftCache() DraftCache {
	return &memoryDraftCache{drafts: make(map[string]memoryEntry), ttl: DraftTTL}
}

func (c *memoryDraftCache) Save(ctx context.Context, draft *model.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[draft.ID] = memoryEntry{
		data:      data,
		teacherID: draft.TeacherID,
		updatedAt: draft.UpdatedAt,
		expires:   time.Now().Add(c.ttl),
	}
	return nil
}

func (c *memoryDraftCache) Get(ctx context.Context, id string) (*model.Draft, error) {
	c.mu.Lock()
	e, ok := c.drafts[id]
	if ok && time.Now().After(e.expires) {
		delete(c.drafts, id)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var draft model.Draft
	if err := json.Unmarshal(e.data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *memoryDraftCache) Delete(ctx context.Context, draft *model.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, draft.ID)
	return nil
}

func (c *memoryDraftCache) ListIDs(ctx context.Context, teacherID string, limit int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	type item struct {
		id string
		at time.Time
	}
	now := time.Now()
	var items []item
	for id, e := range c.drafts {
		if e.teacherID == teacherID && now.Before(e.expires) {
			items = append(items, item{id, e.updatedAt})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].at.After(items[j].at) })

	ids := []string{}
	for i := 0; i < len(items) && i < limit; i++ {
		ids = append(ids, items[i].id)
	}
	return ids, nil
}

type memoryAttemptCache struct {
	mu       sync.Mutex
	counters map[string]map[string]int
}

// NewMemoryAttemptCache creates a process-local AttemptCache
func NewMemoryAttemptCache() AttemptCache {
	return &memoryAttemptCache{counters: make(map[string]map[string]int)}
}

func (c *memoryAttemptCache) key(assignmentID, studentID string) string {
	return assignmentID + "/" + studentID
}

func (c *memoryAttemptCache) Record(ctx context.Context, assignmentID, studentID string, event model.AttemptEvent) (model.IntegrityMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(assignmentID, studentID)
	if c.counters[k] == nil {
		c.counters[k] = make(map[string]int)
	}
	c.counters[k][string(event)]++
	return c.snapshot(k), nil
}

func (c *memoryAttemptCache) Get(ctx context.Context, assignmentID, studentID string) (model.IntegrityMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(c.key(assignmentID, studentID)), nil
}

func (c *memoryAttemptCache) snapshot(k string) model.IntegrityMetadata {
	counts := c.counters[k]
	return model.IntegrityMetadata{
		TabSwitches:   counts[string(model.AttemptEventTabSwitch)],
		PasteAttempts: counts[string(model.AttemptEventPaste)],
	}
}

func (c *memoryAttemptCache) Clear(ctx context.Context, assignmentID, studentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counters, c.key(assignmentID, studentID))
	return nil
}

type memoryAnalyticsCache struct {
	mu      sync.Mutex
	results map[string][]byte
}

// NewMemoryAnalyticsCache creates a process-local AnalyticsCache
func NewMemoryAnalyticsCache() AnalyticsCache {
	return &memoryAnalyticsCache{results: make(map[string][]byte)}
}

func (c *memoryAnalyticsCache) Get(ctx context.Context, assignmentID string) (*model.AssignmentAnalytics, error) {
	c.mu.Lock()
	data, ok := c.results[assignmentID]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var analytics model.AssignmentAnalytics
	if err := json.Unmarshal(data, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *memoryAnalyticsCache) Set(ctx context.Context, analytics *model.AssignmentAnalytics) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[analytics.AssignmentID] = data
	return nil
}

func (c *memoryAnalyticsCache) Invalidate(ctx context.Context, assignmentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, assignmentID)
	return nil
}

type memoryRankingCache struct {
	mu     sync.Mutex
	scores map[string]map[string]float64
}

// NewMemoryRankingCache creates a process-local RankingCache
func NewMemoryRankingCache() RankingCache {
	return &memoryRankingCache{scores: make(map[string]map[string]float64)}
}

func (c *memoryRankingCache) SetScore(ctx context.Context, assignmentID, studentID string, percent float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scores[assignmentID] == nil {
		c.scores[assignmentID] = make(map[string]float64)
	}
	c.scores[assignmentID][studentID] = percent
	return nil
}

// ranked orders like ZREVRANGE: score descending, then member descending
func (c *memoryRankingCache) ranked(assignmentID string) []model.RankEntry {
	scores := c.scores[assignmentID]
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] > ids[j]
	})
	out := make([]model.RankEntry, len(ids))
	for i, id := range ids {
		out[i] = model.RankEntry{StudentID: id, Score: int(math.Round(scores[id])), Rank: i + 1}
	}
	return out
}

func (c *memoryRankingCache) Top(ctx context.Context, assignmentID string, limit int) ([]model.RankEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ranked := c.ranked(assignmentID)
	if limit < len(ranked) {
		ranked = ranked[:max(limit, 0)]
	}
	return ranked, nil
}

func (c *memoryRankingCache) Rank(ctx context.Context, assignmentID, studentID string) (model.RankEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.ranked(assignmentID) {
		if e.StudentID == studentID {
			return e, nil
		}
	}
	return model.RankEntry{StudentID: studentID}, nil
}

func (c *memoryRankingCache) Delete(ctx context.Context, assignmentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scores, assignmentID)
	return nil
}
