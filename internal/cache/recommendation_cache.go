package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mgriffin/studypath/internal/models"
)

// RecommendationCache stores computed recommendation sets with a TTL.
// Stale reads inside the TTL window are tolerated; tracking a session
// deletes the entry explicitly.
type RecommendationCache interface {
	Get(ctx context.Context, studentID, subjectID int64) (*models.RecommendationSet, error)
	Set(ctx context.Context, studentID, subjectID int64, set *models.RecommendationSet) error
	Delete(ctx context.Context, studentID int64) error
}

type recommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache creates a Redis-backed RecommendationCache.
func NewRecommendationCache(client *redis.Client, ttl time.Duration) RecommendationCache {
	return &recommendationCache{client: client, ttl: ttl}
}

func (c *recommendationCache) key(studentID, subjectID int64) string {
	return fmt.Sprintf("recs:%d:%d", studentID, subjectID)
}

func (c *recommendationCache) Get(ctx context.Context, studentID, subjectID int64) (*models.RecommendationSet, error) {
	var data string
	err := do(ctx, "recommendation cache get", func() error {
		var err error
		data, err = c.client.Get(ctx, c.key(studentID, subjectID)).Result()
		return err
	})
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var set models.RecommendationSet
	if err := json.Unmarshal([]byte(data), &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *recommendationCache) Set(ctx context.Context, studentID, subjectID int64, set *models.RecommendationSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return do(ctx, "recommendation cache set", func() error {
		return c.client.Set(ctx, c.key(studentID, subjectID), data, c.ttl).Err()
	})
}

func (c *recommendationCache) Delete(ctx context.Context, studentID int64) error {
	// Drop every subject-scoped entry for the student. SCAN keeps the
	// server responsive where KEYS would block it.
	return do(ctx, "recommendation cache delete", func() error {
		iter := c.client.Scan(ctx, 0, fmt.Sprintf("recs:%d:*", studentID), 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return c.client.Del(ctx, keys...).Err()
	})
}
