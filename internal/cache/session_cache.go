package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mgriffin/studypath/internal/models"
)

// SessionCache keeps in-flight session context hot so the tutoring
// layer can avoid a database read per exchange.
type SessionCache interface {
	Set(ctx context.Context, session *models.LearningSession) error
	Get(ctx context.Context, id string) (*models.LearningSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis-backed SessionCache.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{client: client, ttl: ttl}
}

func (c *sessionCache) Set(ctx context.Context, session *models.LearningSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return do(ctx, "session cache set", func() error {
		return c.client.Set(ctx, "session:"+session.ID, data, c.ttl).Err()
	})
}

func (c *sessionCache) Get(ctx context.Context, id string) (*models.LearningSession, error) {
	var data string
	err := do(ctx, "session cache get", func() error {
		var err error
		data, err = c.client.Get(ctx, "session:"+id).Result()
		return err
	})
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.LearningSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return do(ctx, "session cache delete", func() error {
		return c.client.Del(ctx, "session:"+id).Err()
	})
}
