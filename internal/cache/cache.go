package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/retry"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	log := logger.Default().WithPrefix("cache")
	log.Info("connecting to redis: %s", opts.Addr)

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("redis ping failed: %v", err)
		return nil, err
	}
	log.Info("redis ready")
	return client, nil
}

// do wraps a cache round trip in the shared retry policy. Redis misses
// (redis.Nil) are not retried and pass through unchanged; anything else
// that survives the retries comes back as TRANSIENT_IO.
func do(ctx context.Context, op string, fn func() error) error {
	p := retry.DefaultPolicy()
	p.Retryable = func(err error) bool {
		return err != redis.Nil
	}
	err := retry.Do(ctx, p, fn)
	if err != nil && err != redis.Nil {
		return apperrors.NewTransientIOError(op, err)
	}
	return err
}
