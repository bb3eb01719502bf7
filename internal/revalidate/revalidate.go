package revalidate

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/kanban-board-api/internal/metrics"
	"go.uber.org/zap"
)

const (
	// Channel receives every revalidated path.
	Channel = "kanban:revalidate"
	// versionKeyPrefix prefixes the per-path version counter.
	versionKeyPrefix = "kanban:view:"
)

// Revalidator signals that cached views under the given paths are stale.
// Delivery is fire-and-forget: callers never see an error.
type Revalidator interface {
	Revalidate(ctx context.Context, paths ...string)
}

// VersionKey returns the redis key holding a path's view version.
func VersionKey(path string) string {
	return versionKeyPrefix + path
}

// RedisRevalidator bumps a version counter per path and publishes the path.
type RedisRevalidator struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisRevalidator creates a Revalidator backed by redis.
func NewRedisRevalidator(client *redis.Client, logger *zap.Logger) *RedisRevalidator {
	if client == nil {
		panic("revalidate.NewRedisRevalidator: client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRevalidator{client: client, logger: logger}
}

// Revalidate implements Revalidator.
func (r *RedisRevalidator) Revalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range paths {
			pipe.Incr(ctx, VersionKey(p))
			pipe.Publish(ctx, Channel, p)
		}
		return nil
	})
	if err != nil {
		metrics.IncRevalidateFailure()
		r.logger.Warn("revalidation signal failed", zap.Strings("paths", paths), zap.Error(err))
		return
	}

	r.logger.Debug("revalidated", zap.Strings("paths", paths))
}

// Nop only logs the paths. It is used when no redis address is configured.
type Nop struct {
	Logger *zap.Logger
}

// Revalidate implements Revalidator.
func (n Nop) Revalidate(_ context.Context, paths ...string) {
	if n.Logger != nil {
		n.Logger.Debug("revalidate (no-op)", zap.Strings("paths", paths))
	}
}
