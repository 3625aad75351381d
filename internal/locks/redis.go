package locks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes KEYS[1] only while it still holds our token.
// ARGV[1] = owner token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every API instance pointing at the same Redis.
type Redis struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewRedis wraps client. Keys are stored as prefix+key.
func NewRedis(client redis.UniversalClient, prefix string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, prefix: prefix, logger: logger}
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	full := r.prefix + key
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("locks: acquire %s: %w", full, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		// the caller's context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{full}, token).Err(); err != nil {
			r.logger.Warn("failed to release lock", "key", full, "error", err)
		}
	}, nil
}
