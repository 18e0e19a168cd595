package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every API instance pointed at the same Redis.
type Redis struct {
	rdb     *redis.Client
	log     logrus.FieldLogger
	prefix  string
	ttl     time.Duration
	retries int
	backoff time.Duration
}

func NewRedis(rdb *redis.Client, log logrus.FieldLogger) *Redis {
	return &Redis{
		rdb:     rdb,
		log:     log,
		prefix:  "lock:inventory:",
		ttl:     5 * time.Second,
		retries: 50,
		backoff: 100 * time.Millisecond,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := r.prefix + key
	token := uuid.New().String()

	for i := 0; i < r.retries; i++ {
		ok, err := r.rdb.SetNX(ctx, lockKey, token, r.ttl).Result()
		if err != nil {
			r.log.WithError(err).WithField("key", lockKey).Warn("failed to acquire lock")
		}
		if ok {
			return func() {
				// the caller's context may already be cancelled
				relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := releaseScript.Run(relCtx, r.rdb, []string{lockKey}, token).Err(); err != nil {
					r.log.WithError(err).WithField("key", lockKey).Warn("failed to release lock")
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff):
		}
	}
	return nil, ErrBusy
}
