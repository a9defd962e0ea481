package lock

import (
	"context"
	"fmt"
	"time"

	"ranking/pkg/ranking"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// releaseScript deletes the key only if it still holds our token, so a run
// that outlived its TTL cannot drop a lock taken by the next run.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis guards runs across every replica sharing the Redis server. The key
// expires after ttl so a crashed holder cannot block runs forever.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: key, ttl: ttl}
}

// Dial connects to addr and checks the server answers.
func Dial(ctx context.Context, addr, key string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedis(client, key, ttl), nil
}

func (r *Redis) TryLock(ctx context.Context, owner string) (func(), error) {
	ok, err := r.client.SetNX(ctx, r.key, owner, r.ttl).Result()
	if err != nil {
		return nil, ranking.Classify(ranking.SourceUnavailable, err, "acquiring run lock %s", r.key)
	}
	if !ok {
		holder, err := r.client.Get(ctx, r.key).Result()
		if err != nil {
			holder = "unknown"
		}
		return nil, ranking.Conflict("run " + holder)
	}

	return func() {
		// the run context may already be done, release on a fresh one
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{r.key}, owner).Err(); err != nil {
			log.Warnf("Failed to release run lock %s: %v", r.key, err)
		}
	}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
