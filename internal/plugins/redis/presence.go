package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceKey = "presence:online"

// RedisPresenceMirror keeps a TTL-scored copy of the online set in a
// redis ZSet. The in-memory registry stays authoritative; the mirror is
// refreshed on every broadcast and by the sync worker, and scores age
// out on their own if this process stops publishing.
type RedisPresenceMirror struct {
	rdb *redis.Client
}

func NewRedisPresenceMirror(rdb *redis.Client) *RedisPresenceMirror {
	return &RedisPresenceMirror{rdb: rdb}
}

func (p *RedisPresenceMirror) PublishSnapshot(
	ctx context.Context,
	online []string,
	ttl time.Duration,
) error {
	now := time.Now()
	pipe := p.rdb.TxPipeline()
	// Drop members that stopped being refreshed.
	pipe.ZRemRangeByScore(ctx, presenceKey, "-inf",
		strconv.FormatInt(now.Add(-ttl).Unix(), 10))
	if len(online) > 0 {
		members := make([]redis.Z, 0, len(online))
		for _, id := range online {
			members = append(members, redis.Z{
				Score:  float64(now.Unix()),
				Member: id,
			})
		}
		pipe.ZAdd(ctx, presenceKey, members...)
	}
	// Bound the whole key's lifetime so it cannot leak after shutdown.
	pipe.Expire(ctx, presenceKey, ttl*2)
	_, err := pipe.Exec(ctx)
	return err
}

// Clear drops the mirror key so a graceful shutdown does not leave a
// stale online set behind for the TTL window.
func (p *RedisPresenceMirror) Clear(ctx context.Context) error {
	return p.rdb.Del(ctx, presenceKey).Err()
}
