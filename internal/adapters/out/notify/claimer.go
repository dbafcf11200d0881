package notify

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core/domain/model/kernel"

	"github.com/go-redis/redis/v8"
)

const claimKeyPrefix = "outbox:claim:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// NewRedisClient connects to url and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err = rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// RedisClaimer marks messages as taken with SETNX. Claims expire after ttl,
// so a crashed replica never blocks a message for long.
type RedisClaimer struct {
	rdb   *redis.Client
	owner string
	ttl   time.Duration
}

func NewRedisClaimer(rdb *redis.Client, owner string, ttl time.Duration) *RedisClaimer {
	return &RedisClaimer{rdb: rdb, owner: owner, ttl: ttl}
}

func (c *RedisClaimer) Claim(ctx context.Context, id kernel.UUID) (bool, error) {
	return c.rdb.SetNX(ctx, claimKey(id), c.owner, c.ttl).Result()
}

// Release drops the claim only if this replica still holds it.
func (c *RedisClaimer) Release(ctx context.Context, id kernel.UUID) error {
	return releaseScript.Run(ctx, c.rdb, []string{claimKey(id)}, c.owner).Err()
}

func claimKey(id kernel.UUID) string {
	return claimKeyPrefix + id.String()
}
