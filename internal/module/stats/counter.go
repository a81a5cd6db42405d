package stats

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/hierfortune/server/internal/module/fortune"
)

// countsKey is the Redis hash holding one field per fortune kind.
const countsKey = "fortune:counts"

// RedisCounter tallies successful generations per kind in a Redis hash.
// It implements fortune.UsageCounter.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates a Redis-backed usage counter.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Increment adds one to the kind's field. HINCRBY is atomic, so concurrent
// generations never lose counts to each other.
func (c *RedisCounter) Increment(ctx context.Context, kind fortune.Kind) error {
	return c.client.HIncrBy(ctx, countsKey, string(kind), 1).Err()
}

// Snapshot returns the current count for every kind. Kinds that have never
// incremented are reported as zero.
func (c *RedisCounter) Snapshot(ctx context.Context) (map[fortune.Kind]int64, error) {
	fields, err := c.client.HGetAll(ctx, countsKey).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[fortune.Kind]int64, len(fortune.Kinds()))
	for _, k := range fortune.Kinds() {
		out[k] = 0
	}
	for field, raw := range fields {
		n, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			continue
		}
		out[fortune.Kind(field)] = n
	}
	return out, nil
}
