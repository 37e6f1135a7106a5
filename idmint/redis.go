package idmint

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "casetracker:seq:"

var raiseScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
local floor = tonumber(ARGV[1])
if current < floor then
	redis.call("SET", KEYS[1], ARGV[1])
end
return 0
`)

// RedisSequence keeps counters in redis using INCR
type RedisSequence struct {
	client *redis.Client
}

// NewRedisClient connects to the redis server at addr
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

// NewRedisSequence wraps client
func NewRedisSequence(client *redis.Client) *RedisSequence {
	return &RedisSequence{client: client}
}

// Next implements Sequence
func (r *RedisSequence) Next(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, redisKeyPrefix+key).Result()
}

// Raise implements Sequence
func (r *RedisSequence) Raise(ctx context.Context, key string, floor int64) error {
	return raiseScript.Run(ctx, r.client, []string{redisKeyPrefix + key}, floor).Err()
}
