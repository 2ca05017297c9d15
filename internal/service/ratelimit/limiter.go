// Package ratelimit enforces the daily cap on outgoing outreach sends.
//
// The send-time gate is an atomic Redis increment-and-check: the counter is
// only incremented when the reservation succeeds, so two concurrent send
// attempts can never both pass on the same pre-increment count. Counters are
// bucketed by UTC calendar day.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lua script for the atomic reserve. Checks the limit BEFORE incrementing
// and only increments when capacity remains.
const reserveLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")
if current >= limit then
    return {0, current}
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end
return {1, newVal}
`

// Counter keys outlive the day they count by a comfortable margin so a
// late read near midnight still resolves.
const counterTTLSeconds = 48 * 60 * 60

// Limiter reserves slots against a fixed daily send limit.
type Limiter struct {
	redis *redis.Client
	limit int

	reserveScript *redis.Script
	now           func() time.Time
}

// New creates a limiter with the given daily limit. A non-positive limit
// falls back to the default of 20.
func New(client *redis.Client, dailyLimit int) *Limiter {
	if dailyLimit <= 0 {
		dailyLimit = 20
	}
	return &Limiter{
		redis:         client,
		limit:         dailyLimit,
		reserveScript: redis.NewScript(reserveLuaScript),
		now:           time.Now,
	}
}

// NewFromURL creates a limiter by connecting to Redis.
func NewFromURL(redisURL string, dailyLimit int) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return New(client, dailyLimit), nil
}

// Limit returns the configured daily limit.
func (l *Limiter) Limit() int { return l.limit }

func (l *Limiter) dayKey() string {
	return fmt.Sprintf("outreach:sendcount:%s", l.now().UTC().Format("2006-01-02"))
}

// Reserve atomically claims one send slot for today. It returns false when
// the daily limit is already consumed; the counter is untouched in that
// case.
func (l *Limiter) Reserve(ctx context.Context) (bool, error) {
	result, err := l.reserveScript.Run(ctx, l.redis,
		[]string{l.dayKey()}, l.limit, counterTTLSeconds).Slice()
	if err != nil {
		return false, fmt.Errorf("rate limit reserve: %w", err)
	}
	return result[0].(int64) == 1, nil
}

// UsedToday returns the number of slots consumed so far today.
func (l *Limiter) UsedToday(ctx context.Context) (int, error) {
	n, err := l.redis.Get(ctx, l.dayKey()).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rate limit read: %w", err)
	}
	return n, nil
}

// Remaining returns how much capacity is left today, never negative.
func (l *Limiter) Remaining(ctx context.Context) (int, error) {
	used, err := l.UsedToday(ctx)
	if err != nil {
		return 0, err
	}
	if used >= l.limit {
		return 0, nil
	}
	return l.limit - used, nil
}

// Close closes the Redis connection.
func (l *Limiter) Close() error {
	return l.redis.Close()
}
