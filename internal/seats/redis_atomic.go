package seats

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// A claim that is never released (crash between claim and mint commit, or
// a failed release) must not block the seat forever. After expiry the
// database unique constraint still closes the race.
const seatClaimTTL = 2 * time.Minute

// AtomicSeatGate is the Redis fast path in front of the database seat
// constraint. It rejects most losers of a seat race before they open a
// transaction; the unique index on seat_claims remains the authority, so a
// flushed Redis never corrupts the taken-seat set.
type AtomicSeatGate struct {
	redis *redis.Client
}

// NewAtomicSeatGate creates a gate over the given client; a nil client
// yields a pass-through gate.
func NewAtomicSeatGate(redisClient *redis.Client) *AtomicSeatGate {
	return &AtomicSeatGate{redis: redisClient}
}

// Atomic check-and-set in one round trip. KEYS[1] seat key, ARGV[1] claim
// token, ARGV[2] TTL in seconds.
var seatClaimScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
    return 0
end
redis.call("SET", KEYS[1], ARGV[1], "EX", ARGV[2])
return 1
`)

// Only the holder may release. KEYS[1] seat key, ARGV[1] claim token.
var seatReleaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    redis.call("DEL", KEYS[1])
    return 1
end
return 0
`)

func seatKey(eventID uint64, seat string) string {
	return fmt.Sprintf("seat_claim:%d:%s", eventID, seat)
}

// Claim atomically marks the seat as claimed for the buyer. It returns
// false if another claim already holds the seat. A gate without Redis
// always returns true and leaves the race to the database constraint.
func (g *AtomicSeatGate) Claim(ctx context.Context, eventID uint64, seat, token string) (bool, error) {
	if g == nil || g.redis == nil {
		return true, nil
	}

	ttlSeconds := int64(seatClaimTTL / time.Second)
	result, err := seatClaimScript.Run(ctx, g.redis, []string{seatKey(eventID, seat)}, token, ttlSeconds).Result()
	if err != nil {
		return false, fmt.Errorf("failed to execute seat claim script: %w", err)
	}

	granted, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result from seat claim script: %v", result)
	}
	return granted == 1, nil
}

// Release removes the buyer's claim after a failed mint so the seat can be
// retried. Claims held by a different token are left alone.
func (g *AtomicSeatGate) Release(ctx context.Context, eventID uint64, seat, token string) error {
	if g == nil || g.redis == nil {
		return nil
	}

	if _, err := seatReleaseScript.Run(ctx, g.redis, []string{seatKey(eventID, seat)}, token).Result(); err != nil {
		return fmt.Errorf("failed to execute seat release script: %w", err)
	}
	return nil
}

// PreloadScripts loads the Lua scripts into Redis so the first claim of a
// busy sale does not pay the script upload.
func (g *AtomicSeatGate) PreloadScripts(ctx context.Context) error {
	if g == nil || g.redis == nil {
		return nil
	}

	if err := seatClaimScript.Load(ctx, g.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat claim script: %w", err)
	}
	if err := seatReleaseScript.Load(ctx, g.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}
	return nil
}
