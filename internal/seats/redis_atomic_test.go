package seats

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T) (*AtomicSeatGate, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewAtomicSeatGate(client), mr
}

func TestClaimGrantsOnceAndReleases(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	granted, err := gate.Claim(ctx, 1, "A1", "buyer-1")
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = gate.Claim(ctx, 1, "A1", "buyer-2")
	require.NoError(t, err)
	assert.False(t, granted)

	// A different seat and a different event are independent
	granted, err = gate.Claim(ctx, 1, "A2", "buyer-2")
	require.NoError(t, err)
	assert.True(t, granted)
	granted, err = gate.Claim(ctx, 2, "A1", "buyer-2")
	require.NoError(t, err)
	assert.True(t, granted)

	// Only the holder's token releases
	require.NoError(t, gate.Release(ctx, 1, "A1", "buyer-2"))
	granted, err = gate.Claim(ctx, 1, "A1", "buyer-2")
	require.NoError(t, err)
	assert.False(t, granted)

	require.NoError(t, gate.Release(ctx, 1, "A1", "buyer-1"))
	granted, err = gate.Claim(ctx, 1, "A1", "buyer-2")
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestClaimExpires(t *testing.T) {
	gate, mr := newTestGate(t)
	ctx := context.Background()

	granted, err := gate.Claim(ctx, 7, "B3", "buyer-1")
	require.NoError(t, err)
	require.True(t, granted)

	// The claim carries a TTL so a crash between claim and mint commit
	// cannot block the seat forever
	ttl := mr.TTL(seatKey(7, "B3"))
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, seatClaimTTL)

	mr.FastForward(seatClaimTTL + time.Second)

	granted, err = gate.Claim(ctx, 7, "B3", "buyer-2")
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestGateWithoutRedisPassesThrough(t *testing.T) {
	gate := NewAtomicSeatGate(nil)
	ctx := context.Background()

	granted, err := gate.Claim(ctx, 1, "A1", "buyer-1")
	require.NoError(t, err)
	assert.True(t, granted)

	assert.NoError(t, gate.Release(ctx, 1, "A1", "buyer-1"))
}
