package noncecache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb)
}

func testAddr(b byte) evmtype.Address {
	var a evmtype.Address
	a[19] = b
	return a
}

func TestNextSeedsFromFloorOnFirstCall(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	addr := testAddr(0x01)

	n, err := c.Next(ctx, addr, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)
}

func TestNextIncrementsOnSubsequentCalls(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	addr := testAddr(0x02)

	first, err := c.Next(ctx, addr, 0)
	require.NoError(t, err)
	second, err := c.Next(ctx, addr, 0)
	require.NoError(t, err)
	third, err := c.Next(ctx, addr, 0)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), first)
	assert.Equal(t, uint64(1), second)
	assert.Equal(t, uint64(2), third)
}

func TestNextIsIndependentPerAddress(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	a, err := c.Next(ctx, testAddr(0x03), 5)
	require.NoError(t, err)
	b, err := c.Next(ctx, testAddr(0x04), 10)
	require.NoError(t, err)

	assert.Equal(t, uint64(5), a)
	assert.Equal(t, uint64(10), b)
}

func TestPeekReturnsFloorWhenUnreserved(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	addr := testAddr(0x05)

	n, err := c.Peek(ctx, addr, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestPeekDoesNotConsumeNonce(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	addr := testAddr(0x06)

	_, err := c.Next(ctx, addr, 0)
	require.NoError(t, err)

	peeked, err := c.Peek(ctx, addr, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), peeked)

	peekedAgain, err := c.Peek(ctx, addr, 0)
	require.NoError(t, err)
	assert.Equal(t, peeked, peekedAgain)
}

func TestResetOverridesCounter(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	addr := testAddr(0x07)

	_, err := c.Next(ctx, addr, 0)
	require.NoError(t, err)
	require.NoError(t, c.Reset(ctx, addr, 100))

	n, err := c.Next(ctx, addr, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), n)
}
