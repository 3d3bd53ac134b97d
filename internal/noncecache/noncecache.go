// Package noncecache allocates monotonic per-address transaction nonces
// backed by Redis, so a caller submitting many envelopes concurrently
// never reuses or skips a nonce. The cores in pkg/tx stay network-free;
// this is the caller-owned state they deliberately leave out.
package noncecache

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

//go:embed scripts/reserve.lua
var reserveLua string

// Cache reserves monotonic nonces for addresses using a Redis-backed
// atomic counter per address.
type Cache struct {
	rdb     *redis.Client
	reserve *redis.Script
}

// New builds a Cache over an already-connected Redis client.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb, reserve: redis.NewScript(reserveLua)}
}

func nonceKey(addr evmtype.Address) string {
	return "noncecache:" + addr.Hex()
}

// Next reserves and returns the next nonce for addr. If no nonce has been
// reserved for addr before, the counter seeds from floor (typically the
// account's on-chain transaction count) and returns floor itself.
func (c *Cache) Next(ctx context.Context, addr evmtype.Address, floor uint64) (uint64, error) {
	result, err := c.reserve.Run(ctx, c.rdb, []string{nonceKey(addr)}, floor).Int64()
	if err != nil {
		return 0, fmt.Errorf("noncecache: reserve %s: %w", addr.Hex(), err)
	}
	if result < 0 {
		return 0, fmt.Errorf("noncecache: reserve %s: negative nonce %d", addr.Hex(), result)
	}
	return uint64(result), nil
}

// Peek returns the next nonce that would be reserved for addr without
// consuming it. It returns floor if no nonce has been reserved yet.
func (c *Cache) Peek(ctx context.Context, addr evmtype.Address, floor uint64) (uint64, error) {
	val, err := c.rdb.Get(ctx, nonceKey(addr)).Result()
	if err == redis.Nil {
		return floor, nil
	}
	if err != nil {
		return 0, fmt.Errorf("noncecache: peek %s: %w", addr.Hex(), err)
	}
	var last uint64
	if _, err := fmt.Sscanf(val, "%d", &last); err != nil {
		return 0, fmt.Errorf("noncecache: peek %s: parsing counter: %w", addr.Hex(), err)
	}
	// The stored counter is the last reserved nonce; Next would INCR it.
	return last + 1, nil
}

// Reset forces addr's stored counter to n, overriding whatever reservations
// have already happened, so the next Next call for addr returns n+1. Used
// after a dropped transaction or to resync with the chain's account nonce.
func (c *Cache) Reset(ctx context.Context, addr evmtype.Address, n uint64) error {
	if err := c.rdb.Set(ctx, nonceKey(addr), n, 0).Err(); err != nil {
		return fmt.Errorf("noncecache: reset %s: %w", addr.Hex(), err)
	}
	return nil
}
