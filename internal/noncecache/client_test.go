package noncecache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

func TestConnectDialsAndLoadsReservationScript(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Connect(context.Background(), ClientConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	n, err := c.Next(context.Background(), evmtype.Address{}, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestConnectFailsFastOnUnreachableAddr(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err := Connect(ctx, ClientConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
