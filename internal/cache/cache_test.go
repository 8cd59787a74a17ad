package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, ok, err := c.GetString(ctx, "balance_acc-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetString(ctx, "balance_acc-1", `{"available":"100.00"}`, time.Minute))

	value, ok, err := c.GetString(ctx, "balance_acc-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"available":"100.00"}`, value)

	require.NoError(t, c.Invalidate(ctx, "balance_acc-1"))
	_, ok, err = c.GetString(ctx, "balance_acc-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryEntryExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return now }

	require.NoError(t, c.SetString(ctx, "k", "v", time.Minute))
	now = now.Add(61 * time.Second)

	_, ok, err := c.GetString(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
