package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAvailabilityCache(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	t.Run("SetAndGet", func(t *testing.T) {
		c := NewMemoryAvailabilityCache(time.Minute)
		m := sampleDayMap()
		require.NoError(t, c.SetDayMap(ctx, 1, date, m))

		got, ok, err := c.GetDayMap(ctx, 1, date)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, m, got)
	})

	t.Run("Miss", func(t *testing.T) {
		c := NewMemoryAvailabilityCache(time.Minute)
		_, ok, err := c.GetDayMap(ctx, 42, date)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Invalidate", func(t *testing.T) {
		c := NewMemoryAvailabilityCache(time.Minute)
		require.NoError(t, c.SetDayMap(ctx, 1, date, sampleDayMap()))
		require.NoError(t, c.InvalidateDayMap(ctx, 1, date))

		_, ok, err := c.GetDayMap(ctx, 1, date)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Expiry", func(t *testing.T) {
		c := NewMemoryAvailabilityCache(time.Millisecond)
		require.NoError(t, c.SetDayMap(ctx, 1, date, sampleDayMap()))
		time.Sleep(5 * time.Millisecond)

		_, ok, err := c.GetDayMap(ctx, 1, date)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
