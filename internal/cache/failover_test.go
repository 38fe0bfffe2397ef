package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"tablebook/internal/schedule"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetDayMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, bool, error) {
	args := m.Called(ctx, tableID, date)
	return args.Get(0).(schedule.DayMap), args.Bool(1), args.Error(2)
}

func (m *mockCache) SetDayMap(ctx context.Context, tableID int64, date time.Time, dm schedule.DayMap) error {
	args := m.Called(ctx, tableID, date, dm)
	return args.Error(0)
}

func (m *mockCache) InvalidateDayMap(ctx context.Context, tableID int64, date time.Time) error {
	args := m.Called(ctx, tableID, date)
	return args.Error(0)
}

func TestFailoverAvailabilityCache(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	logger := zerolog.New(io.Discard)

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		c := NewFailoverAvailabilityCache(primary, fallback, &logger)

		m := sampleDayMap()
		primary.On("GetDayMap", ctx, int64(1), date).Return(m, true, nil)

		got, ok, err := c.GetDayMap(ctx, 1, date)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, m, got)
		fallback.AssertNotCalled(t, "GetDayMap", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("FallsBackOnError", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		c := NewFailoverAvailabilityCache(primary, fallback, &logger)

		var zero schedule.DayMap
		m := sampleDayMap()
		primary.On("GetDayMap", ctx, int64(1), date).Return(zero, false, errors.New("redis down"))
		fallback.On("GetDayMap", ctx, int64(1), date).Return(m, true, nil)

		got, ok, err := c.GetDayMap(ctx, 1, date)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, m, got)
	})

	t.Run("StaysOnFallbackWhileDown", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		c := NewFailoverAvailabilityCache(primary, fallback, &logger)

		var zero schedule.DayMap
		primary.On("GetDayMap", ctx, int64(1), date).Return(zero, false, errors.New("redis down")).Once()
		fallback.On("GetDayMap", ctx, int64(1), date).Return(zero, false, nil)

		_, _, err := c.GetDayMap(ctx, 1, date)
		require.NoError(t, err)

		// second call must not touch the primary again inside the window
		_, _, err = c.GetDayMap(ctx, 1, date)
		require.NoError(t, err)
		primary.AssertNumberOfCalls(t, "GetDayMap", 1)
	})

	t.Run("SetFallsBack", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		c := NewFailoverAvailabilityCache(primary, fallback, &logger)

		m := sampleDayMap()
		primary.On("SetDayMap", ctx, int64(1), date, m).Return(errors.New("redis down"))
		fallback.On("SetDayMap", ctx, int64(1), date, m).Return(nil)

		require.NoError(t, c.SetDayMap(ctx, 1, date, m))
		fallback.AssertCalled(t, "SetDayMap", ctx, int64(1), date, m)
	})

	t.Run("InvalidateHitsBothWhenHealthy", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		c := NewFailoverAvailabilityCache(primary, fallback, &logger)

		primary.On("InvalidateDayMap", ctx, int64(1), date).Return(nil)
		fallback.On("InvalidateDayMap", ctx, int64(1), date).Return(nil)

		require.NoError(t, c.InvalidateDayMap(ctx, 1, date))
		primary.AssertCalled(t, "InvalidateDayMap", ctx, int64(1), date)
		fallback.AssertCalled(t, "InvalidateDayMap", ctx, int64(1), date)
	})
}
