package cache

import (
	"context"
	"sync/atomic"
	"time"

	"tablebook/internal/domain"
	"tablebook/internal/schedule"

	"github.com/rs/zerolog"
)

// FailoverAvailabilityCache serves from the primary cache and drops to the
// fallback when the primary errors. After a minute it probes the primary
// again.
type FailoverAvailabilityCache struct {
	primary   domain.AvailabilityCache
	fallback  domain.AvailabilityCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverAvailabilityCache(primary, fallback domain.AvailabilityCache, logger *zerolog.Logger) *FailoverAvailabilityCache {
	return &FailoverAvailabilityCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverAvailabilityCache) GetDayMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, bool, error) {
	if !c.isDown.Load() {
		m, ok, err := c.primary.GetDayMap(ctx, tableID, date)
		if err == nil {
			return m, ok, nil
		}
		c.logger.Error().Err(err).Msg("Primary availability cache failed, falling back to memory")
		c.isDown.Store(true)
		c.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if c.isDown.Load() && time.Since(c.lastCheck) > time.Minute {
		m, ok, err := c.primary.GetDayMap(ctx, tableID, date)
		if err == nil {
			c.isDown.Store(false)
			return m, ok, nil
		}
		c.lastCheck = time.Now()
	}

	return c.fallback.GetDayMap(ctx, tableID, date)
}

func (c *FailoverAvailabilityCache) SetDayMap(ctx context.Context, tableID int64, date time.Time, m schedule.DayMap) error {
	if !c.isDown.Load() {
		err := c.primary.SetDayMap(ctx, tableID, date, m)
		if err == nil {
			return nil
		}
		c.logger.Error().Err(err).Msg("Primary availability cache failed, falling back to memory")
		c.isDown.Store(true)
		c.lastCheck = time.Now()
	}

	return c.fallback.SetDayMap(ctx, tableID, date, m)
}

func (c *FailoverAvailabilityCache) InvalidateDayMap(ctx context.Context, tableID int64, date time.Time) error {
	if !c.isDown.Load() {
		err := c.primary.InvalidateDayMap(ctx, tableID, date)
		if err == nil {
			// keep the fallback coherent, it may hold a stale copy
			return c.fallback.InvalidateDayMap(ctx, tableID, date)
		}
		c.logger.Error().Err(err).Msg("Primary availability cache failed, falling back to memory")
		c.isDown.Store(true)
		c.lastCheck = time.Now()
	}

	return c.fallback.InvalidateDayMap(ctx, tableID, date)
}
