package cache

import (
	"context"
	"sync"
	"time"

	"tablebook/internal/schedule"
)

// MemoryAvailabilityCache is the in-process fallback store used when
// Redis is unavailable or not configured.
type MemoryAvailabilityCache struct {
	entries sync.Map
	ttl     time.Duration
}

type memoryEntry struct {
	m         schedule.DayMap
	expiresAt time.Time
}

func NewMemoryAvailabilityCache(ttl time.Duration) *MemoryAvailabilityCache {
	return &MemoryAvailabilityCache{ttl: ttl}
}

func (c *MemoryAvailabilityCache) GetDayMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, bool, error) {
	var zero schedule.DayMap
	key := dayMapKey(tableID, date)

	val, ok := c.entries.Load(key)
	if !ok {
		return zero, false, nil
	}

	entry := val.(memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(key)
		return zero, false, nil
	}

	return entry.m, true, nil
}

func (c *MemoryAvailabilityCache) SetDayMap(ctx context.Context, tableID int64, date time.Time, m schedule.DayMap) error {
	c.entries.Store(dayMapKey(tableID, date), memoryEntry{
		m:         m,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

func (c *MemoryAvailabilityCache) InvalidateDayMap(ctx context.Context, tableID int64, date time.Time) error {
	c.entries.Delete(dayMapKey(tableID, date))
	return nil
}
