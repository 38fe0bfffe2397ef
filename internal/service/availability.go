package service

import (
	"context"
	"fmt"
	"time"

	"tablebook/internal/metrics"
	"tablebook/internal/models"
	"tablebook/internal/schedule"
)

// CheckAvailability reports whether [start, end) is bookable for a table
// on a date. The reason is empty when available, otherwise one of the
// Reason constants.
func (s *ReservationService) CheckAvailability(ctx context.Context, tableID int64, date time.Time, start, end models.MinuteOfDay) (bool, string, error) {
	if err := validateWindow(start, end); err != nil {
		return false, "", err
	}

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return false, "", err
	}

	open, err := s.withinOpeningHours(ctx, table.RestaurantID, date, start, end)
	if err != nil {
		return false, "", err
	}
	if !open {
		return false, ReasonClosed, nil
	}

	conflict, err := s.reservations.HasConflict(ctx, tableID, date, start, end, 0)
	if err != nil {
		return false, "", err
	}
	if conflict {
		return false, ReasonConflict, nil
	}

	return true, "", nil
}

// GetAvailabilityMap renders the 96-slot day map for a table and date,
// serving from cache when possible.
func (s *ReservationService) GetAvailabilityMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, error) {
	if s.cache != nil {
		if m, ok, err := s.cache.GetDayMap(ctx, tableID, date); err == nil && ok {
			metrics.IncCacheLookup("hit")
			return m, nil
		}
		metrics.IncCacheLookup("miss")
	}

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		var zero schedule.DayMap
		return zero, err
	}

	hours, err := s.hours.GetOpeningHours(ctx, table.RestaurantID, int(date.Weekday()))
	if err != nil {
		var zero schedule.DayMap
		return zero, fmt.Errorf("failed to load opening hours: %w", err)
	}

	reservations, err := s.reservations.ListForTableAndDate(ctx, tableID, date)
	if err != nil {
		var zero schedule.DayMap
		return zero, err
	}

	m := schedule.BuildDayMap(hours, reservations)

	if s.cache != nil {
		if err := s.cache.SetDayMap(ctx, tableID, date, m); err != nil {
			s.logger.Error().Err(err).Int64("table_id", tableID).Msg("availability cache store error")
		}
	}

	return m, nil
}
