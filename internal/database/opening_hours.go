package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tablebook/internal/models"
)

// UpsertOpeningHours writes the window for one restaurant and weekday.
func (db *DB) UpsertOpeningHours(ctx context.Context, h *models.OpeningHours) error {
	query := `INSERT INTO opening_hours (restaurant_id, day_of_week, open_time, close_time, is_closed)
              VALUES (?, ?, ?, ?, ?)
              ON CONFLICT(restaurant_id, day_of_week) DO UPDATE SET
                open_time = excluded.open_time,
                close_time = excluded.close_time,
                is_closed = excluded.is_closed`
	_, err := db.ExecContext(ctx, query,
		h.RestaurantID, h.DayOfWeek, h.OpenTime, h.CloseTime, h.IsClosed)
	if err != nil {
		return fmt.Errorf("failed to upsert opening hours: %w", err)
	}
	return nil
}

// GetOpeningHours returns the window for a restaurant and weekday, or nil
// when no record exists. A missing record means the day is closed.
func (db *DB) GetOpeningHours(ctx context.Context, restaurantID int64, dayOfWeek int) (*models.OpeningHours, error) {
	var h models.OpeningHours
	err := db.QueryRowContext(ctx,
		`SELECT restaurant_id, day_of_week, open_time, close_time, is_closed
         FROM opening_hours WHERE restaurant_id = ? AND day_of_week = ?`,
		restaurantID, dayOfWeek).Scan(
		&h.RestaurantID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsClosed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get opening hours: %w", err)
	}
	return &h, nil
}

// ListOpeningHours returns all weekday windows for a restaurant.
func (db *DB) ListOpeningHours(ctx context.Context, restaurantID int64) ([]*models.OpeningHours, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT restaurant_id, day_of_week, open_time, close_time, is_closed
         FROM opening_hours WHERE restaurant_id = ? ORDER BY day_of_week`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opening hours: %w", err)
	}
	defer rows.Close()

	var out []*models.OpeningHours
	for rows.Next() {
		var h models.OpeningHours
		if err := rows.Scan(&h.RestaurantID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsClosed); err != nil {
			return nil, fmt.Errorf("failed to scan opening hours: %w", err)
		}
		out = append(out, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
