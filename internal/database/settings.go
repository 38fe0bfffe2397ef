package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tablebook/internal/models"
)

func (db *DB) UpsertSettings(ctx context.Context, s *models.RestaurantSettings) error {
	query := `INSERT INTO restaurant_settings (
                restaurant_id, need_confirmation, min_duration_minutes, max_duration_minutes,
                min_advance_days, max_advance_days, min_guests, max_guests, max_active_per_user
              ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(restaurant_id) DO UPDATE SET
                need_confirmation = excluded.need_confirmation,
                min_duration_minutes = excluded.min_duration_minutes,
                max_duration_minutes = excluded.max_duration_minutes,
                min_advance_days = excluded.min_advance_days,
                max_advance_days = excluded.max_advance_days,
                min_guests = excluded.min_guests,
                max_guests = excluded.max_guests,
                max_active_per_user = excluded.max_active_per_user`
	_, err := db.ExecContext(ctx, query,
		s.RestaurantID, s.ReservationsNeedConfirmation,
		s.MinDurationMinutes, s.MaxDurationMinutes,
		s.MinAdvanceDays, s.MaxAdvanceDays,
		s.MinGuests, s.MaxGuests, s.MaxActivePerUser)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

// GetSettings returns nil when the restaurant carries no explicit settings;
// the service falls back to configured defaults in that case.
func (db *DB) GetSettings(ctx context.Context, restaurantID int64) (*models.RestaurantSettings, error) {
	var s models.RestaurantSettings
	err := db.QueryRowContext(ctx,
		`SELECT restaurant_id, need_confirmation, min_duration_minutes, max_duration_minutes,
                min_advance_days, max_advance_days, min_guests, max_guests, max_active_per_user
         FROM restaurant_settings WHERE restaurant_id = ?`, restaurantID).Scan(
		&s.RestaurantID, &s.ReservationsNeedConfirmation,
		&s.MinDurationMinutes, &s.MaxDurationMinutes,
		&s.MinAdvanceDays, &s.MaxAdvanceDays,
		&s.MinGuests, &s.MaxGuests, &s.MaxActivePerUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}
