package models

import "time"

type Restaurant struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Address   string    `json:"address,omitempty" yaml:"address"`
	Phone     string    `json:"phone,omitempty" yaml:"phone"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RestaurantSettings holds the per-restaurant booking policy. Bounds of zero
// fall back to the service-level defaults from config.
type RestaurantSettings struct {
	RestaurantID                 int64 `json:"restaurant_id" yaml:"restaurant_id"`
	ReservationsNeedConfirmation bool  `json:"reservations_need_confirmation" yaml:"reservations_need_confirmation"`
	MinDurationMinutes           int   `json:"min_duration_minutes" yaml:"min_duration_minutes"`
	MaxDurationMinutes           int   `json:"max_duration_minutes" yaml:"max_duration_minutes"`
	MinAdvanceDays               int   `json:"min_advance_days" yaml:"min_advance_days"`
	MaxAdvanceDays               int   `json:"max_advance_days" yaml:"max_advance_days"`
	MinGuests                    int   `json:"min_guests" yaml:"min_guests"`
	MaxGuests                    int   `json:"max_guests" yaml:"max_guests"`
	MaxActivePerUser             int   `json:"max_active_per_user" yaml:"max_active_per_user"`
}
