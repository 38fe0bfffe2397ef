package models

import "time"

// Table is a bookable table inside a restaurant.
type Table struct {
	ID           int64     `json:"id" yaml:"id"`
	RestaurantID int64     `json:"restaurant_id" yaml:"restaurant_id"`
	Label        string    `json:"label" yaml:"label"`
	Capacity     int       `json:"capacity" yaml:"capacity"`
	Location     string    `json:"location,omitempty" yaml:"location"`
	Seats        int       `json:"seats" yaml:"seats"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
