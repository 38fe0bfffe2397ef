package models

import "time"

// Reservation is a restaurant-level booking intent that is not bound to a
// specific table. Table-bound reservations extend it with a table reference.
type Reservation struct {
	ID                int64             `json:"id"`
	Code              string            `json:"code"`
	RestaurantID      int64             `json:"restaurant_id"`
	UserID            int64             `json:"user_id,omitempty"`
	CustomerName      string            `json:"customer_name"`
	CustomerEmail     string            `json:"customer_email"`
	CustomerPhone     string            `json:"customer_phone"`
	Guests            int               `json:"guests"`
	Date              time.Time         `json:"date"`
	StartTime         MinuteOfDay       `json:"start_time"`
	EndTime           MinuteOfDay       `json:"end_time"`
	Notes             string            `json:"notes,omitempty"`
	Status            ReservationStatus `json:"status"`
	NeedsConfirmation bool              `json:"needs_confirmation"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TableReservation binds a reservation to a single table. It is the entity
// the conflict detector and availability map operate on.
type TableReservation struct {
	Reservation
	TableID int64 `json:"table_id"`
	Version int64 `json:"version"`
}

// ReservationFilter narrows a reservation search. Zero values mean "no
// constraint"; Status is a pointer so the empty status is expressible.
type ReservationFilter struct {
	RestaurantID int64
	TableID      int64
	UserID       int64
	Status       *ReservationStatus
	Customer     string // case-insensitive substring over name/email/phone
	Date         *time.Time
	DateFrom     *time.Time
	DateTo       *time.Time
}

// ReservationPage is one page of search results.
type ReservationPage struct {
	Items      []*TableReservation `json:"items"`
	TotalCount int                 `json:"total_count"`
	TotalPages int                 `json:"total_pages"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	HasMore    bool                `json:"has_more"`
}
