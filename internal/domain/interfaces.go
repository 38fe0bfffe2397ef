package domain

import (
	"context"
	"time"

	"tablebook/internal/models"
	"tablebook/internal/schedule"
)

// ReservationStore is the persistence contract the scheduling service
// depends on. Implemented by database.DB.
type ReservationStore interface {
	HasConflict(ctx context.Context, tableID int64, date time.Time, start, end models.MinuteOfDay, excludeID int64) (bool, error)
	ListForTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*models.TableReservation, error)
	CreateTableReservation(ctx context.Context, r *models.TableReservation) error
	CreateTableReservationLocked(ctx context.Context, r *models.TableReservation) error
	GetTableReservation(ctx context.Context, id int64) (*models.TableReservation, error)
	UpdateTableReservationWithVersion(ctx context.Context, r *models.TableReservation, fromVersion int64) error
	UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) error
	UpdateReservationStatusWithVersion(ctx context.Context, id int64, version int64, status models.ReservationStatus) error
	DeleteTableReservation(ctx context.Context, id int64) error
	CountActiveForUser(ctx context.Context, restaurantID, userID int64, from time.Time) (int, error)
	SearchReservations(ctx context.Context, f models.ReservationFilter, page, pageSize int) ([]*models.TableReservation, int, error)
}

type TableStore interface {
	GetTable(ctx context.Context, id int64) (*models.Table, error)
	ListTables(ctx context.Context, restaurantID int64) ([]*models.Table, error)
	CreateTable(ctx context.Context, table *models.Table) error
	UpdateTable(ctx context.Context, table *models.Table) error
	DeleteTable(ctx context.Context, id int64, today time.Time) error
}

type HoursStore interface {
	GetOpeningHours(ctx context.Context, restaurantID int64, dayOfWeek int) (*models.OpeningHours, error)
	ListOpeningHours(ctx context.Context, restaurantID int64) ([]*models.OpeningHours, error)
	UpsertOpeningHours(ctx context.Context, hours *models.OpeningHours) error
}

type SettingsStore interface {
	GetSettings(ctx context.Context, restaurantID int64) (*models.RestaurantSettings, error)
	UpsertSettings(ctx context.Context, settings *models.RestaurantSettings) error
}

// AvailabilityCache stores rendered day maps keyed by table and date.
// Implementations may lose entries at any time, callers must fall back
// to rebuilding from the store.
type AvailabilityCache interface {
	GetDayMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, bool, error)
	SetDayMap(ctx context.Context, tableID int64, date time.Time, m schedule.DayMap) error
	InvalidateDayMap(ctx context.Context, tableID int64, date time.Time) error
}

// Notifier delivers reservation notices to guests or staff.
// Delivery is best effort, failures are logged and never block the caller.
type Notifier interface {
	NotifyReservation(ctx context.Context, event string, r *models.TableReservation)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ReservationService is the scheduling engine surface the API exposes.
type ReservationService interface {
	CheckAvailability(ctx context.Context, tableID int64, date time.Time, start, end models.MinuteOfDay) (bool, string, error)
	GetAvailabilityMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, error)
	CreateReservation(ctx context.Context, r *models.TableReservation) error
	GetReservation(ctx context.Context, id int64) (*models.TableReservation, error)
	UpdateReservation(ctx context.Context, r *models.TableReservation) error
	ConfirmReservation(ctx context.Context, id, version int64) error
	RejectReservation(ctx context.Context, id, version int64) error
	CancelReservation(ctx context.Context, id, version int64) error
	DeleteReservation(ctx context.Context, id int64) error
	SearchReservations(ctx context.Context, f models.ReservationFilter, page, pageSize int) (*models.ReservationPage, error)
}
