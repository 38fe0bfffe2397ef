package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablebook/internal/config"
	"tablebook/internal/database"
	"tablebook/internal/domain"
	"tablebook/internal/events"
	"tablebook/internal/metrics"
	"tablebook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReservationService implements the scheduling engine: conflict-safe
// creation, lifecycle transitions, availability maps and search.
type ReservationService struct {
	reservations domain.ReservationStore
	tables       domain.TableStore
	hours        domain.HoursStore
	settings     domain.SettingsStore
	cache        domain.AvailabilityCache
	eventBus     domain.EventPublisher
	notifier     domain.Notifier
	defaults     config.ReservationConfig
	logger       *zerolog.Logger
}

func NewReservationService(
	reservations domain.ReservationStore,
	tables domain.TableStore,
	hours domain.HoursStore,
	settings domain.SettingsStore,
	cache domain.AvailabilityCache,
	eventBus domain.EventPublisher,
	notifier domain.Notifier,
	defaults config.ReservationConfig,
	logger *zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		tables:       tables,
		hours:        hours,
		settings:     settings,
		cache:        cache,
		eventBus:     eventBus,
		notifier:     notifier,
		defaults:     defaults,
		logger:       logger,
	}
}

// effectiveSettings merges per-restaurant settings over engine defaults.
// Zero-valued fields fall back to config.
func (s *ReservationService) effectiveSettings(ctx context.Context, restaurantID int64) (models.RestaurantSettings, error) {
	merged := models.RestaurantSettings{
		RestaurantID:       restaurantID,
		MinDurationMinutes: s.defaults.MinDurationMinutes,
		MaxDurationMinutes: s.defaults.MaxDurationMinutes,
		MaxAdvanceDays:     s.defaults.MaxAdvanceDays,
		MinGuests:          1,
		MaxGuests:          s.defaults.MaxGuests,
		MaxActivePerUser:   s.defaults.MaxActivePerUser,
	}

	stored, err := s.settings.GetSettings(ctx, restaurantID)
	if err != nil {
		return merged, fmt.Errorf("failed to load restaurant settings: %w", err)
	}
	if stored == nil {
		return merged, nil
	}

	merged.ReservationsNeedConfirmation = stored.ReservationsNeedConfirmation
	if stored.MinDurationMinutes > 0 {
		merged.MinDurationMinutes = stored.MinDurationMinutes
	}
	if stored.MaxDurationMinutes > 0 {
		merged.MaxDurationMinutes = stored.MaxDurationMinutes
	}
	if stored.MinAdvanceDays > 0 {
		merged.MinAdvanceDays = stored.MinAdvanceDays
	}
	if stored.MaxAdvanceDays > 0 {
		merged.MaxAdvanceDays = stored.MaxAdvanceDays
	}
	if stored.MinGuests > 0 {
		merged.MinGuests = stored.MinGuests
	}
	if stored.MaxGuests > 0 {
		merged.MaxGuests = stored.MaxGuests
	}
	if stored.MaxActivePerUser > 0 {
		merged.MaxActivePerUser = stored.MaxActivePerUser
	}

	return merged, nil
}

func validateWindow(start, end models.MinuteOfDay) error {
	if !start.Valid() || !end.Valid() {
		return newValidationError("time", "times must lie within a single day")
	}
	if start >= end {
		return newValidationError("time", "start %s must precede end %s", start, end)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *ReservationService) validateAgainstSettings(r *models.TableReservation, settings models.RestaurantSettings) error {
	duration := int(r.EndTime - r.StartTime)
	if duration < settings.MinDurationMinutes {
		return newValidationError("duration", "must be at least %d minutes", settings.MinDurationMinutes)
	}
	if duration > settings.MaxDurationMinutes {
		return newValidationError("duration", "must not exceed %d minutes", settings.MaxDurationMinutes)
	}

	today := dateOnly(time.Now())
	date := dateOnly(r.Date)
	if date.Before(today.AddDate(0, 0, settings.MinAdvanceDays)) {
		if settings.MinAdvanceDays > 0 {
			return newValidationError("date", "must be at least %d days ahead", settings.MinAdvanceDays)
		}
		return newValidationError("date", "must not be in the past")
	}
	if date.After(today.AddDate(0, 0, settings.MaxAdvanceDays)) {
		return newValidationError("date", "must be within %d days", settings.MaxAdvanceDays)
	}

	if r.Guests < settings.MinGuests {
		return newValidationError("guests", "must be at least %d", settings.MinGuests)
	}
	if r.Guests > settings.MaxGuests {
		return newValidationError("guests", "must not exceed %d", settings.MaxGuests)
	}

	return nil
}

// withinOpeningHours checks the window against the restaurant's hours for
// the reservation weekday. A missing record means closed.
func (s *ReservationService) withinOpeningHours(ctx context.Context, restaurantID int64, date time.Time, start, end models.MinuteOfDay) (bool, error) {
	hours, err := s.hours.GetOpeningHours(ctx, restaurantID, int(date.Weekday()))
	if err != nil {
		return false, fmt.Errorf("failed to load opening hours: %w", err)
	}
	if hours == nil || hours.IsClosed {
		return false, nil
	}
	return start >= hours.OpenTime && end <= hours.CloseTime, nil
}

func (s *ReservationService) CreateReservation(ctx context.Context, r *models.TableReservation) error {
	if err := validateWindow(r.StartTime, r.EndTime); err != nil {
		return err
	}

	table, err := s.tables.GetTable(ctx, r.TableID)
	if err != nil {
		return err
	}
	if table.RestaurantID != r.RestaurantID {
		return newValidationError("table", "table %d does not belong to restaurant %d", r.TableID, r.RestaurantID)
	}
	if !table.IsActive {
		return newValidationError("table", "table %d is not accepting reservations", r.TableID)
	}

	settings, err := s.effectiveSettings(ctx, r.RestaurantID)
	if err != nil {
		return err
	}
	if err := s.validateAgainstSettings(r, settings); err != nil {
		return err
	}

	open, err := s.withinOpeningHours(ctx, r.RestaurantID, r.Date, r.StartTime, r.EndTime)
	if err != nil {
		return err
	}
	if !open {
		return newValidationError("time", "restaurant is closed for the requested window")
	}

	if r.UserID != 0 && settings.MaxActivePerUser > 0 {
		active, err := s.reservations.CountActiveForUser(ctx, r.RestaurantID, r.UserID, dateOnly(time.Now()))
		if err != nil {
			return fmt.Errorf("failed to count active reservations: %w", err)
		}
		if active >= settings.MaxActivePerUser {
			return newValidationError("user", "active reservation limit of %d reached", settings.MaxActivePerUser)
		}
	}

	if settings.ReservationsNeedConfirmation {
		r.Status = models.StatusPending
		r.NeedsConfirmation = true
	} else {
		r.Status = models.StatusConfirmed
		r.NeedsConfirmation = false
	}
	if r.Code == "" {
		r.Code = uuid.NewString()
	}
	if r.Version == 0 {
		r.Version = 1
	}

	if err := s.reservations.CreateTableReservationLocked(ctx, r); err != nil {
		if errors.Is(err, database.ErrConflict) {
			metrics.IncConflictRejection()
		}
		return err
	}

	metrics.IncReservationCreated(string(r.Status))
	s.invalidate(ctx, r.TableID, r.Date)
	s.publishEvent(events.EventReservationCreated, r)

	notice := events.EventReservationConfirmed
	if r.Status == models.StatusPending {
		notice = "reservation_awaiting_confirmation"
	}
	s.notify(ctx, notice, r)

	return nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*models.TableReservation, error) {
	return s.reservations.GetTableReservation(ctx, id)
}

func (s *ReservationService) UpdateReservation(ctx context.Context, r *models.TableReservation) error {
	if err := validateWindow(r.StartTime, r.EndTime); err != nil {
		return err
	}

	current, err := s.reservations.GetTableReservation(ctx, r.ID)
	if err != nil {
		return err
	}

	moved := current.TableID != r.TableID ||
		!dateOnly(current.Date).Equal(dateOnly(r.Date)) ||
		current.StartTime != r.StartTime ||
		current.EndTime != r.EndTime

	if current.TableID != r.TableID {
		table, err := s.tables.GetTable(ctx, r.TableID)
		if err != nil {
			return err
		}
		if table.RestaurantID != r.RestaurantID {
			return newValidationError("table", "table %d does not belong to restaurant %d", r.TableID, r.RestaurantID)
		}
	}

	// a moved reservation must not collide with anything but itself
	if moved && r.Status.IsActive() {
		conflict, err := s.reservations.HasConflict(ctx, r.TableID, r.Date, r.StartTime, r.EndTime, r.ID)
		if err != nil {
			return err
		}
		if conflict {
			metrics.IncConflictRejection()
			return database.ErrConflict
		}
	}

	if err := s.reservations.UpdateTableReservationWithVersion(ctx, r, r.Version); err != nil {
		return err
	}

	s.invalidate(ctx, current.TableID, current.Date)
	if moved {
		s.invalidate(ctx, r.TableID, r.Date)
	}
	s.publishEvent(events.EventReservationUpdated, r)
	s.notify(ctx, events.EventReservationUpdated, r)

	return nil
}

func (s *ReservationService) ConfirmReservation(ctx context.Context, id, version int64) error {
	return s.setStatus(ctx, id, version, models.StatusConfirmed, events.EventReservationConfirmed)
}

func (s *ReservationService) RejectReservation(ctx context.Context, id, version int64) error {
	return s.setStatus(ctx, id, version, models.StatusRejected, events.EventReservationRejected)
}

func (s *ReservationService) CancelReservation(ctx context.Context, id, version int64) error {
	return s.setStatus(ctx, id, version, models.StatusCancelled, events.EventReservationCancelled)
}

func (s *ReservationService) setStatus(ctx context.Context, id, version int64, target models.ReservationStatus, eventType string) error {
	r, err := s.reservations.GetTableReservation(ctx, id)
	if err != nil {
		return err
	}

	if !models.CanTransition(r.Status, target) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, r.Status, target)
	}

	if version == 0 {
		version = r.Version
	}
	if err := s.reservations.UpdateReservationStatusWithVersion(ctx, id, version, target); err != nil {
		return err
	}

	r.Status = target
	metrics.IncTransition(string(target))
	s.invalidate(ctx, r.TableID, r.Date)
	s.publishEvent(eventType, r)
	s.notify(ctx, eventType, r)

	return nil
}

func (s *ReservationService) DeleteReservation(ctx context.Context, id int64) error {
	r, err := s.reservations.GetTableReservation(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reservations.DeleteTableReservation(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, r.TableID, r.Date)
	return nil
}

func (s *ReservationService) SearchReservations(ctx context.Context, f models.ReservationFilter, page, pageSize int) (*models.ReservationPage, error) {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return nil, newValidationError("date_range", "from must not be after to")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaults.PaginationSize
	}
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	if pageSize > models.MaxPageSize {
		pageSize = models.MaxPageSize
	}

	items, total, err := s.reservations.SearchReservations(ctx, f, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &models.ReservationPage{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    page*pageSize < total,
	}, nil
}

func (s *ReservationService) publishEvent(eventType string, r *models.TableReservation) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		Code:          r.Code,
		RestaurantID:  r.RestaurantID,
		TableID:       r.TableID,
		UserID:        r.UserID,
		CustomerName:  r.CustomerName,
		Guests:        r.Guests,
		Status:        string(r.Status),
		Date:          r.Date.Format(models.DateLayout),
		StartTime:     r.StartTime.String(),
		EndTime:       r.EndTime.String(),
		OccurredAt:    time.Now(),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("reservation_id", r.ID).Msg("publish event error")
	}
}

func (s *ReservationService) notify(ctx context.Context, event string, r *models.TableReservation) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyReservation(ctx, event, r)
}

func (s *ReservationService) invalidate(ctx context.Context, tableID int64, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDayMap(ctx, tableID, date); err != nil {
		s.logger.Error().Err(err).Int64("table_id", tableID).Msg("availability cache invalidation error")
	}
}
