package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablebook/internal/models"
)

const tableReservationColumns = `id, code, restaurant_id, table_id, user_id, customer_name,
	customer_email, customer_phone, guests, date, start_time, end_time, notes,
	status, needs_confirmation, version, created_at, updated_at`

// HasConflict reports whether any active reservation for the table on the
// given date overlaps the half-open window [start, end). Touching windows
// (end == other start) are not a conflict. excludeID > 0 skips that
// reservation's own row so updates can check against everyone else.
func (db *DB) HasConflict(ctx context.Context, tableID int64, date time.Time, start, end models.MinuteOfDay, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(
                SELECT 1 FROM table_reservations
                WHERE table_id = ? AND date = ? AND status != ?
                AND start_time < ? AND ? < end_time
                AND id != ?)`

	var exists bool
	err := db.QueryRowContext(ctx, query,
		tableID, date.Format(models.DateLayout), models.StatusCancelled,
		end, start, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check conflict: %w", err)
	}
	return exists, nil
}

// ListForTableAndDate returns every reservation (any status) for a table on
// a date, ordered by start time.
func (db *DB) ListForTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*models.TableReservation, error) {
	query := `SELECT ` + tableReservationColumns + `
              FROM table_reservations
              WHERE table_id = ? AND date = ?
              ORDER BY start_time ASC`

	rows, err := db.QueryContext(ctx, query, tableID, date.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	return scanTableReservations(rows)
}

// CreateTableReservation inserts without a conflict re-check. Callers that
// need the race-free path use CreateTableReservationLocked.
func (db *DB) CreateTableReservation(ctx context.Context, r *models.TableReservation) error {
	now := time.Now()
	result, err := db.ExecContext(ctx, insertTableReservationQuery, insertTableReservationArgs(r, now)...)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Version = 1
	return nil
}

// CreateTableReservationLocked re-runs the conflict check and inserts inside
// one immediate transaction. The write lock is held from the check onward,
// so of two requests racing for the same window the later one waits, then
// observes the earlier insert and fails with ErrConflict.
func (db *DB) CreateTableReservationLocked(ctx context.Context, r *models.TableReservation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists bool
	checkQuery := `SELECT EXISTS(
                SELECT 1 FROM table_reservations
                WHERE table_id = ? AND date = ? AND status != ?
                AND start_time < ? AND ? < end_time)`
	err = tx.QueryRowContext(ctx, checkQuery,
		r.TableID, r.Date.Format(models.DateLayout), models.StatusCancelled,
		r.EndTime, r.StartTime,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check conflict in tx: %w", err)
	}
	if exists {
		return ErrConflict
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, insertTableReservationQuery, insertTableReservationArgs(r, now)...)
	if err != nil {
		return fmt.Errorf("failed to insert reservation in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Version = 1

	return tx.Commit()
}

const insertTableReservationQuery = `INSERT INTO table_reservations (
		code, restaurant_id, table_id, user_id, customer_name, customer_email,
		customer_phone, guests, date, start_time, end_time, notes, status,
		needs_confirmation, version, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertTableReservationArgs(r *models.TableReservation, now time.Time) []any {
	return []any{
		r.Code,
		r.RestaurantID,
		r.TableID,
		r.UserID,
		r.CustomerName,
		r.CustomerEmail,
		r.CustomerPhone,
		r.Guests,
		r.Date.Format(models.DateLayout),
		r.StartTime,
		r.EndTime,
		r.Notes,
		r.Status,
		r.NeedsConfirmation,
		1,
		now,
		now,
	}
}

func (db *DB) GetTableReservation(ctx context.Context, id int64) (*models.TableReservation, error) {
	query := `SELECT ` + tableReservationColumns + ` FROM table_reservations WHERE id = ?`
	r, err := scanTableReservation(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

// UpdateTableReservationWithVersion overwrites all mutable fields guarded by
// the stored version. The conflict re-check for moved windows happens in the
// service layer before this call.
func (db *DB) UpdateTableReservationWithVersion(ctx context.Context, r *models.TableReservation, fromVersion int64) error {
	query := `UPDATE table_reservations SET
                table_id = ?, user_id = ?, customer_name = ?, customer_email = ?,
                customer_phone = ?, guests = ?, date = ?, start_time = ?,
                end_time = ?, notes = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`

	result, err := db.ExecContext(ctx, query,
		r.TableID, r.UserID, r.CustomerName, r.CustomerEmail,
		r.CustomerPhone, r.Guests, r.Date.Format(models.DateLayout), r.StartTime,
		r.EndTime, r.Notes, time.Now(),
		r.ID, fromVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	r.Version = fromVersion + 1
	return nil
}

func (db *DB) UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	result, err := db.ExecContext(ctx,
		`UPDATE table_reservations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) UpdateReservationStatusWithVersion(ctx context.Context, id, fromVersion int64, status models.ReservationStatus) error {
	query := `UPDATE table_reservations SET status = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// DeleteTableReservation removes the row entirely. Deleting an unknown id is
// ErrNotFound so client-side bugs surface instead of passing silently.
func (db *DB) DeleteTableReservation(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM table_reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveForUser counts non-cancelled reservations a user holds in a
// restaurant from a given date onward. Feeds the per-user booking limit.
func (db *DB) CountActiveForUser(ctx context.Context, restaurantID, userID int64, from time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM table_reservations
              WHERE restaurant_id = ? AND user_id = ? AND status != ? AND date >= ?`
	var count int
	err := db.QueryRowContext(ctx, query,
		restaurantID, userID, models.StatusCancelled, from.Format(models.DateLayout),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user reservations: %w", err)
	}
	return count, nil
}

// SearchReservations applies the filter and returns one page plus the total
// count. Ordering is reservation date then start time, both descending.
func (db *DB) SearchReservations(ctx context.Context, f models.ReservationFilter, page, pageSize int) ([]*models.TableReservation, int, error) {
	var where []string
	var args []any

	if f.RestaurantID > 0 {
		where = append(where, "restaurant_id = ?")
		args = append(args, f.RestaurantID)
	}
	if f.TableID > 0 {
		where = append(where, "table_id = ?")
		args = append(args, f.TableID)
	}
	if f.UserID > 0 {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *f.Status)
	}
	if f.Customer != "" {
		where = append(where, "(LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR customer_phone LIKE ?)")
		pattern := "%" + strings.ToLower(f.Customer) + "%"
		args = append(args, pattern, pattern, "%"+f.Customer+"%")
	}
	if f.Date != nil {
		where = append(where, "date = ?")
		args = append(args, f.Date.Format(models.DateLayout))
	}
	if f.DateFrom != nil {
		where = append(where, "date >= ?")
		args = append(args, f.DateFrom.Format(models.DateLayout))
	}
	if f.DateTo != nil {
		where = append(where, "date <= ?")
		args = append(args, f.DateTo.Format(models.DateLayout))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM table_reservations` + clause
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	query := `SELECT ` + tableReservationColumns + ` FROM table_reservations` + clause +
		` ORDER BY date DESC, start_time DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search reservations: %w", err)
	}
	defer rows.Close()

	items, err := scanTableReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTableReservation(row rowScanner) (*models.TableReservation, error) {
	var r models.TableReservation
	var dateStr string
	var email, phone, notes sql.NullString

	err := row.Scan(
		&r.ID, &r.Code, &r.RestaurantID, &r.TableID, &r.UserID, &r.CustomerName,
		&email, &phone, &r.Guests, &dateStr, &r.StartTime, &r.EndTime, &notes,
		&r.Status, &r.NeedsConfirmation, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.CustomerEmail = email.String
	r.CustomerPhone = phone.String
	r.Notes = notes.String

	r.Date, err = time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reservation date %s: %w", dateStr, err)
	}
	return &r, nil
}

func scanTableReservations(rows *sql.Rows) ([]*models.TableReservation, error) {
	var out []*models.TableReservation
	for rows.Next() {
		r, err := scanTableReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
