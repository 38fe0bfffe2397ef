package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tablebook/internal/models"
)

func (db *DB) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO restaurants (name, address, phone, is_active, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		r.Name, r.Address, r.Phone, r.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

func (db *DB) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	var r models.Restaurant
	var address, phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, address, phone, is_active, created_at, updated_at
         FROM restaurants WHERE id = ?`, id).Scan(
		&r.ID, &r.Name, &address, &phone, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	r.Address = address.String
	r.Phone = phone.String
	return &r, nil
}

func (db *DB) CreateTable(ctx context.Context, t *models.Table) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO dining_tables (restaurant_id, label, capacity, location, seats, is_active, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RestaurantID, t.Label, t.Capacity, t.Location, t.Seats, t.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (db *DB) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	var t models.Table
	var location sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, restaurant_id, label, capacity, location, seats, is_active, created_at, updated_at
         FROM dining_tables WHERE id = ?`, id).Scan(
		&t.ID, &t.RestaurantID, &t.Label, &t.Capacity, &location, &t.Seats,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	t.Location = location.String
	return &t, nil
}

func (db *DB) ListTables(ctx context.Context, restaurantID int64) ([]*models.Table, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, restaurant_id, label, capacity, location, seats, is_active, created_at, updated_at
         FROM dining_tables WHERE restaurant_id = ? ORDER BY label`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		var t models.Table
		var location sql.NullString
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity, &location,
			&t.Seats, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		t.Location = location.String
		tables = append(tables, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (db *DB) UpdateTable(ctx context.Context, t *models.Table) error {
	result, err := db.ExecContext(ctx,
		`UPDATE dining_tables SET label = ?, capacity = ?, location = ?, seats = ?,
            is_active = ?, updated_at = ? WHERE id = ?`,
		t.Label, t.Capacity, t.Location, t.Seats, t.IsActive, time.Now(), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTable removes a table unless active reservations from today onward
// still reference it, in which case ErrTableInUse is returned. Cancelled and
// past reservation rows are removed with the table to satisfy the foreign
// key; they never block deletion.
func (db *DB) DeleteTable(ctx context.Context, id int64, today time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM table_reservations
         WHERE table_id = ? AND status != ? AND date >= ?`,
		id, models.StatusCancelled, today.Format(models.DateLayout)).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count table reservations: %w", err)
	}
	if count > 0 {
		return ErrTableInUse
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM table_reservations WHERE table_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete table reservations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM dining_tables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
