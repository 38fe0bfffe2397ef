package database

import (
	"context"
	"testing"
	"time"

	"tablebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	restaurant, table := seedRestaurantAndTable(t, db)

	t.Run("Get", func(t *testing.T) {
		got, err := db.GetTable(ctx, table.ID)
		require.NoError(t, err)
		assert.Equal(t, "T1", got.Label)
		assert.Equal(t, restaurant.ID, got.RestaurantID)
		assert.Equal(t, "window", got.Location)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := db.GetTable(ctx, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		second := &models.Table{RestaurantID: restaurant.ID, Label: "T2", Capacity: 6, Seats: 6, IsActive: true}
		require.NoError(t, db.CreateTable(ctx, second))

		tables, err := db.ListTables(ctx, restaurant.ID)
		require.NoError(t, err)
		assert.Len(t, tables, 2)
	})

	t.Run("Update", func(t *testing.T) {
		table.Capacity = 8
		table.Location = "terrace"
		require.NoError(t, db.UpdateTable(ctx, table))

		got, err := db.GetTable(ctx, table.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, got.Capacity)
		assert.Equal(t, "terrace", got.Location)
	})
}

func TestDeleteTableBlockedByReservations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	restaurant, table := seedRestaurantAndTable(t, db)
	today := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	r := newTestReservation(restaurant.ID, table.ID, today.AddDate(0, 0, 2), 840, 900)
	require.NoError(t, db.CreateTableReservation(ctx, r))

	err := db.DeleteTable(ctx, table.ID, today)
	assert.ErrorIs(t, err, ErrTableInUse)

	// cancelling the reservation frees the table for deletion
	require.NoError(t, db.UpdateReservationStatus(ctx, r.ID, models.StatusCancelled))
	require.NoError(t, db.DeleteTable(ctx, table.ID, today))

	_, err = db.GetTable(ctx, table.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the cancelled row goes with the table
	_, err = db.GetTableReservation(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTablePastReservationsAllowed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	restaurant, table := seedRestaurantAndTable(t, db)
	today := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	past := newTestReservation(restaurant.ID, table.ID, today.AddDate(0, 0, -30), 840, 900)
	require.NoError(t, db.CreateTableReservation(ctx, past))

	require.NoError(t, db.DeleteTable(ctx, table.ID, today))

	_, err := db.GetTable(ctx, table.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetTableReservation(ctx, past.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpeningHours(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	restaurant, _ := seedRestaurantAndTable(t, db)

	t.Run("MissingIsNil", func(t *testing.T) {
		h, err := db.GetOpeningHours(ctx, restaurant.ID, 1)
		require.NoError(t, err)
		assert.Nil(t, h)
	})

	t.Run("UpsertAndGet", func(t *testing.T) {
		h := &models.OpeningHours{
			RestaurantID: restaurant.ID,
			DayOfWeek:    1,
			OpenTime:     600,
			CloseTime:    1320,
		}
		require.NoError(t, db.UpsertOpeningHours(ctx, h))

		got, err := db.GetOpeningHours(ctx, restaurant.ID, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.MinuteOfDay(600), got.OpenTime)
		assert.False(t, got.IsClosed)

		// upsert replaces
		h.IsClosed = true
		require.NoError(t, db.UpsertOpeningHours(ctx, h))
		got, err = db.GetOpeningHours(ctx, restaurant.ID, 1)
		require.NoError(t, err)
		assert.True(t, got.IsClosed)
	})

	t.Run("List", func(t *testing.T) {
		for d := 0; d < 7; d++ {
			require.NoError(t, db.UpsertOpeningHours(ctx, &models.OpeningHours{
				RestaurantID: restaurant.ID,
				DayOfWeek:    d,
				OpenTime:     540,
				CloseTime:    1290,
			}))
		}
		hours, err := db.ListOpeningHours(ctx, restaurant.ID)
		require.NoError(t, err)
		assert.Len(t, hours, 7)
	})
}

func TestSettings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	restaurant, _ := seedRestaurantAndTable(t, db)

	t.Run("MissingIsNil", func(t *testing.T) {
		s, err := db.GetSettings(ctx, restaurant.ID)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("UpsertAndGet", func(t *testing.T) {
		s := &models.RestaurantSettings{
			RestaurantID:                 restaurant.ID,
			ReservationsNeedConfirmation: true,
			MinDurationMinutes:           30,
			MaxDurationMinutes:           240,
			MaxAdvanceDays:               60,
			MaxGuests:                    12,
			MaxActivePerUser:             3,
		}
		require.NoError(t, db.UpsertSettings(ctx, s))

		got, err := db.GetSettings(ctx, restaurant.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.ReservationsNeedConfirmation)
		assert.Equal(t, 240, got.MaxDurationMinutes)
		assert.Equal(t, 3, got.MaxActivePerUser)
	})
}
