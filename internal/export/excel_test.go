package export

import (
	"context"
	"io"
	"testing"
	"time"

	"tablebook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeLister struct {
	items []*models.TableReservation
}

func (l *fakeLister) SearchReservations(_ context.Context, _ models.ReservationFilter, page, pageSize int) ([]*models.TableReservation, int, error) {
	start := (page - 1) * pageSize
	if start >= len(l.items) {
		return nil, len(l.items), nil
	}
	end := start + pageSize
	if end > len(l.items) {
		end = len(l.items)
	}
	return l.items[start:end], len(l.items), nil
}

func sampleReservation(code string, status models.ReservationStatus) *models.TableReservation {
	return &models.TableReservation{
		Reservation: models.Reservation{
			Code:          code,
			RestaurantID:  1,
			CustomerName:  "Grace Hopper",
			CustomerPhone: "+15550001111",
			Guests:        4,
			Date:          time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			StartTime:     840,
			EndTime:       930,
			Status:        status,
		},
		TableID: 3,
	}
}

func TestExportReservations(t *testing.T) {
	logger := zerolog.New(io.Discard)
	lister := &fakeLister{items: []*models.TableReservation{
		sampleReservation("code-1", models.StatusConfirmed),
		sampleReservation("code-2", models.StatusPending),
		sampleReservation("code-3", models.StatusCancelled),
	}}

	exp := NewExporter(lister, t.TempDir(), &logger)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	path, err := exp.ExportReservations(context.Background(), 1, from, to)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "2026-09-01")

	header, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Code", header)

	code, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "code-1", code)

	start, err := f.GetCellValue(sheetName, "C3")
	require.NoError(t, err)
	assert.Equal(t, "14:00", start)

	status, err := f.GetCellValue(sheetName, "J5")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", status)
}

func TestExportEmptyRange(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exp := NewExporter(&fakeLister{}, t.TempDir(), &logger)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	path, err := exp.ExportReservations(context.Background(), 1, from, from)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// headers present, no data rows
	header, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)

	empty, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
