// Package export renders reservation listings to Excel workbooks.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tablebook/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Reservations"

// ReservationLister is the slice of the store the exporter needs.
type ReservationLister interface {
	SearchReservations(ctx context.Context, f models.ReservationFilter, page, pageSize int) ([]*models.TableReservation, int, error)
}

type Exporter struct {
	store  ReservationLister
	path   string
	logger *zerolog.Logger
}

func NewExporter(store ReservationLister, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		store:  store,
		path:   path,
		logger: logger,
	}
}

// ExportReservations writes all reservations of a restaurant within
// [from, to] to an xlsx file and returns its path.
func (e *Exporter) ExportReservations(ctx context.Context, restaurantID int64, from, to time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	reservations, err := e.collect(ctx, restaurantID, from, to)
	if err != nil {
		return "", fmt.Errorf("error loading reservations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Reservations %s to %s",
		from.Format(models.DateLayout), to.Format(models.DateLayout)))

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.MergeCell(sheetName, "A1", "K1")
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	e.writeHeaders(f)

	for i, r := range reservations {
		e.writeRow(f, i+3, r)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "E", 12)
	_ = f.SetColWidth(sheetName, "F", "H", 22)
	_ = f.SetColWidth(sheetName, "I", "K", 14)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("reservations_%d_%s_to_%s.xlsx",
		restaurantID, from.Format(models.DateLayout), to.Format(models.DateLayout))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(reservations)).Msg("Excel file created")
	return filePath, nil
}

func (e *Exporter) collect(ctx context.Context, restaurantID int64, from, to time.Time) ([]*models.TableReservation, error) {
	filter := models.ReservationFilter{
		RestaurantID: restaurantID,
		DateFrom:     &from,
		DateTo:       &to,
	}

	var all []*models.TableReservation
	for page := 1; ; page++ {
		items, total, err := e.store.SearchReservations(ctx, filter, page, models.MaxPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func (e *Exporter) writeHeaders(f *excelize.File) {
	headers := []string{
		"Code", "Date", "Start", "End", "Table",
		"Customer", "Phone", "Email", "Guests", "Status", "Notes",
	}

	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func (e *Exporter) writeRow(f *excelize.File, row int, r *models.TableReservation) {
	values := []interface{}{
		r.Code,
		r.Date.Format(models.DateLayout),
		r.StartTime.String(),
		r.EndTime.String(),
		r.TableID,
		r.CustomerName,
		r.CustomerPhone,
		r.CustomerEmail,
		r.Guests,
		string(r.Status),
		r.Notes,
	}

	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, v)
	}

	if styleID, err := statusStyle(f, r.Status); err == nil {
		statusCell, _ := excelize.CoordinatesToCellName(10, row)
		_ = f.SetCellStyle(sheetName, statusCell, statusCell, styleID)
	}
}

// statusStyle colors the status cell: green confirmed, yellow pending,
// red rejected and cancelled.
func statusStyle(f *excelize.File, status models.ReservationStatus) (int, error) {
	var color string
	switch status {
	case models.StatusConfirmed:
		color = "#C6EFCE"
	case models.StatusPending:
		color = "#FFEB9C"
	default:
		color = "#FFC7CE"
	}

	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "top",
		},
	})
}
