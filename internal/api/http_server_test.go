package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tablebook/internal/config"
	"tablebook/internal/database"
	"tablebook/internal/models"
	"tablebook/internal/schedule"
	"tablebook/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CheckAvailability(ctx context.Context, tableID int64, date time.Time, start, end models.MinuteOfDay) (bool, string, error) {
	args := m.Called(ctx, tableID, date, start, end)
	return args.Bool(0), args.String(1), args.Error(2)
}
func (m *mockService) GetAvailabilityMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, error) {
	args := m.Called(ctx, tableID, date)
	return args.Get(0).(schedule.DayMap), args.Error(1)
}
func (m *mockService) CreateReservation(ctx context.Context, r *models.TableReservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockService) GetReservation(ctx context.Context, id int64) (*models.TableReservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TableReservation), args.Error(1)
}
func (m *mockService) UpdateReservation(ctx context.Context, r *models.TableReservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockService) ConfirmReservation(ctx context.Context, id, version int64) error {
	return m.Called(ctx, id, version).Error(0)
}
func (m *mockService) RejectReservation(ctx context.Context, id, version int64) error {
	return m.Called(ctx, id, version).Error(0)
}
func (m *mockService) CancelReservation(ctx context.Context, id, version int64) error {
	return m.Called(ctx, id, version).Error(0)
}
func (m *mockService) DeleteReservation(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockService) SearchReservations(ctx context.Context, f models.ReservationFilter, page, pageSize int) (*models.ReservationPage, error) {
	args := m.Called(ctx, f, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReservationPage), args.Error(1)
}

type mockTables struct {
	mock.Mock
}

func (m *mockTables) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}
func (m *mockTables) ListTables(ctx context.Context, restaurantID int64) ([]*models.Table, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Table), args.Error(1)
}
func (m *mockTables) CreateTable(ctx context.Context, table *models.Table) error {
	return m.Called(ctx, table).Error(0)
}
func (m *mockTables) UpdateTable(ctx context.Context, table *models.Table) error {
	return m.Called(ctx, table).Error(0)
}
func (m *mockTables) DeleteTable(ctx context.Context, id int64, today time.Time) error {
	return m.Called(ctx, id, today).Error(0)
}

func testConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true, Port: 0},
		Auth:    config.APIAuthConfig{Enabled: false},
	}
}

func newTestServer(t *testing.T, cfg config.APIConfig) (*HTTPServer, *mockService, *mockTables) {
	t.Helper()
	svc := new(mockService)
	tables := new(mockTables)
	logger := zerolog.New(io.Discard)
	srv := NewHTTPServer(cfg, svc, tables, nil, &logger)
	return srv, svc, tables
}

func doRequest(srv *HTTPServer, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func sampleStored() *models.TableReservation {
	return &models.TableReservation{
		Reservation: models.Reservation{
			ID:           1,
			Code:         "code-1",
			RestaurantID: 1,
			CustomerName: "Alice",
			Guests:       2,
			Date:         time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			StartTime:    840,
			EndTime:      900,
			Status:       models.StatusConfirmed,
		},
		TableID: 10,
		Version: 1,
	}
}

func TestCreateReservationEndpoint(t *testing.T) {
	body := `{
		"restaurant_id": 1,
		"table_id": 10,
		"customer_name": "Alice",
		"guests": 2,
		"date": "2026-09-12",
		"start_time": "14:00",
		"end_time": "15:00"
	}`

	t.Run("Created", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("CreateReservation", mock.Anything, mock.AnythingOfType("*models.TableReservation")).
			Run(func(args mock.Arguments) {
				r := args.Get(1).(*models.TableReservation)
				r.ID = 1
				r.Code = "code-1"
				r.Status = models.StatusConfirmed
			}).Return(nil)

		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations", body, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp reservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "code-1", resp.Code)
		assert.Equal(t, "14:00", resp.StartTime)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("Conflict", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("CreateReservation", mock.Anything, mock.Anything).Return(database.ErrConflict)

		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations", body, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("CreateReservation", mock.Anything, mock.Anything).
			Return(&service.ValidationError{Field: "guests", Message: "must be at least 1"})

		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BadClockFormat", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		bad := strings.Replace(body, `"14:00"`, `"25:70"`, 1)

		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations", bad, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BadJSON", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations", "{nope", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetReservationEndpoint(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("GetReservation", mock.Anything, int64(1)).Return(sampleStored(), nil)

		rec := doRequest(srv, http.MethodGet, "/api/v1/reservations/1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp reservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2026-09-12", resp.Date)
	})

	t.Run("NotFound", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("GetReservation", mock.Anything, int64(9)).Return(nil, database.ErrNotFound)

		rec := doRequest(srv, http.MethodGet, "/api/v1/reservations/9", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		rec := doRequest(srv, http.MethodGet, "/api/v1/reservations/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatusChangeEndpoints(t *testing.T) {
	t.Run("Confirm", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("ConfirmReservation", mock.Anything, int64(1), int64(1)).Return(nil)
		confirmed := sampleStored()
		confirmed.Status = models.StatusConfirmed
		svc.On("GetReservation", mock.Anything, int64(1)).Return(confirmed, nil)

		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations/1/confirm", `{"version":1}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("CancelWithoutBody", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("CancelReservation", mock.Anything, int64(1), int64(0)).Return(nil)
		cancelled := sampleStored()
		cancelled.Status = models.StatusCancelled
		svc.On("GetReservation", mock.Anything, int64(1)).Return(cancelled, nil)

		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations/1/cancel", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp reservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("InvalidTransition", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("RejectReservation", mock.Anything, int64(1), int64(0)).Return(service.ErrInvalidTransition)

		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations/1/reject", "", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("UnknownAction", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		rec := doRequest(srv, http.MethodPost, "/api/v1/reservations/1/freeze", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("GetNotAllowedOnAction", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		rec := doRequest(srv, http.MethodGet, "/api/v1/reservations/1/confirm", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestDeleteReservationEndpoint(t *testing.T) {
	srv, svc, _ := newTestServer(t, testConfig())
	svc.On("DeleteReservation", mock.Anything, int64(1)).Return(nil)
	svc.On("DeleteReservation", mock.Anything, int64(9)).Return(database.ErrNotFound)

	rec := doRequest(srv, http.MethodDelete, "/api/v1/reservations/1", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(srv, http.MethodDelete, "/api/v1/reservations/9", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("FiltersParsed", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("SearchReservations", mock.Anything, mock.MatchedBy(func(f models.ReservationFilter) bool {
			return f.RestaurantID == 1 &&
				f.Customer == "grace" &&
				f.Status != nil && *f.Status == models.StatusConfirmed &&
				f.DateFrom != nil && f.DateTo != nil
		}), 2, 10).Return(&models.ReservationPage{
			Items:      []*models.TableReservation{sampleStored()},
			TotalCount: 12,
			TotalPages: 2,
			Page:       2,
			PageSize:   10,
			HasMore:    false,
		}, nil)

		rec := doRequest(srv, http.MethodGet,
			"/api/v1/reservations?restaurant_id=1&customer=grace&status=confirmed&from=2026-09-01&to=2026-09-30&page=2&page_size=10",
			"", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items      []reservationResponse `json:"items"`
			TotalCount int                   `json:"total_count"`
			HasMore    bool                  `json:"has_more"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, 12, resp.TotalCount)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		rec := doRequest(srv, http.MethodGet, "/api/v1/reservations?status=frozen", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidDate", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		rec := doRequest(srv, http.MethodGet, "/api/v1/reservations?date=12.09.2026", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAvailabilityEndpoints(t *testing.T) {
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	t.Run("DayMap", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		var m schedule.DayMap
		for i := range m {
			m[i] = schedule.SlotFree
		}
		svc.On("GetAvailabilityMap", mock.Anything, int64(10), date).Return(m, nil)

		rec := doRequest(srv, http.MethodGet, "/api/v1/availability/10?date=2026-09-12", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Slots       string `json:"slots"`
			SlotMinutes int    `json:"slot_minutes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Slots, schedule.SlotsPerDay)
		assert.Equal(t, 15, resp.SlotMinutes)
	})

	t.Run("Check", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		svc.On("CheckAvailability", mock.Anything, int64(10), date,
			models.MinuteOfDay(840), models.MinuteOfDay(900)).Return(false, service.ReasonConflict, nil)

		rec := doRequest(srv, http.MethodGet,
			"/api/v1/availability/10/check?date=2026-09-12&start=14:00&end=15:00", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Available bool   `json:"available"`
			Reason    string `json:"reason"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Available)
		assert.Equal(t, service.ReasonConflict, resp.Reason)
	})

	t.Run("MissingDate", func(t *testing.T) {
		srv, _, _ := newTestServer(t, testConfig())
		rec := doRequest(srv, http.MethodGet, "/api/v1/availability/10", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownTable", func(t *testing.T) {
		srv, svc, _ := newTestServer(t, testConfig())
		var zero schedule.DayMap
		svc.On("GetAvailabilityMap", mock.Anything, int64(99), date).Return(zero, database.ErrNotFound)

		rec := doRequest(srv, http.MethodGet, "/api/v1/availability/99?date=2026-09-12", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTablesEndpoint(t *testing.T) {
	srv, _, tables := newTestServer(t, testConfig())
	tables.On("ListTables", mock.Anything, int64(1)).Return([]*models.Table{
		{ID: 10, RestaurantID: 1, Label: "T1", Capacity: 4, IsActive: true},
	}, nil)

	rec := doRequest(srv, http.MethodGet, "/api/v1/tables?restaurant_id=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "T1")

	rec = doRequest(srv, http.MethodGet, "/api/v1/tables", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []config.APIClientKey{{Key: "k1", Name: "ops"}}
	srv, _, _ := newTestServer(t, cfg)

	// health requires no auth
	rec := doRequest(srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
