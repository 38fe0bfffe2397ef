package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tablebook/internal/models"
)

type reservationRequest struct {
	RestaurantID  int64  `json:"restaurant_id"`
	TableID       int64  `json:"table_id"`
	UserID        int64  `json:"user_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Guests        int    `json:"guests"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Notes         string `json:"notes"`
	Version       int64  `json:"version"`
}

func (req *reservationRequest) toModel() (*models.TableReservation, error) {
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, err
	}
	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseClock(req.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.TableReservation{
		Reservation: models.Reservation{
			RestaurantID:  req.RestaurantID,
			UserID:        req.UserID,
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerEmail: strings.TrimSpace(req.CustomerEmail),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			Guests:        req.Guests,
			Date:          date,
			StartTime:     start,
			EndTime:       end,
			Notes:         req.Notes,
		},
		TableID: req.TableID,
		Version: req.Version,
	}, nil
}

type reservationResponse struct {
	ID                int64     `json:"id"`
	Code              string    `json:"code"`
	RestaurantID      int64     `json:"restaurant_id"`
	TableID           int64     `json:"table_id"`
	UserID            int64     `json:"user_id,omitempty"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email,omitempty"`
	CustomerPhone     string    `json:"customer_phone,omitempty"`
	Guests            int       `json:"guests"`
	Date              string    `json:"date"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	Notes             string    `json:"notes,omitempty"`
	Status            string    `json:"status"`
	NeedsConfirmation bool      `json:"needs_confirmation"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toReservationResponse(r *models.TableReservation) reservationResponse {
	return reservationResponse{
		ID:                r.ID,
		Code:              r.Code,
		RestaurantID:      r.RestaurantID,
		TableID:           r.TableID,
		UserID:            r.UserID,
		CustomerName:      r.CustomerName,
		CustomerEmail:     r.CustomerEmail,
		CustomerPhone:     r.CustomerPhone,
		Guests:            r.Guests,
		Date:              r.Date.Format(models.DateLayout),
		StartTime:         r.StartTime.String(),
		EndTime:           r.EndTime.String(),
		Notes:             r.Notes,
		Status:            string(r.Status),
		NeedsConfirmation: r.NeedsConfirmation,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createReservation(w, r)
	case http.MethodGet:
		s.searchReservations(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reservation, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.CreateReservation(r.Context(), reservation); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReservationResponse(reservation))
}

func (s *HTTPServer) searchReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ReservationFilter{
		RestaurantID: parseInt64(q.Get("restaurant_id")),
		TableID:      parseInt64(q.Get("table_id")),
		UserID:       parseInt64(q.Get("user_id")),
		Customer:     strings.TrimSpace(q.Get("customer")),
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := models.ReservationStatus(raw)
		if !models.ValidStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = &status
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"date", &filter.Date},
		{"from", &filter.DateFrom},
		{"to", &filter.DateTo},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+p.name+" format; expected YYYY-MM-DD")
			return
		}
		*p.dst = &parsed
	}

	page := int(parseInt64(q.Get("page")))
	pageSize := int(parseInt64(q.Get("page_size")))

	result, err := s.svc.SearchReservations(r.Context(), filter, page, pageSize)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	items := make([]reservationResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toReservationResponse(item))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total_count": result.TotalCount,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"page_size":   result.PageSize,
		"has_more":    result.HasMore,
	})
}

func (s *HTTPServer) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/reservations/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)

	idPart, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	if action != "" {
		s.handleStatusChange(w, r, id, action)
		return
	}

	switch r.Method {
	case http.MethodGet:
		reservation, err := s.svc.GetReservation(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReservationResponse(reservation))

	case http.MethodPut:
		var req reservationRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		reservation, err := req.toModel()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		reservation.ID = id

		current, err := s.svc.GetReservation(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		reservation.Code = current.Code
		reservation.Status = current.Status
		reservation.NeedsConfirmation = current.NeedsConfirmation
		if reservation.Version == 0 {
			reservation.Version = current.Version
		}

		if err := s.svc.UpdateReservation(r.Context(), reservation); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReservationResponse(reservation))

	case http.MethodDelete:
		if err := s.svc.DeleteReservation(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleStatusChange(w http.ResponseWriter, r *http.Request, id int64, action string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Version int64 `json:"version"`
	}
	if r.Body != nil {
		// version is optional, an empty body means "current version"
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	var err error
	switch action {
	case "confirm":
		err = s.svc.ConfirmReservation(r.Context(), id, body.Version)
	case "reject":
		err = s.svc.RejectReservation(r.Context(), id, body.Version)
	case "cancel":
		err = s.svc.CancelReservation(r.Context(), id, body.Version)
	default:
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	reservation, err := s.svc.GetReservation(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(reservation))
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/availability/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	idPart, sub, _ := strings.Cut(rest, "/")

	tableID := parseInt64(idPart)
	if tableID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	switch sub {
	case "":
		m, err := s.svc.GetAvailabilityMap(r.Context(), tableID, date)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"table_id":     tableID,
			"date":         dateStr,
			"slot_minutes": 15,
			"slots":        m.String(),
		})

	case "check":
		start, err := models.ParseClock(r.URL.Query().Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		end, err := models.ParseClock(r.URL.Query().Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		available, reason, err := s.svc.CheckAvailability(r.Context(), tableID, date, start, end)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}

		resp := map[string]any{"available": available}
		if reason != "" {
			resp["reason"] = reason
		}
		writeJSON(w, http.StatusOK, resp)

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	restaurantID := parseInt64(r.URL.Query().Get("restaurant_id"))
	if restaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "restaurant_id is required")
		return
	}

	tables, err := s.tables.ListTables(r.Context(), restaurantID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "export is not configured")
		return
	}

	q := r.URL.Query()
	restaurantID := parseInt64(q.Get("restaurant_id"))
	if restaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "restaurant_id is required")
		return
	}

	from, err := time.Parse(models.DateLayout, q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from format; expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse(models.DateLayout, q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to format; expected YYYY-MM-DD")
		return
	}
	if from.After(to) {
		writeError(w, http.StatusBadRequest, "from must not be after to")
		return
	}

	path, err := s.exporter.ExportReservations(r.Context(), restaurantID, from, to)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"file": path})
}

func parseInt64(raw string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
