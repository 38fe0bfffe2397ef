package api

import (
	"errors"
	"net/http"

	"tablebook/internal/database"
	"tablebook/internal/service"
)

// httpStatusFor maps engine errors onto HTTP status codes: validation
// failures are 400, missing records 404, schedule and version conflicts
// 409, anything else 500.
func httpStatusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrConflict),
		errors.Is(err, database.ErrTableInUse),
		errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	status := httpStatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
