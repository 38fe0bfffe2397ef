// Package notify delivers reservation notices. The default implementation
// writes structured log lines; deployments wire a real channel (email,
// SMS) behind the same interface.
package notify

import (
	"context"

	"tablebook/internal/models"

	"github.com/rs/zerolog"
)

// LogNotifier emits each notice as a structured log event. Best effort,
// it never returns an error to the caller.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) NotifyReservation(ctx context.Context, event string, r *models.TableReservation) {
	if r == nil {
		return
	}

	n.log.Info().
		Str("event", event).
		Int64("reservation_id", r.ID).
		Str("code", r.Code).
		Int64("table_id", r.TableID).
		Str("customer", r.CustomerName).
		Str("date", r.Date.Format(models.DateLayout)).
		Str("start", r.StartTime.String()).
		Str("end", r.EndTime.String()).
		Str("status", string(r.Status)).
		Msg("reservation notice")
}
