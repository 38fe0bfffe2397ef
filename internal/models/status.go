package models

// ReservationStatus is the closed set of reservation lifecycle states.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s ReservationStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether a reservation in this status still occupies its
// time window. Everything except cancelled counts against availability.
func (s ReservationStatus) IsActive() bool {
	return s != StatusCancelled
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// CanTransition is the single checkpoint for status changes:
// pending -> confirmed | rejected | cancelled, confirmed -> cancelled.
// Nothing transitions back into pending.
func CanTransition(from, to ReservationStatus) bool {
	if !ValidStatus(from) || !ValidStatus(to) || from == to {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusRejected || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}
