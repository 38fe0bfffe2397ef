package models

// OpeningHours is one restaurant's window for a single day of week.
// DayOfWeek follows time.Weekday numbering (0 = Sunday).
type OpeningHours struct {
	RestaurantID int64       `json:"restaurant_id" yaml:"restaurant_id"`
	DayOfWeek    int         `json:"day_of_week" yaml:"day_of_week"`
	OpenTime     MinuteOfDay `json:"open_time" yaml:"open_time"`
	CloseTime    MinuteOfDay `json:"close_time" yaml:"close_time"`
	IsClosed     bool        `json:"is_closed" yaml:"is_closed"`
}

// IsOpenAt reports whether t falls inside the half-open window [open, close).
func (h *OpeningHours) IsOpenAt(t MinuteOfDay) bool {
	if h == nil || h.IsClosed {
		return false
	}
	return t >= h.OpenTime && t < h.CloseTime
}
