// Package schedule holds the pure slot arithmetic behind availability maps
// and conflict checks. A day is quantized into 96 slots of 15 minutes each,
// slot i covering minutes [i*15, (i+1)*15) from local midnight.
package schedule

import (
	"fmt"
	"strings"

	"tablebook/internal/models"
)

const (
	SlotMinutes = 15
	SlotsPerDay = models.MinutesPerDay / SlotMinutes // 96
)

// SlotState is the availability of a single 15-minute slot.
type SlotState byte

const (
	SlotFree     SlotState = 'F'
	SlotReserved SlotState = 'R'
	SlotClosed   SlotState = 'C'
)

// DayMap is the full per-day availability sequence, one state per slot.
type DayMap [SlotsPerDay]SlotState

// String renders the map as a compact 96-character encoding.
func (m DayMap) String() string {
	var b strings.Builder
	b.Grow(SlotsPerDay)
	for _, s := range m {
		b.WriteByte(byte(s))
	}
	return b.String()
}

// ParseDayMap decodes the 96-character encoding produced by String.
func ParseDayMap(s string) (DayMap, error) {
	var m DayMap
	if len(s) != SlotsPerDay {
		return m, fmt.Errorf("day map must be %d characters, got %d", SlotsPerDay, len(s))
	}
	for i := 0; i < SlotsPerDay; i++ {
		switch st := SlotState(s[i]); st {
		case SlotFree, SlotReserved, SlotClosed:
			m[i] = st
		default:
			return m, fmt.Errorf("invalid slot state %q at index %d", s[i], i)
		}
	}
	return m, nil
}

// Overlaps implements the half-open interval overlap rule: [s1,e1) and
// [s2,e2) conflict iff s1 < e2 && s2 < e1. Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 models.MinuteOfDay) bool {
	return s1 < e2 && s2 < e1
}

// slotFloor and slotCeil convert minute bounds to slot indexes clamped to
// [0, SlotsPerDay].
func slotFloor(m models.MinuteOfDay) int {
	i := int(m) / SlotMinutes
	return clampSlot(i)
}

func slotCeil(m models.MinuteOfDay) int {
	i := (int(m) + SlotMinutes - 1) / SlotMinutes
	return clampSlot(i)
}

func clampSlot(i int) int {
	if i < 0 {
		return 0
	}
	if i > SlotsPerDay {
		return SlotsPerDay
	}
	return i
}

// BuildDayMap combines active reservations with opening hours into a DayMap.
//
// Construction order matters: slots start Free, reservations mark their slot
// range Reserved, and opening hours are applied last so that closed slots
// override any Reserved mark. A reservation spilling into closed hours must
// not be reported as bookable, while a missing or closed hours record blanks
// the whole day.
func BuildDayMap(hours *models.OpeningHours, reservations []*models.TableReservation) DayMap {
	var m DayMap
	for i := range m {
		m[i] = SlotFree
	}

	for _, r := range reservations {
		if !r.Status.IsActive() {
			continue
		}
		from := slotFloor(r.StartTime)
		to := slotCeil(r.EndTime)
		for i := from; i < to; i++ {
			m[i] = SlotReserved
		}
	}

	if hours == nil || hours.IsClosed {
		for i := range m {
			m[i] = SlotClosed
		}
		return m
	}

	openIdx := slotCeil(hours.OpenTime)
	closeIdx := slotFloor(hours.CloseTime)
	for i := 0; i < openIdx; i++ {
		m[i] = SlotClosed
	}
	for i := closeIdx; i < SlotsPerDay; i++ {
		m[i] = SlotClosed
	}
	return m
}
