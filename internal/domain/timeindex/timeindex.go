// Package timeindex maps event dates and hours onto a flat half-hour slot
// ordinal and back.
//
// An hourly index is (hour - start) + dayOffset*(end - start). Each hour holds
// two half-hour sub-slots: the hourly index itself and index+0.5. Slot stores
// the doubled value so arithmetic stays integral and round trips are exact.
package timeindex

import (
	"fmt"
	"time"
)

// dateLayout is the ISO layout accepted for the event start date.
const dateLayout = "2006-01-02"

// Slot is a half-hour ordinal within the event window. Slot 0 is the first
// half hour of the first day.
type Slot int

// Index returns the fractional hourly index (n or n+0.5) the slot stands for.
func (s Slot) Index() float64 { return float64(s) / 2 }

// HalfPast reports whether the slot starts at minute 30.
func (s Slot) HalfPast() bool { return s%2 == 1 }

// Next returns the following half-hour slot.
func (s Slot) Next() Slot { return s + 1 }

// Index converts between calendar time and slots for one event.
type Index struct {
	start     time.Time
	startHour int
	endHour   int
	days      int
}

// New builds an Index for an event starting on startDate (YYYY-MM-DD) and
// running for days days with a daily window of [startHour, endHour).
func New(startDate string, startHour, endHour, days int) (*Index, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q: %w", ErrInvalidWindow, startDate, err)
	}
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return nil, fmt.Errorf("%w: hours [%d, %d)", ErrInvalidWindow, startHour, endHour)
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidWindow, days)
	}
	return &Index{start: start, startHour: startHour, endHour: endHour, days: days}, nil
}

// hoursPerDay is the width of the daily window.
func (x *Index) hoursPerDay() int { return x.endHour - x.startHour }

// Start returns the first event day.
func (x *Index) Start() time.Time { return x.start }

// Days returns the number of event days.
func (x *Index) Days() int { return x.days }

// Len returns the number of valid slots.
func (x *Index) Len() int { return 2 * x.hoursPerDay() * x.days }

// Valid reports whether s lies inside the event window.
func (x *Index) Valid(s Slot) bool { return s >= 0 && int(s) < x.Len() }

// Slot returns the on-the-hour slot for hour on date.
func (x *Index) Slot(date time.Time, hour int) (Slot, error) {
	day := dayOffset(x.start, date)
	if day < 0 || day >= x.days {
		return 0, fmt.Errorf("%w: %s is outside the %d-day event starting %s",
			ErrOutOfRange, date.Format(dateLayout), x.days, x.start.Format(dateLayout))
	}
	if hour < x.startHour || hour >= x.endHour {
		return 0, fmt.Errorf("%w: hour %d is outside [%d, %d)", ErrOutOfRange, hour, x.startHour, x.endHour)
	}
	hourly := (hour - x.startHour) + day*x.hoursPerDay()
	return Slot(2 * hourly), nil
}

// Expand returns both half-hour slots of hour on date.
func (x *Index) Expand(date time.Time, hour int) ([2]Slot, error) {
	s, err := x.Slot(date, hour)
	if err != nil {
		return [2]Slot{}, err
	}
	return [2]Slot{s, s.Next()}, nil
}

// Time returns the calendar date, hour and minute of s.
func (x *Index) Time(s Slot) (date time.Time, hour, minute int, err error) {
	if !x.Valid(s) {
		return time.Time{}, 0, 0, fmt.Errorf("%w: slot %d", ErrOutOfRange, s)
	}
	hourly := int(s) / 2
	day := hourly / x.hoursPerDay()
	hour = hourly%x.hoursPerDay() + x.startHour
	if s.HalfPast() {
		minute = 30
	}
	return x.start.AddDate(0, 0, day), hour, minute, nil
}

// DateTime returns s as a single time value.
func (x *Index) DateTime(s Slot) (time.Time, error) {
	date, hour, minute, err := x.Time(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC), nil
}

// FormatDate renders the slot's date as "January 18, 2021".
func (x *Index) FormatDate(s Slot) string {
	t, err := x.DateTime(s)
	if err != nil {
		return ""
	}
	return t.Format("January 02, 2006")
}

// FormatClock renders the slot's time of day as "08:30 AM".
func (x *Index) FormatClock(s Slot) string {
	t, err := x.DateTime(s)
	if err != nil {
		return ""
	}
	return t.Format("03:04 PM")
}

func dayOffset(start, date time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(start).Hours() / 24)
}
