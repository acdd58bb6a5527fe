// Package calendar holds the day-granularity date arithmetic used by the
// timeline. Invalid dates are represented by the zero time.Time and flow
// through every function without panicking: differences become NaN, offsets
// stay invalid and enumerations come back empty.
package calendar

import (
	"math"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	DayLength   = 24 * time.Hour

	// MaxMonths bounds EnumerateMonths against runaway ranges.
	MaxMonths = 100
)

type Direction int

const (
	Earlier Direction = -1
	Later   Direction = 1
)

var monthNames = [...]string{"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь"}

// Parse accepts a calendar date (2006-01-02, read as UTC midnight) or an
// RFC3339 timestamp. It returns the zero time when s is neither.
func Parse(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

func Valid(t time.Time) bool {
	return !t.IsZero()
}

// IsDate reports whether s is empty or a parseable date.
func IsDate(s string) bool {
	return strings.TrimSpace(s) == "" || Valid(Parse(s))
}

// Format renders t as a calendar date, "" for an invalid date.
func Format(t time.Time) string {
	if !Valid(t) {
		return ""
	}
	return t.Format(DateLayout)
}

// DayDifference is the absolute distance between a and b in (fractional)
// days, NaN when either date is invalid.
func DayDifference(a, b time.Time) float64 {
	return math.Abs(SignedDays(a, b))
}

// SignedDays is the distance from `from` to `to` in days, negative when `to`
// comes first. NaN when either date is invalid.
func SignedDays(from, to time.Time) float64 {
	if !Valid(from) || !Valid(to) {
		return math.NaN()
	}
	return float64(to.Sub(from)) / float64(DayLength)
}

// Pad moves date by the given number of whole days.
func Pad(date time.Time, days int, direction Direction) time.Time {
	if !Valid(date) {
		return time.Time{}
	}
	return date.Add(time.Duration(int(direction)*days) * DayLength)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	if !Valid(t) {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EnumerateMonths lists the first day of every month from start's month
// through end's month inclusive, at most MaxMonths entries.
func EnumerateMonths(start, end time.Time) []time.Time {
	if !Valid(start) || !Valid(end) {
		return nil
	}
	current := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	var months []time.Time
	for !current.After(end) && len(months) < MaxMonths {
		months = append(months, current)
		current = current.AddDate(0, 1, 0)
	}
	return months
}

// MonthLabel renders "январь 2024".
func MonthLabel(t time.Time) string {
	if !Valid(t) {
		return ""
	}
	return monthNames[t.Month()-1] + " " + t.Format("2006")
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonth reads "2006-01".
func ParseMonth(s string) (time.Time, bool) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
