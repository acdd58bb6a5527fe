// Package timeline lays projects out on a proportional date axis. All
// coordinates are percentages of the window width; values outside [0, 100]
// are returned as is and left to the caller to drop.
package timeline

import (
	"math"
	"studioboard/calendar"
	"studioboard/domain"
	"time"
)

const (
	// PaddingDays is the margin kept before the earliest start and after the
	// latest end.
	PaddingDays = 5
	// DefaultWindowDays is the window length when nothing can be scheduled.
	DefaultWindowDays = 30
	// MinWidth keeps zero-length bars visible.
	MinWidth = 1.0
)

type Window struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	TotalDays int       `json:"totalDays"`
}

// NewWindow spans every scheduled project plus padding. Projects whose start
// or end does not parse are left out of the bounds; when none is left the
// window starts at now and lasts DefaultWindowDays.
func NewWindow(projects []domain.Project, now time.Time) Window {
	var min, max time.Time
	for i := range projects {
		p := &projects[i]
		if !p.Scheduled() {
			continue
		}
		start, end := p.Start(), p.End()
		if min.IsZero() || start.Before(min) {
			min = start
		}
		if max.IsZero() || end.After(max) {
			max = end
		}
	}
	if min.IsZero() || max.IsZero() {
		return Window{Start: now, End: calendar.Pad(now, DefaultWindowDays, calendar.Later), TotalDays: DefaultWindowDays}
	}

	start := calendar.Pad(min, PaddingDays, calendar.Earlier)
	end := calendar.Pad(max, PaddingDays, calendar.Later)
	total := int(math.Ceil(calendar.DayDifference(start, end)))
	if total < 1 {
		total = 1
	}
	return Window{Start: start, End: end, TotalDays: total}
}

// Position maps date onto the window, negative before Start and above 100
// after End. NaN for an invalid date.
func (w Window) Position(date time.Time) float64 {
	return calendar.SignedDays(w.Start, date) / float64(w.denominator()) * 100
}

// Width is the share of the window covered by start..end, never below
// MinWidth. Invalid input yields MinWidth.
func (w Window) Width(start, end time.Time) float64 {
	width := calendar.DayDifference(start, end) / float64(w.denominator()) * 100
	if math.IsNaN(width) || width < MinWidth {
		return MinWidth
	}
	return width
}

// Contains reports whether position is drawable.
func Contains(position float64) bool {
	return !math.IsNaN(position) && position >= 0 && position <= 100
}

func (w Window) denominator() int {
	if w.TotalDays < 1 {
		return 1
	}
	return w.TotalDays
}
