package timeline

import (
	"studioboard/calendar"
	"studioboard/domain"
	"time"
)

// Treatment is the single visual treatment of a calendar day.
type Treatment string

const (
	TreatmentNone      Treatment = "none"
	TreatmentInRange   Treatment = "in-range"
	TreatmentMilestone Treatment = "milestone"
	TreatmentBoundary  Treatment = "boundary"
	TreatmentToday     Treatment = "today"
)

var treatmentStyles = map[Treatment]string{
	TreatmentInRange:  "bg-gray-200 text-gray-800",
	TreatmentBoundary: "ring-2 ring-blue-400",
	TreatmentToday:    "ring-2 ring-red-500 text-red-600 font-bold z-10",
}

type Day struct {
	Date      string        `json:"date"`
	Day       int           `json:"day"`
	Treatment Treatment     `json:"treatment"`
	Milestone MilestoneKind `json:"milestone,omitempty"`
	InRange   bool          `json:"inRange"`
	Style     string        `json:"style"`
}

// MonthGrid is a Monday-first month calendar of one project.
type MonthGrid struct {
	Month         string `json:"month"`
	Label         string `json:"label"`
	LeadingBlanks int    `json:"leadingBlanks"`
	Days          []Day  `json:"days"`
}

// BuildMonthGrid resolves one treatment per day of the month, highest
// priority first: today, start or end date, milestone, in-range shading.
func BuildMonthGrid(p *domain.Project, year int, month time.Month, now time.Time) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	grid := MonthGrid{
		Month:         first.Format(calendar.MonthLayout),
		Label:         calendar.MonthLabel(first),
		LeadingBlanks: (int(first.Weekday()) + 6) % 7,
	}

	today := calendar.Format(calendar.StartOfDay(now))
	start, end := p.Start(), p.End()
	ms := milestones(&p.Dates)

	days := calendar.DaysIn(year, month)
	grid.Days = make([]Day, 0, days)
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		day := Day{Date: calendar.Format(date), Day: d, Treatment: TreatmentNone}
		day.InRange = p.Scheduled() && !date.Before(start) && !date.After(end)

		var milestone MilestoneKind
		for _, m := range ms {
			if m.date != "" && calendar.Format(calendar.Parse(m.date)) == day.Date {
				milestone = m.kind
				break
			}
		}

		switch {
		case day.Date == today:
			day.Treatment = TreatmentToday
		case day.Date == calendar.Format(start) || day.Date == calendar.Format(end):
			day.Treatment = TreatmentBoundary
		case milestone != "":
			day.Treatment = TreatmentMilestone
			day.Milestone = milestone
		case day.InRange:
			day.Treatment = TreatmentInRange
		}

		if day.Treatment == TreatmentMilestone {
			day.Style = "ring-2 " + milestoneRing(milestone)
		} else {
			day.Style = treatmentStyles[day.Treatment]
		}
		grid.Days = append(grid.Days, day)
	}
	return grid
}

func milestoneRing(kind MilestoneKind) string {
	switch kind {
	case MilestoneMounting:
		return "ring-yellow-400"
	case MilestoneElectric:
		return "ring-orange-400"
	}
	return "ring-purple-400"
}
