package timeline

import (
	"studioboard/calendar"
	"studioboard/domain"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Milestone struct {
	Kind     MilestoneKind `json:"kind"`
	Date     string        `json:"date"`
	Position float64       `json:"position"`
	Style    string        `json:"style"`
}

// Row is the bar of one project. Unscheduled rows carry zero geometry.
type Row struct {
	ProjectID       types.ID     `json:"projectId"`
	Name            string       `json:"name"`
	Stage           domain.Stage `json:"stage"`
	Left            float64      `json:"leftPercent"`
	Width           float64      `json:"widthPercent"`
	ColorClass      string       `json:"colorClass"`
	OverlayLabel    string       `json:"overlayLabel"`
	CounterpartName string       `json:"counterpartName"`
	Unscheduled     bool         `json:"unscheduled"`
	Milestones      []Milestone  `json:"milestones"`
}

type Gridline struct {
	Month    string  `json:"month"`
	Label    string  `json:"label"`
	Position float64 `json:"position"`
}

type Chart struct {
	Window    Window     `json:"window"`
	Rows      []Row      `json:"rows"`
	Gridlines []Gridline `json:"gridlines"`
	Today     *float64   `json:"today"`
}

// Render lays out projects, in input order, on window w. The name shown on a
// bar depends on who looks at it: designers see the architect, everybody
// else sees the designer.
func Render(w Window, projects []domain.Project, dir domain.Directory, viewer *domain.User, now time.Time) Chart {
	chart := Chart{Window: w, Rows: make([]Row, 0, len(projects)), Gridlines: []Gridline{}}

	for i := range projects {
		chart.Rows = append(chart.Rows, renderRow(w, &projects[i], dir, viewer))
	}

	for _, month := range calendar.EnumerateMonths(w.Start, w.End) {
		position := w.Position(month)
		if !Contains(position) {
			continue
		}
		chart.Gridlines = append(chart.Gridlines, Gridline{
			Month: month.Format(calendar.MonthLayout), Label: calendar.MonthLabel(month), Position: position,
		})
	}

	if today := w.Position(now); Contains(today) {
		chart.Today = &today
	}
	return chart
}

func renderRow(w Window, p *domain.Project, dir domain.Directory, viewer *domain.User) Row {
	row := Row{
		ProjectID:       p.ID,
		Name:            p.Name,
		Stage:           p.Stage,
		ColorClass:      StageStyle(p.Stage),
		OverlayLabel:    string(p.Stage),
		CounterpartName: counterpartName(p, dir, viewer),
		Milestones:      []Milestone{},
	}
	if !p.Scheduled() {
		row.Unscheduled = true
		return row
	}
	row.Left = w.Position(p.Start())
	row.Width = w.Width(p.Start(), p.End())

	for _, m := range milestones(&p.Dates) {
		date := calendar.Parse(m.date)
		if !calendar.Valid(date) {
			continue
		}
		position := w.Position(date)
		if !Contains(position) {
			continue
		}
		row.Milestones = append(row.Milestones, Milestone{
			Kind: m.kind, Date: calendar.Format(date), Position: position, Style: milestoneStyles[m.kind],
		})
	}
	return row
}

func counterpartName(p *domain.Project, dir domain.Directory, viewer *domain.User) string {
	if viewer != nil && viewer.Role == domain.RoleDesigner {
		return dir.DisplayName(p.ArchitectID)
	}
	return dir.DisplayName(p.DesignerID)
}
