package domain

import (
	"math"
	"strings"
	"studioboard/bizerror"
	"studioboard/calendar"
	"time"

	"github.com/fundwit/go-commons/types"
)

// ProjectDates holds the named milestone dates, "" when unset.
type ProjectDates struct {
	Mounting string `json:"mounting"`
	Electric string `json:"electric"`
	Edit1    string `json:"edit1"`
	Edit2    string `json:"edit2"`
	Edit3    string `json:"edit3"`
}

type ProjectLinks struct {
	Source  string `json:"source"`
	Visuals string `json:"visuals"`
	Tor     string `json:"tor"`
	PDF     string `json:"pdf"`
	DWG     string `json:"dwg"`
	HVAC    string `json:"hvac"`
}

type ProjectFinancials struct {
	Area               float64 `json:"area"`
	CostPerMeterStudio float64 `json:"costPerMeterStudio"`
	CostPerMeterArch   float64 `json:"costPerMeterArch"`
	PrepaymentDate     string  `json:"prepaymentDate"`
	PaymentDate        string  `json:"paymentDate"`

	PrepaymentArchitectID types.ID `json:"prepaymentArchitectId"`
	PaymentArchitectID    types.ID `json:"paymentArchitectId"`
}

// Project always carries fully shaped Dates, Links and Financials: they are
// value fields stored as embedded column groups.
type Project struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Stage     Stage  `json:"stage"`

	ArchitectID types.ID `json:"architectId"`
	DesignerID  types.ID `json:"designerId"`

	Dates      ProjectDates      `json:"dates" gorm:"embedded;embedded_prefix:date_"`
	Links      ProjectLinks      `json:"links" gorm:"embedded;embedded_prefix:link_"`
	Financials ProjectFinancials `json:"financials" gorm:"embedded;embedded_prefix:fin_"`

	CoverPhotoURL string `json:"coverPhotoUrl"`
	TechnicalTask string `json:"technicalTask" sql:"type:TEXT"`
	Notes         string `json:"notes" sql:"type:TEXT"`

	CreateTime time.Time `json:"createTime"`
}

func (p *Project) Start() time.Time {
	return calendar.Parse(p.StartDate)
}

func (p *Project) End() time.Time {
	return calendar.Parse(p.EndDate)
}

// Scheduled reports whether both bounds of the project parse.
func (p *Project) Scheduled() bool {
	return calendar.Valid(p.Start()) && calendar.Valid(p.End())
}

// Validate checks a full record before it reaches the store.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalidProject("name", "must not be blank")
	}
	if !calendar.Valid(p.Start()) {
		return invalidProject("startDate", "must be a date like 2006-01-02")
	}
	if !calendar.Valid(p.End()) {
		return invalidProject("endDate", "must be a date like 2006-01-02")
	}
	if !p.Stage.Valid() {
		return invalidProject("stage", "unknown stage '"+string(p.Stage)+"'")
	}
	dates := []struct{ field, value string }{
		{"dates.mounting", p.Dates.Mounting}, {"dates.electric", p.Dates.Electric},
		{"dates.edit1", p.Dates.Edit1}, {"dates.edit2", p.Dates.Edit2}, {"dates.edit3", p.Dates.Edit3},
		{"financials.prepaymentDate", p.Financials.PrepaymentDate}, {"financials.paymentDate", p.Financials.PaymentDate},
	}
	for _, d := range dates {
		if !calendar.IsDate(d.value) {
			return invalidProject(d.field, "must be empty or a date like 2006-01-02")
		}
	}
	amounts := []struct {
		field string
		value float64
	}{
		{"financials.area", p.Financials.Area},
		{"financials.costPerMeterStudio", p.Financials.CostPerMeterStudio},
		{"financials.costPerMeterArch", p.Financials.CostPerMeterArch},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) || a.value < 0 {
			return invalidProject(a.field, "must be a non-negative number")
		}
	}
	return nil
}

func invalidProject(field, reason string) error {
	return &bizerror.ErrInvalidRecord{Entity: "project", Field: field, Reason: reason}
}

type ProjectCreation struct {
	Name        string   `json:"name" binding:"required,lte=200"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Stage       Stage    `json:"stage"`
	ArchitectID types.ID `json:"architectId"`
	DesignerID  types.ID `json:"designerId"`

	Dates      ProjectDates      `json:"dates"`
	Links      ProjectLinks      `json:"links"`
	Financials ProjectFinancials `json:"financials"`

	TechnicalTask string `json:"technicalTask"`
	Notes         string `json:"notes"`
}

const DefaultProjectDays = 30

// NewProject builds a full record from a creation request. A new project is
// queued and runs from today for DefaultProjectDays unless told otherwise.
func NewProject(id types.ID, c *ProjectCreation, now time.Time) Project {
	p := Project{
		ID: id, Name: c.Name, StartDate: c.StartDate, EndDate: c.EndDate, Stage: c.Stage,
		ArchitectID: c.ArchitectID, DesignerID: c.DesignerID,
		Dates: c.Dates, Links: c.Links, Financials: c.Financials,
		TechnicalTask: c.TechnicalTask, Notes: c.Notes,
		CreateTime: now,
	}
	today := calendar.StartOfDay(now)
	if strings.TrimSpace(p.StartDate) == "" {
		p.StartDate = today.Format(calendar.DateLayout)
	}
	if strings.TrimSpace(p.EndDate) == "" {
		p.EndDate = calendar.Pad(today, DefaultProjectDays, calendar.Later).Format(calendar.DateLayout)
	}
	if p.Stage == "" {
		p.Stage = StageQueue
	}
	return p
}
