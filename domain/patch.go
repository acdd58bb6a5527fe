package domain

import (
	"github.com/fundwit/go-commons/types"
)

type ProjectDatesPatch struct {
	Mounting *string `json:"mounting"`
	Electric *string `json:"electric"`
	Edit1    *string `json:"edit1"`
	Edit2    *string `json:"edit2"`
	Edit3    *string `json:"edit3"`
}

type ProjectLinksPatch struct {
	Source  *string `json:"source"`
	Visuals *string `json:"visuals"`
	Tor     *string `json:"tor"`
	PDF     *string `json:"pdf"`
	DWG     *string `json:"dwg"`
	HVAC    *string `json:"hvac"`
}

type ProjectFinancialsPatch struct {
	Area               *float64 `json:"area"`
	CostPerMeterStudio *float64 `json:"costPerMeterStudio"`
	CostPerMeterArch   *float64 `json:"costPerMeterArch"`
	PrepaymentDate     *string  `json:"prepaymentDate"`
	PaymentDate        *string  `json:"paymentDate"`

	PrepaymentArchitectID *types.ID `json:"prepaymentArchitectId"`
	PaymentArchitectID    *types.ID `json:"paymentArchitectId"`
}

// ProjectPatch is a typed partial update of a project. Nil fields are left
// untouched; sub-record patches merge field by field onto the stored record
// so the result is always fully shaped.
type ProjectPatch struct {
	Name        *string   `json:"name"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	Stage       *Stage    `json:"stage"`
	ArchitectID *types.ID `json:"architectId"`
	DesignerID  *types.ID `json:"designerId"`

	Dates      *ProjectDatesPatch      `json:"dates"`
	Links      *ProjectLinksPatch      `json:"links"`
	Financials *ProjectFinancialsPatch `json:"financials"`

	CoverPhotoURL *string `json:"coverPhotoUrl"`
	TechnicalTask *string `json:"technicalTask"`
	Notes         *string `json:"notes"`
}

// FieldGroup partitions project fields by who may edit them.
type FieldGroup string

const (
	// FieldGroupAdministrative: name, participants, notes, financials, cover photo.
	FieldGroupAdministrative FieldGroup = "administrative"
	// FieldGroupSchedule: start/end dates, stage, milestone dates.
	FieldGroupSchedule FieldGroup = "schedule"
	// FieldGroupResources: links and the technical brief.
	FieldGroupResources FieldGroup = "resources"
)

var editableGroups = map[Role][]FieldGroup{
	RoleAdmin:     {FieldGroupAdministrative, FieldGroupSchedule, FieldGroupResources},
	RoleArchitect: {FieldGroupSchedule, FieldGroupResources},
	RoleDesigner:  {FieldGroupResources},
}

func (r Role) CanEdit(group FieldGroup) bool {
	for _, g := range editableGroups[r] {
		if g == group {
			return true
		}
	}
	return false
}

// Groups lists the field groups the patch touches.
func (p *ProjectPatch) Groups() []FieldGroup {
	var groups []FieldGroup
	if p.Name != nil || p.ArchitectID != nil || p.DesignerID != nil || p.Financials != nil ||
		p.CoverPhotoURL != nil || p.Notes != nil {
		groups = append(groups, FieldGroupAdministrative)
	}
	if p.StartDate != nil || p.EndDate != nil || p.Stage != nil || p.Dates != nil {
		groups = append(groups, FieldGroupSchedule)
	}
	if p.Links != nil || p.TechnicalTask != nil {
		groups = append(groups, FieldGroupResources)
	}
	return groups
}

// PermittedFor reports whether role may apply every part of the patch.
func (p *ProjectPatch) PermittedFor(role Role) bool {
	for _, g := range p.Groups() {
		if !role.CanEdit(g) {
			return false
		}
	}
	return true
}

func (p *ProjectPatch) ApplyTo(project Project) Project {
	setString(&project.Name, p.Name)
	setString(&project.StartDate, p.StartDate)
	setString(&project.EndDate, p.EndDate)
	if p.Stage != nil {
		project.Stage = *p.Stage
	}
	setID(&project.ArchitectID, p.ArchitectID)
	setID(&project.DesignerID, p.DesignerID)
	setString(&project.CoverPhotoURL, p.CoverPhotoURL)
	setString(&project.TechnicalTask, p.TechnicalTask)
	setString(&project.Notes, p.Notes)

	if d := p.Dates; d != nil {
		setString(&project.Dates.Mounting, d.Mounting)
		setString(&project.Dates.Electric, d.Electric)
		setString(&project.Dates.Edit1, d.Edit1)
		setString(&project.Dates.Edit2, d.Edit2)
		setString(&project.Dates.Edit3, d.Edit3)
	}
	if l := p.Links; l != nil {
		setString(&project.Links.Source, l.Source)
		setString(&project.Links.Visuals, l.Visuals)
		setString(&project.Links.Tor, l.Tor)
		setString(&project.Links.PDF, l.PDF)
		setString(&project.Links.DWG, l.DWG)
		setString(&project.Links.HVAC, l.HVAC)
	}
	if f := p.Financials; f != nil {
		setFloat(&project.Financials.Area, f.Area)
		setFloat(&project.Financials.CostPerMeterStudio, f.CostPerMeterStudio)
		setFloat(&project.Financials.CostPerMeterArch, f.CostPerMeterArch)
		setString(&project.Financials.PrepaymentDate, f.PrepaymentDate)
		setString(&project.Financials.PaymentDate, f.PaymentDate)
		setID(&project.Financials.PrepaymentArchitectID, f.PrepaymentArchitectID)
		setID(&project.Financials.PaymentArchitectID, f.PaymentArchitectID)
	}
	return project
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setID(dst *types.ID, v *types.ID) {
	if v != nil {
		*dst = *v
	}
}
