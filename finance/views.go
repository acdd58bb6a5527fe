package finance

import (
	"strings"
	"studioboard/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/shopspring/decimal"
)

const (
	// FirstProjectNumber is the display number of the first listed project.
	FirstProjectNumber = 150

	missingPaymentDetails     = "Реквизиты не заполнены"
	missingArchitectRequisite = "Реквизиты не указаны"
)

type LedgerRow struct {
	Number    int                      `json:"number"`
	ProjectID types.ID                 `json:"projectId"`
	Name      string                   `json:"name"`
	Inputs    domain.ProjectFinancials `json:"financials"`
	Breakdown Breakdown                `json:"breakdown"`

	ArchitectName           string `json:"architectName"`
	ArchitectPaymentDetails string `json:"architectPaymentDetails"`
	PrepaymentRecipient     string `json:"prepaymentRecipient"`
	PaymentRecipient        string `json:"paymentRecipient"`
	Paid                    bool   `json:"paid"`
}

type Ledger struct {
	Rows []LedgerRow `json:"rows"`
	// Architects are the users a payment may be assigned to.
	Architects []domain.UserCard `json:"architects"`
}

// BuildLedger is the administrator finance table, numbered in input order.
func BuildLedger(projects []domain.Project, users []domain.User) Ledger {
	dir := domain.NewDirectory(users)
	ledger := Ledger{Rows: make([]LedgerRow, 0, len(projects)), Architects: []domain.UserCard{}}
	for _, u := range domain.UsersWithRole(users, domain.RoleArchitect) {
		ledger.Architects = append(ledger.Architects, u.Card())
	}

	for i, p := range projects {
		row := LedgerRow{
			Number:              FirstProjectNumber + i,
			ProjectID:           p.ID,
			Name:                p.Name,
			Inputs:              p.Financials,
			Breakdown:           Split(p.Financials),
			ArchitectName:       dir.NameOrUnassigned(p.ArchitectID),
			PrepaymentRecipient: dir.DisplayName(p.Financials.PrepaymentArchitectID),
			PaymentRecipient:    dir.DisplayName(p.Financials.PaymentArchitectID),
			Paid:                strings.TrimSpace(p.Financials.PaymentDate) != "",
		}
		row.ArchitectPaymentDetails = missingPaymentDetails
		if architect, ok := dir.Find(p.ArchitectID); ok && strings.TrimSpace(architect.PaymentDetails) != "" {
			row.ArchitectPaymentDetails = architect.PaymentDetails
		}
		ledger.Rows = append(ledger.Rows, row)
	}
	return ledger
}

// ArchitectCard is what a designer sees when paying an architect.
type ArchitectCard struct {
	ID             types.ID `json:"id"`
	FullName       string   `json:"fullName"`
	PhotoURL       string   `json:"photoUrl"`
	DOB            string   `json:"dob"`
	PaymentDetails string   `json:"paymentDetails"`
}

// Check is one project's figures as shown to a role. Figures a role may not
// see are nil and left out of the JSON.
type Check struct {
	Number    int      `json:"number"`
	ProjectID types.ID `json:"projectId"`
	Name      string   `json:"name"`
	Area      float64  `json:"area"`
	Paid      bool     `json:"paid"`

	CostPerMeterStudio *float64         `json:"costPerMeterStudio,omitempty"`
	TotalStudio        *decimal.Decimal `json:"totalStudio,omitempty"`
	BalanceStudio      *decimal.Decimal `json:"balanceStudio,omitempty"`
	CostPerMeterArch   *float64         `json:"costPerMeterArch,omitempty"`
	TotalArchitect     *decimal.Decimal `json:"totalArchitect,omitempty"`
	BalanceArchitect   *decimal.Decimal `json:"balanceArchitect,omitempty"`
	Prepayment         decimal.Decimal  `json:"prepayment"`

	PrepaymentRecipient *ArchitectCard `json:"prepaymentRecipient,omitempty"`
	PaymentRecipient    *ArchitectCard `json:"paymentRecipient,omitempty"`
	PrepaymentDate      *string        `json:"prepaymentDate,omitempty"`
	PaymentDate         *string        `json:"paymentDate,omitempty"`

	ArchitectName string         `json:"architectName"`
	DesignerName  string         `json:"designerName"`
	Architect     *ArchitectCard `json:"architect,omitempty"`
}

// BuildChecks renders the checks of projects for role. Studio figures are
// for designers and administrators, architect figures for architects and
// administrators. Payment recipients are hidden from architects. Payment
// dates and the architect's requisites are shown to designers.
func BuildChecks(projects []domain.Project, users []domain.User, role domain.Role) []Check {
	dir := domain.NewDirectory(users)
	studio := role == domain.RoleDesigner || role == domain.RoleAdmin
	architect := role == domain.RoleArchitect || role == domain.RoleAdmin

	checks := make([]Check, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		f := p.Financials
		b := Split(f)
		check := Check{
			Number:        FirstProjectNumber + i,
			ProjectID:     p.ID,
			Name:          p.Name,
			Area:          f.Area,
			Paid:          strings.TrimSpace(f.PaymentDate) != "",
			Prepayment:    b.Prepayment,
			ArchitectName: dir.NameOrUnassigned(p.ArchitectID),
			DesignerName:  dir.NameOrUnassigned(p.DesignerID),
		}
		if studio {
			check.CostPerMeterStudio = &f.CostPerMeterStudio
			check.TotalStudio = &b.TotalStudio
			check.BalanceStudio = &b.BalanceStudio
		}
		if architect {
			check.CostPerMeterArch = &f.CostPerMeterArch
			check.TotalArchitect = &b.TotalArchitect
			check.BalanceArchitect = &b.BalanceArchitect
		}
		if role != domain.RoleArchitect {
			check.PrepaymentRecipient = architectCard(dir, f.PrepaymentArchitectID)
			check.PaymentRecipient = architectCard(dir, f.PaymentArchitectID)
		}
		if role == domain.RoleDesigner {
			prepaymentDate, paymentDate := f.PrepaymentDate, f.PaymentDate
			check.PrepaymentDate = &prepaymentDate
			check.PaymentDate = &paymentDate
			check.Architect = architectCard(dir, p.ArchitectID)
		}
		checks = append(checks, check)
	}
	return checks
}

func architectCard(dir domain.Directory, id types.ID) *ArchitectCard {
	u, ok := dir.Find(id)
	if !ok {
		return nil
	}
	card := &ArchitectCard{ID: u.ID, FullName: u.DisplayName(), PhotoURL: u.PhotoURL, DOB: u.DOB,
		PaymentDetails: u.PaymentDetails}
	if strings.TrimSpace(card.PaymentDetails) == "" {
		card.PaymentDetails = missingArchitectRequisite
	}
	return card
}
