// Package finance derives the money figures of a project from its area and
// per-meter rates. Arithmetic is exact decimal, no rounding is applied.
package finance

import (
	"studioboard/domain"

	"github.com/shopspring/decimal"
)

// PrepaymentRate is the share of the studio total paid upfront.
var PrepaymentRate = decimal.RequireFromString("0.3")

type Breakdown struct {
	TotalStudio      decimal.Decimal `json:"totalStudio"`
	TotalArchitect   decimal.Decimal `json:"totalArchitect"`
	Prepayment       decimal.Decimal `json:"prepayment"`
	BalanceStudio    decimal.Decimal `json:"balanceStudio"`
	BalanceArchitect decimal.Decimal `json:"balanceArchitect"`
}

// Split computes both tracks. The architect balance is reduced by the studio
// prepayment, not by a prepayment of its own.
func Split(f domain.ProjectFinancials) Breakdown {
	area := decimal.NewFromFloat(f.Area)
	totalStudio := area.Mul(decimal.NewFromFloat(f.CostPerMeterStudio))
	totalArchitect := area.Mul(decimal.NewFromFloat(f.CostPerMeterArch))
	prepayment := totalStudio.Mul(PrepaymentRate)
	return Breakdown{
		TotalStudio:      totalStudio,
		TotalArchitect:   totalArchitect,
		Prepayment:       prepayment,
		BalanceStudio:    totalStudio.Sub(prepayment),
		BalanceArchitect: totalArchitect.Sub(prepayment),
	}
}
