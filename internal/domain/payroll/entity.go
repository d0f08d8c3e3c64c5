package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayItemKind enum
type PayItemKind string

const (
	PayItemKindOvertime  PayItemKind = "overtime"
	PayItemKindAbsence   PayItemKind = "absence"
	PayItemKindBonus     PayItemKind = "bonus"
	PayItemKindAllowance PayItemKind = "allowance"
	PayItemKindDeduction PayItemKind = "deduction"
	PayItemKindAdvance   PayItemKind = "advance"
	PayItemKindOther     PayItemKind = "other"
)

// ValidPayItemKinds lists every accepted kind, for request validation.
var ValidPayItemKinds = []PayItemKind{
	PayItemKindOvertime,
	PayItemKindAbsence,
	PayItemKindBonus,
	PayItemKindAllowance,
	PayItemKindDeduction,
	PayItemKindAdvance,
	PayItemKindOther,
}

// PayItem is one variable pay element for an employee in one period.
// Amounts are signed: additions positive, deductions negative.
//
// Overtime items may carry Hours (and optionally an HourlyRate override)
// instead of an entered amount; the engine derives the amount from the
// employee's base salary and the effective overtime premium.
type PayItem struct {
	ID               string
	EmployeeID       string
	PeriodMonth      int
	PeriodYear       int
	Kind             PayItemKind
	Label            string
	Amount           decimal.Decimal
	Taxable          bool
	SocialChargeable bool
	Hours            *decimal.Decimal
	HourlyRate       *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsDerivedOvertime reports whether the item's amount must be derived from
// hours rather than taken as entered.
func (p PayItem) IsDerivedOvertime() bool {
	return p.Kind == PayItemKindOvertime && p.Amount.IsZero() && p.Hours != nil
}
