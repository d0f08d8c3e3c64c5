package payroll

import (
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ItemTotals is the classifier output: a period's pay items reduced to the
// four scalars the rest of the pipeline consumes.
type ItemTotals struct {
	Additions            decimal.Decimal // sum of positive amounts
	Deductions           decimal.Decimal // sum of absolute values of negative amounts
	TaxableAdjustment    decimal.Decimal // signed sum over taxable items
	ChargeableAdjustment decimal.Decimal // signed sum over social-chargeable items
}

// classifyItems partitions pay items by sign and by taxable/chargeable flag.
// Pure aggregation: empty input yields all-zero totals.
func classifyItems(items []payroll.PayItem) ItemTotals {
	var totals ItemTotals
	for _, it := range items {
		switch {
		case it.Amount.IsPositive():
			totals.Additions = totals.Additions.Add(it.Amount)
		case it.Amount.IsNegative():
			totals.Deductions = totals.Deductions.Add(it.Amount.Neg())
		}
		if it.Taxable {
			totals.TaxableAdjustment = totals.TaxableAdjustment.Add(it.Amount)
		}
		if it.SocialChargeable {
			totals.ChargeableAdjustment = totals.ChargeableAdjustment.Add(it.Amount)
		}
	}
	return totals
}
