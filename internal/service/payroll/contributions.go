package payroll

import (
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// cappedContribution computes min(base, cap) * rate rounded to the currency
// exponent. A negative base is clamped to zero before capping, so the result
// is always in [0, cap*rate].
func cappedContribution(base decimal.Decimal, rule payroll.ContributionRule, exponent int32) decimal.Decimal {
	if base.IsNegative() {
		base = decimal.Zero
	}
	if base.GreaterThan(rule.Cap) {
		base = rule.Cap
	}
	return base.Mul(rule.Rate).Round(exponent)
}
