package payroll

import (
	"time"

	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// yearsOfService counts whole calendar years between hireDate and ref: the
// employee reaches N full years only once the hire anniversary has recurred
// N times. Calendar-field subtraction, never a fixed-day divisor, which
// drifts near leap years.
func yearsOfService(hireDate, ref time.Time) int {
	years := ref.Year() - hireDate.Year()
	if years < 0 {
		return 0
	}
	if hireDate.AddDate(years, 0, 0).After(ref) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// seniorityBonus looks up the tier containing years of service and applies
// its rate to base salary. No matching tier means no bonus.
func seniorityBonus(baseSalary decimal.Decimal, years int, params payroll.PayrollParameters) decimal.Decimal {
	tier := params.TierFor(years)
	if tier == nil {
		return decimal.Zero
	}
	return baseSalary.Mul(tier.Rate).Round(params.CurrencyExponent)
}

// overtimePay derives pay from hours at the premium multiplier. The hourly
// rate comes from base salary over the nominal monthly hours unless the item
// carries an explicit rate. Non-positive hours yield zero; fractional hours
// are taken as given.
func overtimePay(baseSalary, hours decimal.Decimal, hourlyRate *decimal.Decimal, params payroll.PayrollParameters) decimal.Decimal {
	if !hours.IsPositive() {
		return decimal.Zero
	}
	rate := baseSalary.Div(params.NominalMonthlyHours)
	if hourlyRate != nil {
		rate = *hourlyRate
	}
	return hours.Mul(rate).Mul(params.OvertimePremium).Round(params.CurrencyExponent)
}
