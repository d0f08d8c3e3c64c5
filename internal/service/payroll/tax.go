package payroll

import (
	"github.com/meridianhr/payroll-backend-go/internal/domain/employee"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// dependentAbatement is the flat per-head reduction of taxable income:
// spouses, children and other charges each at their own parameter rate.
func dependentAbatement(emp employee.Employee, params payroll.PayrollParameters) decimal.Decimal {
	abatement := decimal.NewFromInt(int64(emp.Spouses)).Mul(params.SpouseAbatement)
	abatement = abatement.Add(decimal.NewFromInt(int64(emp.Children)).Mul(params.ChildAbatement))
	abatement = abatement.Add(decimal.NewFromInt(int64(emp.OtherDependents)).Mul(params.OtherAbatement))
	return abatement
}

// incomeTax applies the dependent abatement, then walks the marginal bracket
// table. Each slice of income is taxed at its own bracket's rate only, never
// the whole amount at the top rate. The result is rounded to the nearest
// whole currency unit.
//
// The bracket table must already be validated (ascending, contiguous, last
// bracket unbounded); a malformed table is a configuration error caught at
// load time, not here.
func incomeTax(taxableAmount decimal.Decimal, emp employee.Employee, params payroll.PayrollParameters) decimal.Decimal {
	taxableBase := taxableAmount.Sub(dependentAbatement(emp, params))
	return progressiveTax(taxableBase, params.TaxBrackets)
}

func progressiveTax(taxableBase decimal.Decimal, brackets []payroll.TaxBracket) decimal.Decimal {
	if !taxableBase.IsPositive() {
		return decimal.Zero
	}

	tax := decimal.Zero
	lower := decimal.Zero
	for _, b := range brackets {
		upper := taxableBase
		if b.UpperBound != nil && b.UpperBound.LessThan(taxableBase) {
			upper = *b.UpperBound
		}
		if upper.GreaterThan(lower) {
			tax = tax.Add(upper.Sub(lower).Mul(b.Rate))
		}
		if b.UpperBound == nil || !b.UpperBound.LessThan(taxableBase) {
			break
		}
		lower = *b.UpperBound
	}
	return tax.Round(0)
}
