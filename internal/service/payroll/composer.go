package payroll

import (
	"time"

	"github.com/meridianhr/payroll-backend-go/internal/domain/employee"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Breakdown line labels for engine-generated amounts.
const (
	labelSeniorityBonus = "seniority_bonus"
	labelEmployeeSocial = "employee_social_contributions"
	labelEmployerSocial = "employer_social_contributions"
	labelIncomeTax      = "income_tax"
)

// Calculate runs the full gross-to-net pipeline for one employee and one
// period: classification, capped social contributions, progressive tax,
// seniority bonus and overtime, then breakdown assembly.
//
// The rounding policy is fixed: every named sub-amount is rounded to the
// parameter set's currency exponent, and the tax line to the nearest whole
// currency unit. Identical inputs always produce an identical result.
func (c *Calculator) Calculate(
	emp employee.Employee,
	items []payroll.PayItem,
	params payroll.PayrollParameters,
	refDate time.Time,
) (payroll.PayrollResult, error) {
	if err := params.Validate(); err != nil {
		return payroll.PayrollResult{}, err
	}
	if err := emp.ValidatePayrollInput(); err != nil {
		return payroll.PayrollResult{}, err
	}

	exp := params.CurrencyExponent
	base := emp.BaseSalary.Round(exp)

	// Materialize derived amounts before classification so they flow
	// through every downstream total: overtime items entered as hours, and
	// the tenure bonus, which is not a stored pay item at all.
	resolved := make([]payroll.PayItem, 0, len(items)+1)
	overtimeTotal := decimal.Zero
	for _, it := range items {
		if it.IsDerivedOvertime() {
			it.Amount = overtimePay(base, *it.Hours, it.HourlyRate, params)
		}
		if it.Kind == payroll.PayItemKindOvertime {
			overtimeTotal = overtimeTotal.Add(it.Amount)
		}
		resolved = append(resolved, it)
	}

	years := yearsOfService(emp.HireDate, refDate)
	bonus := seniorityBonus(base, years, params)
	if bonus.IsPositive() {
		resolved = append(resolved, payroll.PayItem{
			Kind:             payroll.PayItemKindBonus,
			Label:            labelSeniorityBonus,
			Amount:           bonus,
			Taxable:          true,
			SocialChargeable: true,
		})
	}

	totals := classifyItems(resolved)

	gross := base.Add(totals.Additions).Sub(totals.Deductions).Round(exp)
	chargeable := gross.Add(totals.ChargeableAdjustment).Round(exp)

	employeeCharges := cappedContribution(chargeable, params.EmployeeContribution, exp)
	employerCharges := cappedContribution(chargeable, params.EmployerContribution, exp)

	taxable := gross.Add(totals.TaxableAdjustment).Sub(employeeCharges).Round(exp)
	tax := incomeTax(taxable, emp, params)

	net := gross.Sub(employeeCharges).Sub(tax).Round(exp)
	employerCost := gross.Add(employerCharges).Round(exp)

	return payroll.PayrollResult{
		EmployeeID:             emp.ID,
		BaseSalary:             base,
		TotalAdditions:         totals.Additions.Round(exp),
		TotalDeductions:        totals.Deductions.Round(exp),
		GrossSalary:            gross,
		TaxableAmount:          taxable,
		SocialChargeableAmount: chargeable,
		EmployeeSocialCharges:  employeeCharges,
		EmployerSocialCharges:  employerCharges,
		IncomeTax:              tax,
		NetSalary:              net,
		EmployerTotalCost:      employerCost,
		Breakdown:              assembleBreakdown(resolved, bonus, overtimeTotal, employeeCharges, employerCharges, tax),
		Status:                 payroll.ResultStatusCalculated,
	}, nil
}

// assembleBreakdown names every contributing sub-amount for audit and
// payslip display. The amounts are informational; they are already folded
// into the result totals.
func assembleBreakdown(
	items []payroll.PayItem,
	bonus, overtime, employeeCharges, employerCharges, tax decimal.Decimal,
) payroll.Breakdown {
	gains := make(map[string]decimal.Decimal)
	deductions := make(map[string]decimal.Decimal)

	for _, it := range items {
		label := it.Label
		if label == "" {
			label = string(it.Kind)
		}
		switch {
		case it.Amount.IsPositive():
			gains[label] = gains[label].Add(it.Amount)
		case it.Amount.IsNegative():
			deductions[label] = deductions[label].Add(it.Amount.Neg())
		}
	}

	deductions[labelEmployeeSocial] = employeeCharges
	deductions[labelIncomeTax] = tax

	return payroll.Breakdown{
		SeniorityBonus: bonus,
		OvertimePay:    overtime,
		Gains:          gains,
		Deductions:     deductions,
		EmployerCharges: map[string]decimal.Decimal{
			labelEmployerSocial: employerCharges,
		},
	}
}
