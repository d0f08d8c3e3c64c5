package payroll

import (
	"time"

	"github.com/meridianhr/payroll-backend-go/internal/domain/employee"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Reconcile independently recomputes the payroll and compares the net salary
// against a previously accepted figure. The discrepancy is signed as
// computed minus expected; a match means its absolute value is within the
// calculator's tolerance. Read-only verification: nothing is stored.
func (c *Calculator) Reconcile(
	emp employee.Employee,
	items []payroll.PayItem,
	params payroll.PayrollParameters,
	refDate time.Time,
	expectedNet decimal.Decimal,
) (payroll.ReconciliationResult, error) {
	result, err := c.Calculate(emp, items, params, refDate)
	if err != nil {
		return payroll.ReconciliationResult{}, err
	}

	discrepancy := result.NetSalary.Sub(expectedNet)
	return payroll.ReconciliationResult{
		EmployeeID:  emp.ID,
		Matches:     discrepancy.Abs().LessThanOrEqual(c.tolerance),
		Discrepancy: discrepancy,
		ExpectedNet: expectedNet,
		ComputedNet: result.NetSalary,
	}, nil
}
