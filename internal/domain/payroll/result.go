package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResultStatus enum. Transitions are application workflow; the engine only
// ever produces results in the calculated state.
type ResultStatus string

const (
	ResultStatusDraft      ResultStatus = "draft"
	ResultStatusCalculated ResultStatus = "calculated"
	ResultStatusValidated  ResultStatus = "validated"
	ResultStatusPaid       ResultStatus = "paid"
)

// Breakdown names every sub-amount contributing to a result, for audit and
// payslip display. The amounts are informational: they are already folded
// into the result totals.
type Breakdown struct {
	SeniorityBonus  decimal.Decimal            `json:"seniority_bonus"`
	OvertimePay     decimal.Decimal            `json:"overtime_pay"`
	Gains           map[string]decimal.Decimal `json:"gains"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	EmployerCharges map[string]decimal.Decimal `json:"employer_charges"`
}

// PayrollResult is one reconciled gross-to-net calculation for one employee
// and period. Results are immutable: recomputation produces a new value that
// supersedes the stored one, never a mutation in place.
type PayrollResult struct {
	ID                     string
	EmployeeID             string
	PeriodMonth            int
	PeriodYear             int
	BaseSalary             decimal.Decimal
	TotalAdditions         decimal.Decimal
	TotalDeductions        decimal.Decimal
	GrossSalary            decimal.Decimal
	TaxableAmount          decimal.Decimal
	SocialChargeableAmount decimal.Decimal
	EmployeeSocialCharges  decimal.Decimal
	EmployerSocialCharges  decimal.Decimal
	IncomeTax              decimal.Decimal
	NetSalary              decimal.Decimal
	EmployerTotalCost      decimal.Decimal
	Breakdown              Breakdown
	Status                 ResultStatus
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// ReconciliationResult reports one net-salary drift check. A mismatch is
// data, not an error.
type ReconciliationResult struct {
	EmployeeID  string
	Matches     bool
	Discrepancy decimal.Decimal
	ExpectedNet decimal.Decimal
	ComputedNet decimal.Decimal
}

// BatchReconciliation aggregates a period-wide drift check. Failures hold
// tolerance breaches; Errors hold per-employee input problems that were
// skipped without aborting the rest of the batch.
type BatchReconciliation struct {
	PeriodMonth int
	PeriodYear  int
	PassCount   int
	FailCount   int
	Failures    []ReconciliationResult
	Errors      []BatchEmployeeError
}

// BatchEmployeeError records why one employee was skipped during a batch run.
type BatchEmployeeError struct {
	EmployeeID string
	Message    string
}
