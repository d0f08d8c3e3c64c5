package payroll

import (
	"time"

	"github.com/meridianhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculateRequest struct {
	EmployeeID    string  `json:"employee_id"`
	PeriodMonth   int     `json:"period_month"`
	PeriodYear    int     `json:"period_year"`
	ReferenceDate *string `json:"reference_date,omitempty"` // YYYY-MM-DD, defaults to last day of period
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = appendPeriodErrors(errs, r.PeriodMonth, r.PeriodYear)
	if r.ReferenceDate != nil {
		if _, ok := validator.IsValidDate(*r.ReferenceDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "reference_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalculateBatchRequest struct {
	PeriodMonth   int      `json:"period_month"`
	PeriodYear    int      `json:"period_year"`
	EmployeeIDs   []string `json:"employee_ids,omitempty"` // empty means every active employee
	ReferenceDate *string  `json:"reference_date,omitempty"`
}

func (r *CalculateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = appendPeriodErrors(errs, r.PeriodMonth, r.PeriodYear)
	if r.ReferenceDate != nil {
		if _, ok := validator.IsValidDate(*r.ReferenceDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "reference_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RECONCILIATION DTOs ==========

type ReconcileRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	// ExpectedNet overrides the stored result's net salary when set.
	ExpectedNet *decimal.Decimal `json:"expected_net,omitempty"`
}

func (r *ReconcileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = appendPeriodErrors(errs, r.PeriodMonth, r.PeriodYear)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReconcileBatchRequest struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
}

func (r *ReconcileBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = appendPeriodErrors(errs, r.PeriodMonth, r.PeriodYear)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReconciliationResponse struct {
	EmployeeID  string          `json:"employee_id"`
	Matches     bool            `json:"matches"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
	ExpectedNet decimal.Decimal `json:"expected_net"`
	ComputedNet decimal.Decimal `json:"computed_net"`
}

type BatchEmployeeErrorResponse struct {
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

type BatchReconciliationResponse struct {
	PeriodMonth int                          `json:"period_month"`
	PeriodYear  int                          `json:"period_year"`
	PassCount   int                          `json:"pass_count"`
	FailCount   int                          `json:"fail_count"`
	Failures    []ReconciliationResponse     `json:"failures"`
	Errors      []BatchEmployeeErrorResponse `json:"errors"`
}

type BatchCalculationResponse struct {
	PeriodMonth int                          `json:"period_month"`
	PeriodYear  int                          `json:"period_year"`
	Results     []PayrollResultResponse      `json:"results"`
	Errors      []BatchEmployeeErrorResponse `json:"errors"`
}

// ========== PAY ITEM DTOs ==========

type CreatePayItemRequest struct {
	EmployeeID       string           `json:"employee_id"`
	PeriodMonth      int              `json:"period_month"`
	PeriodYear       int              `json:"period_year"`
	Kind             string           `json:"kind"`
	Label            string           `json:"label"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	Taxable          bool             `json:"taxable"`
	SocialChargeable bool             `json:"social_chargeable"`
	Hours            *decimal.Decimal `json:"hours,omitempty"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`
}

// A missing amount is rejected here rather than defaulted to zero, except
// for overtime items whose amount is derived from hours.
func (r *CreatePayItemRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = appendPeriodErrors(errs, r.PeriodMonth, r.PeriodYear)

	kindValid := false
	for _, k := range ValidPayItemKinds {
		if PayItemKind(r.Kind) == k {
			kindValid = true
			break
		}
	}
	if !kindValid {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "is not a recognized pay item kind"})
	}
	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "is required"})
	}
	if r.Amount == nil && !(PayItemKind(r.Kind) == PayItemKindOvertime && r.Hours != nil) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "is required unless overtime hours are provided"})
	}
	if r.Hours != nil && r.Hours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be non-negative"})
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayItemResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	PeriodMonth      int              `json:"period_month"`
	PeriodYear       int              `json:"period_year"`
	Kind             string           `json:"kind"`
	Label            string           `json:"label"`
	Amount           decimal.Decimal  `json:"amount"`
	Taxable          bool             `json:"taxable"`
	SocialChargeable bool             `json:"social_chargeable"`
	Hours            *decimal.Decimal `json:"hours,omitempty"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`
}

// ========== RESULT DTOs ==========

type PayrollResultResponse struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employee_id"`
	EmployeeName           string          `json:"employee_name,omitempty"`
	EmployeeCode           string          `json:"employee_code,omitempty"`
	PeriodMonth            int             `json:"period_month"`
	PeriodYear             int             `json:"period_year"`
	BaseSalary             decimal.Decimal `json:"base_salary"`
	TotalAdditions         decimal.Decimal `json:"total_additions"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`
	GrossSalary            decimal.Decimal `json:"gross_salary"`
	TaxableAmount          decimal.Decimal `json:"taxable_amount"`
	SocialChargeableAmount decimal.Decimal `json:"social_chargeable_amount"`
	EmployeeSocialCharges  decimal.Decimal `json:"employee_social_charges"`
	EmployerSocialCharges  decimal.Decimal `json:"employer_social_charges"`
	IncomeTax              decimal.Decimal `json:"income_tax"`
	NetSalary              decimal.Decimal `json:"net_salary"`
	EmployerTotalCost      decimal.Decimal `json:"employer_total_cost"`
	Breakdown              Breakdown       `json:"breakdown"`
	Status                 string          `json:"status"`
}

// ========== PARAMETER DTOs ==========

type CreateParametersRequest struct {
	EffectiveFrom       string          `json:"effective_from"` // YYYY-MM-DD
	EffectiveTo         *string         `json:"effective_to,omitempty"`
	EmployeeRate        decimal.Decimal `json:"employee_rate"`
	EmployeeCap         decimal.Decimal `json:"employee_cap"`
	EmployerRate        decimal.Decimal `json:"employer_rate"`
	EmployerCap         decimal.Decimal `json:"employer_cap"`
	TaxBrackets         []TaxBracket    `json:"tax_brackets"`
	SeniorityTiers      []SeniorityTier `json:"seniority_tiers"`
	SpouseAbatement     decimal.Decimal `json:"spouse_abatement"`
	ChildAbatement      decimal.Decimal `json:"child_abatement"`
	OtherAbatement      decimal.Decimal `json:"other_abatement"`
	OvertimePremium     decimal.Decimal `json:"overtime_premium"`
	NominalMonthlyHours decimal.Decimal `json:"nominal_monthly_hours"`
	CurrencyExponent    int32           `json:"currency_exponent"`
}

func (r *CreateParametersRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be YYYY-MM-DD"})
	}
	if r.EffectiveTo != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "must be YYYY-MM-DD"})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	// Structural validation is shared with the load path.
	return r.ToParameters().Validate()
}

// ToParameters builds the domain value; Validate must have passed first.
func (r *CreateParametersRequest) ToParameters() PayrollParameters {
	from, _ := validator.IsValidDate(r.EffectiveFrom)
	var to *time.Time
	if r.EffectiveTo != nil {
		if t, ok := validator.IsValidDate(*r.EffectiveTo); ok {
			to = &t
		}
	}
	return PayrollParameters{
		EffectiveFrom:        from,
		EffectiveTo:          to,
		EmployeeContribution: ContributionRule{Rate: r.EmployeeRate, Cap: r.EmployeeCap},
		EmployerContribution: ContributionRule{Rate: r.EmployerRate, Cap: r.EmployerCap},
		TaxBrackets:          r.TaxBrackets,
		SeniorityTiers:       r.SeniorityTiers,
		SpouseAbatement:      r.SpouseAbatement,
		ChildAbatement:       r.ChildAbatement,
		OtherAbatement:       r.OtherAbatement,
		OvertimePremium:      r.OvertimePremium,
		NominalMonthlyHours:  r.NominalMonthlyHours,
		CurrencyExponent:     r.CurrencyExponent,
	}
}

type ParametersResponse struct {
	ID                  string          `json:"id"`
	EffectiveFrom       string          `json:"effective_from"`
	EffectiveTo         *string         `json:"effective_to,omitempty"`
	EmployeeRate        decimal.Decimal `json:"employee_rate"`
	EmployeeCap         decimal.Decimal `json:"employee_cap"`
	EmployerRate        decimal.Decimal `json:"employer_rate"`
	EmployerCap         decimal.Decimal `json:"employer_cap"`
	TaxBrackets         []TaxBracket    `json:"tax_brackets"`
	SeniorityTiers      []SeniorityTier `json:"seniority_tiers"`
	SpouseAbatement     decimal.Decimal `json:"spouse_abatement"`
	ChildAbatement      decimal.Decimal `json:"child_abatement"`
	OtherAbatement      decimal.Decimal `json:"other_abatement"`
	OvertimePremium     decimal.Decimal `json:"overtime_premium"`
	NominalMonthlyHours decimal.Decimal `json:"nominal_monthly_hours"`
	CurrencyExponent    int32           `json:"currency_exponent"`
}

func appendPeriodErrors(errs validator.ValidationErrors, month, year int) validator.ValidationErrors {
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 2200 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2200"})
	}
	return errs
}
