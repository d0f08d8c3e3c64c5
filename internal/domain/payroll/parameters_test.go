package payroll

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int {
	return &n
}

func validParameters() PayrollParameters {
	return PayrollParameters{
		EffectiveFrom:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EmployeeContribution: ContributionRule{Rate: dec("0.07"), Cap: dec("600000")},
		EmployerContribution: ContributionRule{Rate: dec("0.14"), Cap: dec("600000")},
		TaxBrackets: []TaxBracket{
			{UpperBound: decPtr("100000"), Rate: dec("0")},
			{UpperBound: decPtr("300000"), Rate: dec("0.10")},
			{UpperBound: nil, Rate: dec("0.20")},
		},
		SeniorityTiers: []SeniorityTier{
			{MinYears: 5, MaxYears: intPtr(10), Rate: dec("0.05")},
			{MinYears: 10, MaxYears: nil, Rate: dec("0.10")},
		},
		SpouseAbatement:     dec("50000"),
		ChildAbatement:      dec("25000"),
		OtherAbatement:      dec("10000"),
		OvertimePremium:     dec("1.25"),
		NominalMonthlyHours: dec("173.33"),
		CurrencyExponent:    0,
	}
}

func TestPayrollParameters_Validate_Valid(t *testing.T) {
	t.Parallel()

	if err := validParameters().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestPayrollParameters_Validate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*PayrollParameters)
	}{
		{
			name:   "empty bracket table",
			mutate: func(p *PayrollParameters) { p.TaxBrackets = nil },
		},
		{
			name: "non-ascending bracket bounds",
			mutate: func(p *PayrollParameters) {
				p.TaxBrackets = []TaxBracket{
					{UpperBound: decPtr("300000"), Rate: dec("0")},
					{UpperBound: decPtr("100000"), Rate: dec("0.10")},
					{UpperBound: nil, Rate: dec("0.20")},
				}
			},
		},
		{
			name: "unbounded bracket not last",
			mutate: func(p *PayrollParameters) {
				p.TaxBrackets = []TaxBracket{
					{UpperBound: nil, Rate: dec("0")},
					{UpperBound: decPtr("300000"), Rate: dec("0.10")},
				}
			},
		},
		{
			name: "last bracket bounded",
			mutate: func(p *PayrollParameters) {
				p.TaxBrackets = []TaxBracket{
					{UpperBound: decPtr("100000"), Rate: dec("0")},
					{UpperBound: decPtr("300000"), Rate: dec("0.10")},
				}
			},
		},
		{
			name: "negative bracket rate",
			mutate: func(p *PayrollParameters) {
				p.TaxBrackets[1].Rate = dec("-0.10")
			},
		},
		{
			name: "zero bracket upper bound",
			mutate: func(p *PayrollParameters) {
				p.TaxBrackets[0].UpperBound = decPtr("0")
			},
		},
		{
			name: "negative employee contribution rate",
			mutate: func(p *PayrollParameters) {
				p.EmployeeContribution.Rate = dec("-0.07")
			},
		},
		{
			name: "zero employer contribution cap",
			mutate: func(p *PayrollParameters) {
				p.EmployerContribution.Cap = dec("0")
			},
		},
		{
			name: "overlapping seniority tiers",
			mutate: func(p *PayrollParameters) {
				p.SeniorityTiers = []SeniorityTier{
					{MinYears: 5, MaxYears: intPtr(12), Rate: dec("0.05")},
					{MinYears: 10, MaxYears: nil, Rate: dec("0.10")},
				}
			},
		},
		{
			name: "tier max not above min",
			mutate: func(p *PayrollParameters) {
				p.SeniorityTiers = []SeniorityTier{
					{MinYears: 5, MaxYears: intPtr(5), Rate: dec("0.05")},
				}
			},
		},
		{
			name: "unbounded tier not last",
			mutate: func(p *PayrollParameters) {
				p.SeniorityTiers = []SeniorityTier{
					{MinYears: 5, MaxYears: nil, Rate: dec("0.05")},
					{MinYears: 10, MaxYears: nil, Rate: dec("0.10")},
				}
			},
		},
		{
			name: "negative tier min years",
			mutate: func(p *PayrollParameters) {
				p.SeniorityTiers = []SeniorityTier{
					{MinYears: -1, MaxYears: intPtr(5), Rate: dec("0.05")},
				}
			},
		},
		{
			name: "negative abatement",
			mutate: func(p *PayrollParameters) {
				p.ChildAbatement = dec("-25000")
			},
		},
		{
			name: "negative overtime premium",
			mutate: func(p *PayrollParameters) {
				p.OvertimePremium = dec("-1.25")
			},
		},
		{
			name: "zero nominal monthly hours",
			mutate: func(p *PayrollParameters) {
				p.NominalMonthlyHours = dec("0")
			},
		},
		{
			name: "negative currency exponent",
			mutate: func(p *PayrollParameters) {
				p.CurrencyExponent = -2
			},
		},
		{
			name: "effective window inverted",
			mutate: func(p *PayrollParameters) {
				to := p.EffectiveFrom.AddDate(0, 0, -1)
				p.EffectiveTo = &to
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := validParameters()
			tt.mutate(&params)

			err := params.Validate()
			if !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Validate() = %v, want ErrInvalidParameters", err)
			}
		})
	}
}

func TestPayrollParameters_TierFor(t *testing.T) {
	t.Parallel()

	params := validParameters()

	tests := []struct {
		years    int
		wantRate string
		wantNil  bool
	}{
		{years: 0, wantNil: true},
		{years: 4, wantNil: true},
		{years: 5, wantRate: "0.05"},
		{years: 9, wantRate: "0.05"},
		{years: 10, wantRate: "0.1"},
		{years: 40, wantRate: "0.1"},
	}

	for _, tt := range tests {
		tier := params.TierFor(tt.years)
		if tt.wantNil {
			if tier != nil {
				t.Errorf("TierFor(%d) = %v, want nil", tt.years, tier)
			}
			continue
		}
		if tier == nil {
			t.Fatalf("TierFor(%d) = nil, want rate %s", tt.years, tt.wantRate)
		}
		if tier.Rate.String() != tt.wantRate {
			t.Errorf("TierFor(%d) rate = %s, want %s", tt.years, tier.Rate.String(), tt.wantRate)
		}
	}
}
