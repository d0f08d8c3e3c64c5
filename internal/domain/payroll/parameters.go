package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TaxBracket is one marginal income-tax slice. UpperBound nil means the
// bracket is unbounded; only the last bracket of a table may be unbounded.
type TaxBracket struct {
	UpperBound *decimal.Decimal `json:"upper_bound"`
	Rate       decimal.Decimal  `json:"rate"`
}

// SeniorityTier maps a tenure range [MinYears, MaxYears) to a bonus rate
// applied to base salary. MaxYears nil means unbounded.
type SeniorityTier struct {
	MinYears int             `json:"min_years"`
	MaxYears *int            `json:"max_years"`
	Rate     decimal.Decimal `json:"rate"`
}

// ContributionRule is one capped social-contribution rule: the rate applies
// to min(base, Cap).
type ContributionRule struct {
	Rate decimal.Decimal `json:"rate"`
	Cap  decimal.Decimal `json:"cap"`
}

// PayrollParameters is the effective-date-scoped rate card used by every
// calculation in a batch. Loaded once, treated as immutable.
type PayrollParameters struct {
	ID                   string
	EffectiveFrom        time.Time
	EffectiveTo          *time.Time
	EmployeeContribution ContributionRule
	EmployerContribution ContributionRule
	TaxBrackets          []TaxBracket
	SeniorityTiers       []SeniorityTier
	SpouseAbatement      decimal.Decimal
	ChildAbatement       decimal.Decimal
	OtherAbatement       decimal.Decimal
	OvertimePremium      decimal.Decimal
	NominalMonthlyHours  decimal.Decimal
	CurrencyExponent     int32
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Validate checks the structural invariants of a parameter set. A violation
// is a configuration error: it aborts every calculation that would use the
// set, and is never silently defaulted.
func (p PayrollParameters) Validate() error {
	if err := validateContribution("employee_contribution", p.EmployeeContribution); err != nil {
		return err
	}
	if err := validateContribution("employer_contribution", p.EmployerContribution); err != nil {
		return err
	}
	if err := validateBrackets(p.TaxBrackets); err != nil {
		return err
	}
	if err := validateTiers(p.SeniorityTiers); err != nil {
		return err
	}
	if p.SpouseAbatement.IsNegative() || p.ChildAbatement.IsNegative() || p.OtherAbatement.IsNegative() {
		return fmt.Errorf("%w: abatement amounts must be non-negative", ErrInvalidParameters)
	}
	if p.OvertimePremium.IsNegative() {
		return fmt.Errorf("%w: overtime premium must be non-negative", ErrInvalidParameters)
	}
	if !p.NominalMonthlyHours.IsPositive() {
		return fmt.Errorf("%w: nominal monthly hours must be positive", ErrInvalidParameters)
	}
	if p.CurrencyExponent < 0 {
		return fmt.Errorf("%w: currency exponent must be non-negative", ErrInvalidParameters)
	}
	if p.EffectiveTo != nil && !p.EffectiveTo.After(p.EffectiveFrom) {
		return fmt.Errorf("%w: effective_to must be after effective_from", ErrInvalidParameters)
	}
	return nil
}

func validateContribution(name string, r ContributionRule) error {
	if r.Rate.IsNegative() {
		return fmt.Errorf("%w: %s rate must be non-negative", ErrInvalidParameters, name)
	}
	if !r.Cap.IsPositive() {
		return fmt.Errorf("%w: %s cap must be positive", ErrInvalidParameters, name)
	}
	return nil
}

// Brackets are stored as {upper-bound, rate}; each one spans from the
// previous upper bound, so contiguity reduces to strictly ascending bounds
// with exactly one unbounded bracket at the end.
func validateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%w: tax bracket table is empty", ErrInvalidParameters)
	}
	var prev *decimal.Decimal
	for i, b := range brackets {
		if b.Rate.IsNegative() {
			return fmt.Errorf("%w: tax bracket %d has a negative rate", ErrInvalidParameters, i)
		}
		last := i == len(brackets)-1
		if b.UpperBound == nil {
			if !last {
				return fmt.Errorf("%w: only the last tax bracket may be unbounded", ErrInvalidParameters)
			}
			continue
		}
		if last {
			return fmt.Errorf("%w: the last tax bracket must be unbounded", ErrInvalidParameters)
		}
		if b.UpperBound.IsNegative() || b.UpperBound.IsZero() {
			return fmt.Errorf("%w: tax bracket %d upper bound must be positive", ErrInvalidParameters, i)
		}
		if prev != nil && b.UpperBound.Cmp(*prev) <= 0 {
			return fmt.Errorf("%w: tax bracket upper bounds must be strictly ascending", ErrInvalidParameters)
		}
		prev = b.UpperBound
	}
	return nil
}

func validateTiers(tiers []SeniorityTier) error {
	prevMax := -1
	for i, t := range tiers {
		if t.Rate.IsNegative() {
			return fmt.Errorf("%w: seniority tier %d has a negative rate", ErrInvalidParameters, i)
		}
		if t.MinYears < 0 {
			return fmt.Errorf("%w: seniority tier %d min years must be non-negative", ErrInvalidParameters, i)
		}
		if t.MaxYears != nil && *t.MaxYears <= t.MinYears {
			return fmt.Errorf("%w: seniority tier %d max years must exceed min years", ErrInvalidParameters, i)
		}
		if i > 0 {
			if prevMax < 0 {
				return fmt.Errorf("%w: only the last seniority tier may be unbounded", ErrInvalidParameters)
			}
			if t.MinYears < prevMax {
				return fmt.Errorf("%w: seniority tiers must not overlap", ErrInvalidParameters)
			}
		}
		if t.MaxYears == nil {
			prevMax = -1
		} else {
			prevMax = *t.MaxYears
		}
	}
	return nil
}

// TierFor returns the tier whose [MinYears, MaxYears) range contains years,
// or nil if no tier matches.
func (p PayrollParameters) TierFor(years int) *SeniorityTier {
	for i := range p.SeniorityTiers {
		t := &p.SeniorityTiers[i]
		if years >= t.MinYears && (t.MaxYears == nil || years < *t.MaxYears) {
			return t
		}
	}
	return nil
}
