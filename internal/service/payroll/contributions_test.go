package payroll

import (
	"testing"

	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rule(rate, cap string) payroll.ContributionRule {
	return payroll.ContributionRule{
		Rate: decimal.RequireFromString(rate),
		Cap:  decimal.RequireFromString(cap),
	}
}

func TestCappedContribution(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		base string
		rule payroll.ContributionRule
		exp  int32
		want string
	}{
		{"below cap", "500000", rule("0.07", "600000"), 0, "35000"},
		{"above cap pays cap rate", "700000", rule("0.07", "600000"), 0, "42000"},
		{"exactly at cap", "600000", rule("0.07", "600000"), 0, "42000"},
		{"employer side", "500000", rule("0.14", "600000"), 0, "70000"},
		{"negative base clamps to zero", "-1000", rule("0.07", "600000"), 0, "0"},
		{"zero base", "0", rule("0.07", "600000"), 0, "0"},
		{"two decimal rounding", "123456.78", rule("0.055", "900000"), 2, "6790.12"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := cappedContribution(decimal.RequireFromString(c.base), c.rule, c.exp)
			assert.Equal(t, c.want, got.String())
		})
	}
}

// For any base above the cap the charge is cap*rate, regardless of how far
// the base exceeds it.
func TestCappedContribution_CappingProperty(t *testing.T) {
	t.Parallel()

	r := rule("0.07", "600000")
	capped := cappedContribution(decimal.RequireFromString("600000"), r, 0)

	for _, base := range []string{"600001", "750000", "1000000", "99999999"} {
		got := cappedContribution(decimal.RequireFromString(base), r, 0)
		assert.True(t, got.Equal(capped), "base %s: got %s, want %s", base, got, capped)
	}
}
