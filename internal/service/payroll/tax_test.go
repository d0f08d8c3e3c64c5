package payroll

import (
	"testing"

	"github.com/meridianhr/payroll-backend-go/internal/domain/employee"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func bound(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// 0% up to 100k, 10% to 300k, 20% above.
func testBrackets() []payroll.TaxBracket {
	return []payroll.TaxBracket{
		{UpperBound: bound("100000"), Rate: decimal.Zero},
		{UpperBound: bound("300000"), Rate: decimal.RequireFromString("0.10")},
		{UpperBound: nil, Rate: decimal.RequireFromString("0.20")},
	}
}

func TestProgressiveTax_Marginal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		base string
		want string
	}{
		{"zero base", "0", "0"},
		{"negative base", "-5000", "0"},
		{"inside free bracket", "80000", "0"},
		{"at first bound", "100000", "0"},
		{"spans two brackets", "150000", "5000"},
		{"at second bound", "300000", "20000"},
		// each slice at its own rate: 0 + 200000*0.10 + 100000*0.20
		{"spans all brackets", "400000", "40000"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := progressiveTax(decimal.RequireFromString(c.base), testBrackets())
			assert.Equal(t, c.want, got.String())
		})
	}
}

func TestProgressiveTax_RoundsToWholeUnit(t *testing.T) {
	t.Parallel()

	brackets := []payroll.TaxBracket{
		{UpperBound: nil, Rate: decimal.RequireFromString("0.333")},
	}

	// 1000.5 * 0.333 = 333.1665
	got := progressiveTax(decimal.RequireFromString("1000.5"), brackets)
	assert.Equal(t, "333", got.String())
}

// Tax is non-negative and monotonically non-decreasing in the taxable base.
func TestProgressiveTax_Monotonic(t *testing.T) {
	t.Parallel()

	prev := decimal.Zero
	for _, base := range []string{"0", "50000", "100000", "100001", "250000", "300000", "500000", "1000000"} {
		got := progressiveTax(decimal.RequireFromString(base), testBrackets())
		assert.False(t, got.IsNegative(), "tax(%s) is negative", base)
		assert.True(t, got.GreaterThanOrEqual(prev), "tax(%s) = %s decreased below %s", base, got, prev)
		prev = got
	}
}

func TestDependentAbatement(t *testing.T) {
	t.Parallel()

	params := payroll.PayrollParameters{
		SpouseAbatement: decimal.RequireFromString("50000"),
		ChildAbatement:  decimal.RequireFromString("25000"),
		OtherAbatement:  decimal.RequireFromString("10000"),
	}

	emp := employee.Employee{Spouses: 1, Children: 2, OtherDependents: 3}
	got := dependentAbatement(emp, params)
	assert.Equal(t, "130000", got.String())

	none := dependentAbatement(employee.Employee{}, params)
	assert.True(t, none.IsZero())
}

// Two children at 25,000 each reduce the taxable base by 50,000 before the
// bracket walk.
func TestIncomeTax_AbatementBeforeBrackets(t *testing.T) {
	t.Parallel()

	params := payroll.PayrollParameters{
		ChildAbatement: decimal.RequireFromString("25000"),
		TaxBrackets:    testBrackets(),
	}
	emp := employee.Employee{Children: 2}

	taxable := decimal.RequireFromString("350000")
	got := incomeTax(taxable, emp, params)
	want := progressiveTax(decimal.RequireFromString("300000"), testBrackets())
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestIncomeTax_AbatementExceedsTaxable(t *testing.T) {
	t.Parallel()

	params := payroll.PayrollParameters{
		ChildAbatement: decimal.RequireFromString("25000"),
		TaxBrackets:    testBrackets(),
	}
	emp := employee.Employee{Children: 10}

	got := incomeTax(decimal.RequireFromString("200000"), emp, params)
	assert.True(t, got.IsZero())
}
