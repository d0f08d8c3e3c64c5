package payroll

import (
	"github.com/shopspring/decimal"
)

// Calculator is the gross-to-net payroll engine. It is stateless and pure:
// every method is a deterministic function of its inputs and safe to call
// concurrently for different employees.
type Calculator struct {
	tolerance decimal.Decimal
}

// NewCalculator returns a Calculator with the default reconciliation
// tolerance of one whole currency unit.
func NewCalculator() *Calculator {
	return &Calculator{tolerance: decimal.NewFromInt(1)}
}

// NewCalculatorWithTolerance returns a Calculator using tolerance as the
// maximum absolute net-salary discrepancy still considered a match.
func NewCalculatorWithTolerance(tolerance decimal.Decimal) *Calculator {
	return &Calculator{tolerance: tolerance}
}
