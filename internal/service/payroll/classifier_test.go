package payroll

import (
	"testing"

	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(kind payroll.PayItemKind, amount string, taxable, chargeable bool) payroll.PayItem {
	return payroll.PayItem{
		Kind:             kind,
		Label:            string(kind),
		Amount:           decimal.RequireFromString(amount),
		Taxable:          taxable,
		SocialChargeable: chargeable,
	}
}

func TestClassifyItems_Empty(t *testing.T) {
	t.Parallel()

	totals := classifyItems(nil)

	assert.True(t, totals.Additions.IsZero())
	assert.True(t, totals.Deductions.IsZero())
	assert.True(t, totals.TaxableAdjustment.IsZero())
	assert.True(t, totals.ChargeableAdjustment.IsZero())
}

func TestClassifyItems_Mixed(t *testing.T) {
	t.Parallel()

	items := []payroll.PayItem{
		item(payroll.PayItemKindAllowance, "50000", true, true),
		item(payroll.PayItemKindBonus, "30000", true, false),
		item(payroll.PayItemKindAbsence, "-20000", true, true),
		item(payroll.PayItemKindAdvance, "-15000", false, false),
		item(payroll.PayItemKindOther, "0", true, true),
	}

	totals := classifyItems(items)

	assert.Equal(t, "80000", totals.Additions.String())
	assert.Equal(t, "35000", totals.Deductions.String())
	// signed sums over flagged items only
	assert.Equal(t, "60000", totals.TaxableAdjustment.String())
	assert.Equal(t, "30000", totals.ChargeableAdjustment.String())
}

func TestClassifyItems_DeductionsAreAbsolute(t *testing.T) {
	t.Parallel()

	items := []payroll.PayItem{
		item(payroll.PayItemKindDeduction, "-12345.67", false, false),
	}

	totals := classifyItems(items)

	assert.Equal(t, "12345.67", totals.Deductions.String())
	assert.True(t, totals.Additions.IsZero())
}
