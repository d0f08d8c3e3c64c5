package payroll

import "errors"

// Configuration errors abort whole batches; every other error is scoped to a
// single record.
var (
	ErrNoEffectiveParameters = errors.New("no effective payroll parameters for date")
	ErrInvalidParameters     = errors.New("invalid payroll parameters")
	ErrParameterSetNotFound  = errors.New("payroll parameter set not found")
	ErrParameterSetOverlaps  = errors.New("parameter set overlaps an existing validity window")

	ErrPayItemNotFound     = errors.New("pay item not found")
	ErrResultNotFound      = errors.New("payroll result not found")
	ErrResultAlreadyPaid   = errors.New("payroll result already paid, cannot modify")
	ErrInvalidPeriod       = errors.New("invalid payroll period")
	ErrInvalidStatusChange = errors.New("invalid payroll result status transition")
)
