package payroll

import (
	"context"
	"time"
)

// ParameterRepository is the parameter store collaborator. GetEffective must
// return a fully validated, internally consistent set or fail explicitly.
type ParameterRepository interface {
	GetEffective(ctx context.Context, date time.Time) (PayrollParameters, error)
	Create(ctx context.Context, params PayrollParameters) (PayrollParameters, error)
	List(ctx context.Context) ([]PayrollParameters, error)
}

// PayItemRepository is the pay item source collaborator. Order of returned
// items is unspecified; classification does not depend on it.
type PayItemRepository interface {
	Create(ctx context.Context, item PayItem) (PayItem, error)
	GetByID(ctx context.Context, id string) (PayItem, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) ([]PayItem, error)
	Delete(ctx context.Context, id string) error
}

// ResultRepository is the result sink. Upsert replaces any stored result for
// the same employee and period; a paid result is never overwritten.
type ResultRepository interface {
	Upsert(ctx context.Context, result PayrollResult) (PayrollResult, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollResult, error)
	ListByPeriod(ctx context.Context, month, year int) ([]PayrollResult, error)
	UpdateStatus(ctx context.Context, id string, status ResultStatus) error
}
