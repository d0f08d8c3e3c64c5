package payroll

import "context"

// PayrollService is the application surface over the calculation engine:
// calculate-and-persist, reconciliation, and the pay item plumbing the
// handlers need.
type PayrollService interface {
	// Calculation
	Calculate(ctx context.Context, req CalculateRequest) (PayrollResultResponse, error)
	CalculateBatch(ctx context.Context, req CalculateBatchRequest) (BatchCalculationResponse, error)
	GetResult(ctx context.Context, employeeID string, month, year int) (PayrollResultResponse, error)
	UpdateResultStatus(ctx context.Context, id string, status ResultStatus) error

	// Reconciliation
	Reconcile(ctx context.Context, req ReconcileRequest) (ReconciliationResponse, error)
	ReconcileBatch(ctx context.Context, req ReconcileBatchRequest) (BatchReconciliationResponse, error)

	// Pay items
	CreatePayItem(ctx context.Context, req CreatePayItemRequest) (PayItemResponse, error)
	ListPayItems(ctx context.Context, employeeID string, month, year int) ([]PayItemResponse, error)
	DeletePayItem(ctx context.Context, id string) error

	// Parameters
	GetEffectiveParameters(ctx context.Context, dateStr string) (ParametersResponse, error)
	CreateParameters(ctx context.Context, req CreateParametersRequest) (ParametersResponse, error)
}
