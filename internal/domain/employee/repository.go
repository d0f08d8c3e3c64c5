package employee

import "context"

// EmployeeRepository provides read access to employee snapshots. The payroll
// engine never writes employee data.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActive(ctx context.Context) ([]Employee, error)
}
