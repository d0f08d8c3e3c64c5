package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the payroll-facing snapshot of an employee record. The engine
// only reads it; record management lives in the surrounding application.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	HireDate         time.Time
	FamilyStatus     FamilyStatus
	Spouses          int
	Children         int
	OtherDependents  int
	BaseSalary       decimal.Decimal
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type FamilyStatus string

const (
	FamilyStatusSingle   FamilyStatus = "single"
	FamilyStatusMarried  FamilyStatus = "married"
	FamilyStatusDivorced FamilyStatus = "divorced"
	FamilyStatusWidowed  FamilyStatus = "widowed"
)

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)

// ValidatePayrollInput checks the invariants a payroll calculation depends on.
// A violation fails this employee's calculation only, never a whole batch.
func (e Employee) ValidatePayrollInput() error {
	if !e.BaseSalary.IsPositive() {
		return ErrInvalidBaseSalary
	}
	if e.Spouses < 0 || e.Children < 0 || e.OtherDependents < 0 {
		return ErrNegativeDependents
	}
	if e.HireDate.IsZero() {
		return ErrMissingHireDate
	}
	return nil
}
