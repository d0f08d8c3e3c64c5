package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidBaseSalary  = errors.New("employee base salary must be positive")
	ErrNegativeDependents = errors.New("employee dependent counts must be non-negative")
	ErrMissingHireDate    = errors.New("employee hire date is not set")
)
