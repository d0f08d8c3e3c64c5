package response

import (
	"errors"
	"net/http"

	"github.com/meridianhr/payroll-backend-go/internal/domain/employee"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidBaseSalary),
		errors.Is(err, employee.ErrNegativeDependents),
		errors.Is(err, employee.ErrMissingHireDate):
		UnprocessableEntity(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrNoEffectiveParameters):
		UnprocessableEntity(w, "No payroll parameters are effective for this date")
	case errors.Is(err, payroll.ErrInvalidParameters):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, payroll.ErrParameterSetNotFound):
		NotFound(w, "Parameter set not found")
	case errors.Is(err, payroll.ErrParameterSetOverlaps):
		Conflict(w, "Parameter set overlaps an existing validity window")
	case errors.Is(err, payroll.ErrPayItemNotFound):
		NotFound(w, "Pay item not found")
	case errors.Is(err, payroll.ErrResultNotFound):
		NotFound(w, "Payroll result not found")
	case errors.Is(err, payroll.ErrResultAlreadyPaid):
		Conflict(w, "Payroll result is already paid")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrInvalidStatusChange):
		BadRequest(w, "Invalid result status", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
