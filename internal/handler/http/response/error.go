package response

import (
	"errors"
	"net/http"

	"github.com/hrportal/leave-backend-go/internal/domain/employee"
	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/validator"
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
	// Not found
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAccountNotFound):
		NotFound(w, "Leave account not found")
	case errors.Is(err, leave.ErrReplacementNotFound):
		NotFound(w, "Replacement employee not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Balance
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrPolicyBucketExhausted):
		BadRequest(w, "Deduction policy bucket has insufficient days", nil)

	// State conflicts
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Leave request is not in the expected state")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "Leave request overlaps an existing request")
	case errors.Is(err, leave.ErrDuplicateCarryover):
		Conflict(w, "Carryover grant already exists for this employee and year pair")
	case errors.Is(err, leave.ErrAccountAlreadyExists):
		Conflict(w, "Leave account already exists for this employee and year")

	// Submission validation
	case errors.Is(err, leave.ErrZeroWorkingDays):
		ValidationError(w, map[string]string{
			"working_days": "Requested period contains no working days",
		})

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
