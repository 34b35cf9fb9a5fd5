package leave

import "errors"

var (
	ErrRequestNotFound       = errors.New("Leave request not found")
	ErrAccountNotFound       = errors.New("Leave account not found")
	ErrInsufficientBalance   = errors.New("Insufficient leave balance")
	ErrInvalidTransition     = errors.New("Leave request is not in the expected state")
	ErrPolicyBucketExhausted = errors.New("Deduction policy bucket has insufficient days")
	ErrOverlappingRequest    = errors.New("Leave request overlaps an existing request")
	ErrDuplicateCarryover    = errors.New("Carryover grant already exists for this employee and year pair")
	ErrZeroWorkingDays       = errors.New("Requested period contains no working days")
	ErrReplacementNotFound   = errors.New("Replacement employee not found")
	ErrAccountAlreadyExists  = errors.New("Leave account already exists for this employee and year")
)
