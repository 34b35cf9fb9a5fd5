package leave

import (
	"time"

	"github.com/hrportal/leave-backend-go/internal/pkg/validator"
)

type SubmitRequestRequest struct {
	EmployeeID    string  `json:"employee_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	ReplacementID *string `json:"replacement_id,omitempty"`
}

func (r *SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if startOK && endOK && start.Year() != end.Year() {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "start_date and end_date must fall in the same year",
		})
	}

	if r.ReplacementID != nil && validator.IsEmpty(*r.ReplacementID) {
		errs = append(errs, validator.ValidationError{
			Field:   "replacement_id",
			Message: "replacement_id must not be empty when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequestRequest struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

func (r *RejectRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EditRequestRequest struct {
	RequestID string `json:"request_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// Policy defaults to auto when empty.
	Policy string `json:"policy,omitempty"`
}

func (r *EditRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if r.Policy != "" && !DeductionPolicy(r.Policy).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "policy",
			Message: "policy must be one of auto, carryover_only, current_only",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DeleteRequestRequest struct {
	RequestID string `json:"request_id"`
	// Policy defaults to current_only when empty.
	Policy string `json:"policy,omitempty"`
}

func (r *DeleteRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if r.Policy != "" && !DeductionPolicy(r.Policy).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "policy",
			Message: "policy must be one of auto, carryover_only, current_only",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateBonusGrantRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	BonusDays  int    `json:"bonus_days"`
	Reason     string `json:"reason"`
	LegalBasis string `json:"legal_basis"`
}

func (r *CreateBonusGrantRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}

	if r.BonusDays <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "bonus_days",
			Message: "bonus_days must be a positive integer",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if validator.IsEmpty(r.LegalBasis) {
		errs = append(errs, validator.ValidationError{
			Field:   "legal_basis",
			Message: "legal_basis is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CarryoverImportItem struct {
	EmployeeID  string `json:"employee_id"`
	InitialDays int    `json:"initial_days"`
}

type ImportCarryoverRequest struct {
	FromYear int                   `json:"from_year"`
	ToYear   int                   `json:"to_year"`
	Items    []CarryoverImportItem `json:"items"`
}

func (r *ImportCarryoverRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FromYear <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "from_year",
			Message: "from_year must be a positive integer",
		})
	}

	if r.ToYear != r.FromYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "to_year",
			Message: "to_year must be the year immediately after from_year",
		})
	}

	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateAccountRequest struct {
	EmployeeID         string `json:"employee_id"`
	Year               int    `json:"year"`
	BaseAllocationDays *int   `json:"base_allocation_days,omitempty"`
}

func (r *CreateAccountRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}

	if r.BaseAllocationDays != nil && *r.BaseAllocationDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "base_allocation_days",
			Message: "base_allocation_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type WorkingDaysRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *WorkingDaysRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// WorkingDaysResponse is the period preview returned to callers before
// submission.
type WorkingDaysResponse struct {
	WorkingDays int           `json:"working_days"`
	Excluded    []ExcludedDay `json:"excluded"`
}

// CarryoverImportResult reports the outcome of a bulk carryover import.
// Valid rows are applied even when other rows fail.
type CarryoverImportResult struct {
	Imported int                 `json:"imported"`
	Failed   []CarryoverRowError `json:"failed,omitempty"`
}

type CarryoverRowError struct {
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

// RequestResponse is the outward shape of a leave request.
type RequestResponse struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	EmployeeName     *string    `json:"employee_name,omitempty"`
	ReplacementID    *string    `json:"replacement_id,omitempty"`
	ReplacementName  *string    `json:"replacement_name,omitempty"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	WorkingDays      int        `json:"working_days"`
	Year             int        `json:"year"`
	Status           string     `json:"status"`
	DirectorID       *string    `json:"director_id,omitempty"`
	DirectorSignedAt *time.Time `json:"director_signed_at,omitempty"`
	DeptHeadID       *string    `json:"department_head_id,omitempty"`
	DeptHeadSignedAt *time.Time `json:"department_head_signed_at,omitempty"`
	RejectionReason  *string    `json:"rejection_reason,omitempty"`
	SubmittedAt      time.Time  `json:"submitted_at"`
}

// ToResponse converts a Request entity to its outward shape.
func (r Request) ToResponse() RequestResponse {
	return RequestResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		ReplacementID:    r.ReplacementID,
		ReplacementName:  r.ReplacementName,
		StartDate:        r.StartDate.Format("2006-01-02"),
		EndDate:          r.EndDate.Format("2006-01-02"),
		WorkingDays:      r.WorkingDays,
		Year:             r.Year,
		Status:           string(r.Status),
		DirectorID:       r.DirectorID,
		DirectorSignedAt: r.DirectorSignedAt,
		DeptHeadID:       r.DeptHeadID,
		DeptHeadSignedAt: r.DeptHeadSignedAt,
		RejectionReason:  r.RejectionReason,
		SubmittedAt:      r.SignedByEmployee,
	}
}

// BalanceResponse is the outward shape of the derived balance.
type BalanceResponse struct {
	EmployeeID         string `json:"employee_id"`
	Year               int    `json:"year"`
	BaseAllocationDays int    `json:"base_allocation_days"`
	CarryoverRemaining int    `json:"carryover_remaining"`
	BonusDays          int    `json:"bonus_days"`
	UsedDays           int    `json:"used_days"`
	Available          int    `json:"available"`
}
