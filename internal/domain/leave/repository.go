package leave

import (
	"context"
	"time"
)

// AccountRepository - interface for leave_accounts table
type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	// GetByIDForUpdate locks the account row for the duration of the
	// surrounding transaction. Callers must be inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Account, error)
	GetByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (Account, error)
	UpdateUsedDays(ctx context.Context, id string, usedDays int) error
}

// CarryoverRepository - interface for carryover_grants table
type CarryoverRepository interface {
	Create(ctx context.Context, grant CarryoverGrant) (CarryoverGrant, error)
	GetByEmployeeToYear(ctx context.Context, employeeID string, toYear int) ([]CarryoverGrant, error)
	// GetByEmployeeToYearForUpdate locks the grant rows. Rows are
	// returned in ascending FromYear order so oldest entitlement is
	// consumed first.
	GetByEmployeeToYearForUpdate(ctx context.Context, employeeID string, toYear int) ([]CarryoverGrant, error)
	UpdateUsage(ctx context.Context, id string, usedDays, remainingDays int) error
	Exists(ctx context.Context, employeeID string, fromYear, toYear int) (bool, error)
}

// BonusRepository - interface for bonus_grants table
type BonusRepository interface {
	Create(ctx context.Context, grant BonusGrant) (BonusGrant, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]BonusGrant, error)
	SumByEmployeeYear(ctx context.Context, employeeID string, year int) (int, error)
}

// RequestFilter narrows the admin request listing.
type RequestFilter struct {
	EmployeeID *string
	Status     *string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

// RequestRepository - interface for leave_requests table
type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	GetByEmployeeID(ctx context.Context, employeeID string, filter RequestFilter) ([]Request, int64, error)
	List(ctx context.Context, filter RequestFilter) ([]Request, int64, error)
	// UpdateStatusCAS transitions the request from expected to next and
	// records the approver columns for next. It reports false when the
	// stored status no longer matches expected, without mutating the row.
	UpdateStatusCAS(ctx context.Context, id string, expected, next RequestStatus, actorID string, at time.Time, rejectionReason *string) (bool, error)
	UpdateDates(ctx context.Context, id string, startDate, endDate time.Time, workingDays int) error
	Delete(ctx context.Context, id string) error
	// HasOverlapping reports whether the employee has another pending or
	// approved request intersecting [startDate, endDate]. A nil
	// excludeRequestID checks against every request; edits pass their own
	// request ID so the stored dates do not collide with themselves.
	HasOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeRequestID *string) (bool, error)
}
