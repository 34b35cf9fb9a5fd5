package leave

import (
	"context"

	"github.com/hrportal/leave-backend-go/internal/domain/employee"
)

// Ledger owns the entitlement arithmetic for one employee-year account.
// UsedDays and carryover usage are mutated only through these
// operations; balance checks are re-evaluated under a row lock at
// commit time, never trusted from an earlier read.
type Ledger interface {
	AvailableBalance(ctx context.Context, employeeID string, year int) (BalanceBreakdown, error)
	Debit(ctx context.Context, employeeID string, year int, days int) error
	Credit(ctx context.Context, employeeID string, year int, days int) error
	ApplyDelta(ctx context.Context, employeeID string, year int, delta int, policy DeductionPolicy) error
}

// Workflow drives a request through the two-stage approval pipeline.
// The final-approval ledger debit is a transition side-effect owned by
// the workflow implementation, not by callers.
type Workflow interface {
	Submit(ctx context.Context, req SubmitRequestRequest) (RequestResponse, error)
	ApproveAsDirector(ctx context.Context, requestID, directorID string) (RequestResponse, error)
	ApproveAsDepartmentHead(ctx context.Context, requestID, deptHeadID string) (RequestResponse, error)
	Reject(ctx context.Context, req RejectRequestRequest, approverID string) (RequestResponse, error)
	GetRequest(ctx context.Context, requestID string) (RequestResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]RequestResponse, int64, error)
	ListEmployeeRequests(ctx context.Context, employeeID string, filter RequestFilter) ([]RequestResponse, int64, error)
	WorkingDaysPreview(ctx context.Context, req WorkingDaysRequest) (WorkingDaysResponse, error)
	ListReplacementCandidates(ctx context.Context, employeeID string) ([]employee.Employee, error)
}

// Correction is the HR-only post-hoc edit and delete engine.
type Correction interface {
	Edit(ctx context.Context, req EditRequestRequest, actorID string) (RequestResponse, error)
	Delete(ctx context.Context, req DeleteRequestRequest, actorID string) error
}

// Grants covers HR entitlement provisioning: accounts, bonus grants
// and the yearly carryover import.
type Grants interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest, actorID string) (Account, error)
	CreateBonusGrant(ctx context.Context, req CreateBonusGrantRequest, actorID string) (BonusGrant, error)
	ListBonusGrants(ctx context.Context, employeeID string, year int) ([]BonusGrant, error)
	ImportCarryover(ctx context.Context, req ImportCarryoverRequest, actorID string) (CarryoverImportResult, error)
}
