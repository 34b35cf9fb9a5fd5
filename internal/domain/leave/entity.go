package leave

import (
	"time"
)

// DefaultBaseAllocationDays is the statutory annual leave allocation
// granted when an account is provisioned without an explicit override.
const DefaultBaseAllocationDays = 21

// RequestStatus represents the approval state of a leave request.
type RequestStatus string

const (
	StatusPendingDirector       RequestStatus = "pending_director"
	StatusPendingDepartmentHead RequestStatus = "pending_department_head"
	StatusApproved              RequestStatus = "approved"
	StatusRejected              RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DeductionPolicy selects which entitlement bucket a ledger delta is
// routed to when HR corrects or reverses a request.
type DeductionPolicy string

const (
	// PolicyAuto takes a positive delta from carryover remaining first,
	// then from the current-year bucket; refunds go to the current-year
	// bucket only.
	PolicyAuto DeductionPolicy = "auto"
	// PolicyCarryoverOnly routes the entire delta to carryover grants.
	PolicyCarryoverOnly DeductionPolicy = "carryover_only"
	// PolicyCurrentOnly routes the entire delta to the current-year bucket.
	PolicyCurrentOnly DeductionPolicy = "current_only"
)

func (p DeductionPolicy) Valid() bool {
	switch p {
	case PolicyAuto, PolicyCarryoverOnly, PolicyCurrentOnly:
		return true
	}
	return false
}

// Account is one employee's entitlement ledger row for a year.
// UsedDays is mutated only through the ledger service, never assigned
// directly by callers.
type Account struct {
	ID                 string
	EmployeeID         string
	Year               int
	BaseAllocationDays int
	UsedDays           int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CarryoverGrant is entitlement earned in FromYear, usable in ToYear.
// Invariant: RemainingDays = InitialDays - UsedDays.
type CarryoverGrant struct {
	ID            string
	EmployeeID    string
	FromYear      int
	ToYear        int
	InitialDays   int
	UsedDays      int
	RemainingDays int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BonusGrant is additional entitlement awarded for a specific legal or
// contractual reason. Bonus days only enlarge the available balance;
// they are never debited themselves.
type BonusGrant struct {
	ID         string
	EmployeeID string
	Year       int
	BonusDays  int
	Reason     string
	LegalBasis string
	GrantedBy  string
	CreatedAt  time.Time
}

// Request is the workflow entity for a single leave request.
// WorkingDays is computed at submission and frozen until HR explicitly
// edits the request. AccountID is resolved once at submission time and
// stored; it is never re-derived later.
type Request struct {
	ID            string
	EmployeeID    string
	AccountID     string
	ReplacementID *string

	StartDate   time.Time
	EndDate     time.Time
	WorkingDays int
	Year        int

	Status RequestStatus

	SignedByEmployee time.Time
	DirectorID       *string
	DirectorSignedAt *time.Time
	DeptHeadID       *string
	DeptHeadSignedAt *time.Time
	RejectedBy       *string
	RejectedAt       *time.Time
	RejectionReason  *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	EmployeeName    *string
	ReplacementName *string
}

// BalanceBreakdown is the derived available balance with per-bucket
// detail, recomputed on every read.
type BalanceBreakdown struct {
	EmployeeID         string
	Year               int
	BaseAllocationDays int
	CarryoverRemaining int
	BonusDays          int
	UsedDays           int
	Available          int
}

// Recompute refreshes the Available field from the bucket values and
// returns the breakdown.
func (b BalanceBreakdown) Recompute() BalanceBreakdown {
	b.Available = b.BaseAllocationDays + b.CarryoverRemaining + b.BonusDays - b.UsedDays
	return b
}

// ExcludedDay is one non-working day inside a requested period, with
// the reason it does not count.
type ExcludedDay struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}
