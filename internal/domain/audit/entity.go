package audit

import "time"

// Action identifies the kind of mutation an event records.
type Action string

const (
	ActionRequestSubmitted      Action = "leave_request.submitted"
	ActionRequestDirectorSigned Action = "leave_request.director_approved"
	ActionRequestApproved       Action = "leave_request.approved"
	ActionRequestRejected       Action = "leave_request.rejected"
	ActionRequestEdited         Action = "leave_request.edited"
	ActionRequestDeleted        Action = "leave_request.deleted"
	ActionReversalSkipped       Action = "leave_request.reversal_skipped"
	ActionBonusGrantCreated     Action = "bonus_grant.created"
	ActionCarryoverImported     Action = "carryover_grant.imported"
	ActionAccountCreated        Action = "leave_account.created"
)

// Event is one append-only audit record. Details carries the
// before/after facts as a JSON-serializable map.
type Event struct {
	ID         string
	ActorID    string
	Action     Action
	EntityType string
	EntityID   string
	Details    map[string]interface{}
	CreatedAt  time.Time
}
