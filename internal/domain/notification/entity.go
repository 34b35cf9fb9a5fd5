package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveApproved NotificationType = "leave_approved"
	TypeLeaveRejected NotificationType = "leave_rejected"
)

// Notification is one delivery to an employee. Read state lives on the
// row but is managed by the portal, not here.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	RequestID   *string
	CreatedAt   time.Time
}
