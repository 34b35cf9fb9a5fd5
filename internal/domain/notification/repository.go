package notification

import "context"

// Repository is append-only from this service's side; reading and
// marking notifications belongs to the portal.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
}

// Dispatcher accepts deliveries fire-and-forget relative to the
// primary transaction.
type Dispatcher interface {
	Dispatch(recipientID string, typ NotificationType, title, message string, requestID *string)
}
