package postgresql

import (
	"context"
	"fmt"

	"github.com/hrportal/leave-backend-go/internal/domain/notification"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
)

// The portal owns the notification read surface; this service only
// appends deliveries.
type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, request_id, is_read, created_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, false, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		n.RecipientID, n.Type, n.Title, n.Message, n.RequestID,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
