package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hrportal/leave-backend-go/internal/domain/audit"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepositoryImpl{db: db}
}

func (r *auditRepositoryImpl) Append(ctx context.Context, event audit.Event) error {
	q := GetQuerier(ctx, r.db)

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, actor_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := q.Exec(ctx, query,
		event.ID, event.ActorID, event.Action, event.EntityType, event.EntityID, details, event.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}

	return nil
}
