package postgresql

import (
	"context"
	"fmt"

	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
)

type bonusRepositoryImpl struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) leave.BonusRepository {
	return &bonusRepositoryImpl{db: db}
}

func (r *bonusRepositoryImpl) Create(ctx context.Context, grant leave.BonusGrant) (leave.BonusGrant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bonus_grants (id, employee_id, year, bonus_days, reason, legal_basis, granted_by, created_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		grant.EmployeeID, grant.Year, grant.BonusDays,
		grant.Reason, grant.LegalBasis, grant.GrantedBy,
	).Scan(&grant.ID, &grant.CreatedAt)
	if err != nil {
		return leave.BonusGrant{}, fmt.Errorf("failed to create bonus grant: %w", err)
	}

	return grant, nil
}

func (r *bonusRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.BonusGrant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, bonus_days, reason, legal_basis, granted_by, created_at
		FROM bonus_grants
		WHERE employee_id = $1 AND year = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []leave.BonusGrant
	for rows.Next() {
		var g leave.BonusGrant
		err := rows.Scan(
			&g.ID,
			&g.EmployeeID,
			&g.Year,
			&g.BonusDays,
			&g.Reason,
			&g.LegalBasis,
			&g.GrantedBy,
			&g.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return grants, nil
}

func (r *bonusRepositoryImpl) SumByEmployeeYear(ctx context.Context, employeeID string, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(bonus_days), 0)
		FROM bonus_grants
		WHERE employee_id = $1 AND year = $2
	`
	var sum int
	err := q.QueryRow(ctx, query, employeeID, year).Scan(&sum)
	return sum, err
}
