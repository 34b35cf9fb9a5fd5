package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

type carryoverRepositoryImpl struct {
	db *database.DB
}

func NewCarryoverRepository(db *database.DB) leave.CarryoverRepository {
	return &carryoverRepositoryImpl{db: db}
}

const carryoverColumns = `id, employee_id, from_year, to_year, initial_days, used_days, remaining_days, created_at, updated_at`

func (r *carryoverRepositoryImpl) Create(ctx context.Context, grant leave.CarryoverGrant) (leave.CarryoverGrant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO carryover_grants (id, employee_id, from_year, to_year, initial_days, used_days, remaining_days, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		grant.EmployeeID, grant.FromYear, grant.ToYear,
		grant.InitialDays, grant.UsedDays, grant.RemainingDays,
	).Scan(&grant.ID, &grant.CreatedAt, &grant.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.CarryoverGrant{}, leave.ErrDuplicateCarryover
		}
		return leave.CarryoverGrant{}, fmt.Errorf("failed to create carryover grant: %w", err)
	}

	return grant, nil
}

func (r *carryoverRepositoryImpl) getByEmployeeToYear(ctx context.Context, employeeID string, toYear int, forUpdate bool) ([]leave.CarryoverGrant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + carryoverColumns + `
		FROM carryover_grants
		WHERE employee_id = $1 AND to_year = $2
		ORDER BY from_year ASC
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, employeeID, toYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []leave.CarryoverGrant
	for rows.Next() {
		var g leave.CarryoverGrant
		err := rows.Scan(
			&g.ID,
			&g.EmployeeID,
			&g.FromYear,
			&g.ToYear,
			&g.InitialDays,
			&g.UsedDays,
			&g.RemainingDays,
			&g.CreatedAt,
			&g.UpdatedAt,
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

func (r *carryoverRepositoryImpl) GetByEmployeeToYear(ctx context.Context, employeeID string, toYear int) ([]leave.CarryoverGrant, error) {
	return r.getByEmployeeToYear(ctx, employeeID, toYear, false)
}

func (r *carryoverRepositoryImpl) GetByEmployeeToYearForUpdate(ctx context.Context, employeeID string, toYear int) ([]leave.CarryoverGrant, error) {
	return r.getByEmployeeToYear(ctx, employeeID, toYear, true)
}

func (r *carryoverRepositoryImpl) UpdateUsage(ctx context.Context, id string, usedDays, remainingDays int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE carryover_grants
		SET used_days = $1, remaining_days = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id
	`
	var updatedID string
	if err := q.QueryRow(ctx, query, usedDays, remainingDays, id).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update carryover grant %s: %w", id, err)
	}
	return nil
}

func (r *carryoverRepositoryImpl) Exists(ctx context.Context, employeeID string, fromYear, toYear int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM carryover_grants
			WHERE employee_id = $1 AND from_year = $2 AND to_year = $3
		)
	`
	var exists bool
	err := q.QueryRow(ctx, query, employeeID, fromYear, toYear).Scan(&exists)
	return exists, err
}
