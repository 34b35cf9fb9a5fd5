package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) leave.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

const accountColumns = `id, employee_id, year, base_allocation_days, used_days, created_at, updated_at`

func scanAccount(row pgx.Row) (leave.Account, error) {
	var a leave.Account
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Year,
		&a.BaseAllocationDays,
		&a.UsedDays,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Account{}, leave.ErrAccountNotFound
		}
		return leave.Account{}, err
	}
	return a, nil
}

func (r *accountRepositoryImpl) Create(ctx context.Context, account leave.Account) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_accounts (id, employee_id, year, base_allocation_days, used_days, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		account.EmployeeID, account.Year, account.BaseAllocationDays, account.UsedDays,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.Account{}, leave.ErrAccountAlreadyExists
		}
		return leave.Account{}, fmt.Errorf("failed to create leave account: %w", err)
	}

	return account, nil
}

func (r *accountRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + accountColumns + ` FROM leave_accounts WHERE id = $1`
	return scanAccount(q.QueryRow(ctx, query, id))
}

func (r *accountRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + accountColumns + ` FROM leave_accounts WHERE id = $1 FOR UPDATE`
	return scanAccount(q.QueryRow(ctx, query, id))
}

func (r *accountRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + accountColumns + ` FROM leave_accounts WHERE employee_id = $1 AND year = $2`
	return scanAccount(q.QueryRow(ctx, query, employeeID, year))
}

func (r *accountRepositoryImpl) GetByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (leave.Account, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + accountColumns + ` FROM leave_accounts WHERE employee_id = $1 AND year = $2 FOR UPDATE`
	return scanAccount(q.QueryRow(ctx, query, employeeID, year))
}

func (r *accountRepositoryImpl) UpdateUsedDays(ctx context.Context, id string, usedDays int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_accounts
		SET used_days = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`
	var updatedID string
	if err := q.QueryRow(ctx, query, usedDays, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrAccountNotFound
		}
		return fmt.Errorf("failed to update used days for account %s: %w", id, err)
	}
	return nil
}
