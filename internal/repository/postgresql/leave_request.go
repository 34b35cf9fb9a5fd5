package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) leave.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

func (r *requestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, account_id, replacement_id,
			start_date, end_date, working_days, year,
			status, signed_by_employee,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7,
			$8, NOW(),
			NOW(), NOW()
		) RETURNING id, signed_by_employee, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.AccountID, request.ReplacementID,
		request.StartDate, request.EndDate, request.WorkingDays, request.Year,
		request.Status,
	).Scan(&request.ID, &request.SignedByEmployee, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

const requestSelect = `
	SELECT lr.id, lr.employee_id, lr.account_id, lr.replacement_id,
		   lr.start_date, lr.end_date, lr.working_days, lr.year,
		   lr.status, lr.signed_by_employee,
		   lr.director_id, lr.director_signed_at,
		   lr.dept_head_id, lr.dept_head_signed_at,
		   lr.rejected_by, lr.rejected_at, lr.rejection_reason,
		   lr.created_at, lr.updated_at,
		   e.full_name as employee_name,
		   rep.full_name as replacement_name
	FROM leave_requests lr
	JOIN employees e ON lr.employee_id = e.id
	LEFT JOIN employees rep ON lr.replacement_id = rep.id
`

func scanRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	var employeeName string
	var replacementName *string

	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.AccountID, &req.ReplacementID,
		&req.StartDate, &req.EndDate, &req.WorkingDays, &req.Year,
		&req.Status, &req.SignedByEmployee,
		&req.DirectorID, &req.DirectorSignedAt,
		&req.DeptHeadID, &req.DeptHeadSignedAt,
		&req.RejectedBy, &req.RejectedAt, &req.RejectionReason,
		&req.CreatedAt, &req.UpdatedAt,
		&employeeName, &replacementName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, err
	}

	req.EmployeeName = &employeeName
	req.ReplacementName = replacementName

	return req, nil
}

func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	return scanRequest(q.QueryRow(ctx, requestSelect+` WHERE lr.id = $1`, id))
}

func (r *requestRepositoryImpl) list(ctx context.Context, baseWhere string, baseArgs []interface{}, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{}
	args := baseArgs
	argIdx := len(args) + 1

	if baseWhere != "" {
		whereClauses = append(whereClauses, baseWhere)
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.start_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.end_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM leave_requests lr
	` + whereClause

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := requestSelect + whereClause +
		fmt.Sprintf(" ORDER BY lr.signed_by_employee DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		var employeeName string
		var replacementName *string

		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.AccountID, &req.ReplacementID,
			&req.StartDate, &req.EndDate, &req.WorkingDays, &req.Year,
			&req.Status, &req.SignedByEmployee,
			&req.DirectorID, &req.DirectorSignedAt,
			&req.DeptHeadID, &req.DeptHeadSignedAt,
			&req.RejectedBy, &req.RejectedAt, &req.RejectionReason,
			&req.CreatedAt, &req.UpdatedAt,
			&employeeName, &replacementName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}

		req.EmployeeName = &employeeName
		req.ReplacementName = replacementName
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, total, nil
}

func (r *requestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	return r.list(ctx, "", nil, filter)
}

func (r *requestRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	return r.list(ctx, "lr.employee_id = $1", []interface{}{employeeID}, filter)
}

// UpdateStatusCAS performs the compare-and-set transition. The WHERE
// clause carries the expected source status so concurrent approvers
// serialize on the row; zero rows affected means the request moved on
// and the caller lost the race.
func (r *requestRepositoryImpl) UpdateStatusCAS(ctx context.Context, id string, expected, next leave.RequestStatus, actorID string, at time.Time, rejectionReason *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var query string
	var args []interface{}

	switch next {
	case leave.StatusPendingDepartmentHead:
		query = `
			UPDATE leave_requests
			SET status = $1, director_id = $2, director_signed_at = $3, updated_at = NOW()
			WHERE id = $4 AND status = $5
		`
		args = []interface{}{next, actorID, at, id, expected}
	case leave.StatusApproved:
		query = `
			UPDATE leave_requests
			SET status = $1, dept_head_id = $2, dept_head_signed_at = $3, updated_at = NOW()
			WHERE id = $4 AND status = $5
		`
		args = []interface{}{next, actorID, at, id, expected}
	case leave.StatusRejected:
		query = `
			UPDATE leave_requests
			SET status = $1, rejected_by = $2, rejected_at = $3, rejection_reason = $4, updated_at = NOW()
			WHERE id = $5 AND status = $6
		`
		args = []interface{}{next, actorID, at, rejectionReason, id, expected}
	default:
		return false, fmt.Errorf("unsupported target status %q", next)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to transition leave request %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *requestRepositoryImpl) UpdateDates(ctx context.Context, id string, startDate, endDate time.Time, workingDays int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET start_date = $1, end_date = $2, working_days = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id
	`
	var updatedID string
	if err := q.QueryRow(ctx, query, startDate, endDate, workingDays, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrRequestNotFound
		}
		return fmt.Errorf("failed to update dates for leave request %s: %w", id, err)
	}
	return nil
}

func (r *requestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return leave.ErrRequestNotFound
	}
	return nil
}

func (r *requestRepositoryImpl) HasOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeRequestID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// excludeRequestID is nil on submission; a nil *string binds as a
	// SQL NULL, disabling the exclusion clause.
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			AND ($2::uuid IS NULL OR id <> $2::uuid)
			AND status IN ('pending_director', 'pending_department_head', 'approved')
			AND start_date <= $4 AND end_date >= $3
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, excludeRequestID, startDate, endDate).Scan(&exists)
	return exists, err
}
