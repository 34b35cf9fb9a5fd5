package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/hrportal/leave-backend-go/internal/domain/audit"
	"github.com/hrportal/leave-backend-go/internal/domain/employee"
	"github.com/hrportal/leave-backend-go/internal/domain/holiday"
	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/domain/notification"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
	"github.com/hrportal/leave-backend-go/internal/service/calendar"
)

// WorkflowService drives a leave request through the two-stage
// approval pipeline. Transitions are compare-and-set on status; the
// ledger debit happens on entering approved, inside the same
// transaction as the status change, and nowhere else.
type WorkflowService struct {
	tx       database.TxManager
	calendar *calendar.Calendar
	ledger   *LedgerService
	leave.RequestRepository
	leave.AccountRepository
	holidays  holiday.Repository
	directory employee.Directory
	auditor   audit.Emitter
	notifier  notification.Dispatcher
}

func NewWorkflowService(
	tx database.TxManager,
	cal *calendar.Calendar,
	ledger *LedgerService,
	requestRepository leave.RequestRepository,
	accountRepository leave.AccountRepository,
	holidayRepository holiday.Repository,
	directory employee.Directory,
	auditor audit.Emitter,
	notifier notification.Dispatcher,
) *WorkflowService {
	return &WorkflowService{
		tx:                tx,
		calendar:          cal,
		ledger:            ledger,
		RequestRepository: requestRepository,
		AccountRepository: accountRepository,
		holidays:          holidayRepository,
		directory:         directory,
		auditor:           auditor,
		notifier:          notifier,
	}
}

func (w *WorkflowService) Submit(ctx context.Context, req leave.SubmitRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	year := startDate.Year()

	if _, err := w.directory.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	if req.ReplacementID != nil {
		if _, err := w.directory.GetByID(ctx, *req.ReplacementID); err != nil {
			return leave.RequestResponse{}, leave.ErrReplacementNotFound
		}
	}

	account, err := w.AccountRepository.GetByEmployeeYear(ctx, req.EmployeeID, year)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	workingDays, _, err := w.workingDays(ctx, startDate, endDate)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if workingDays <= 0 {
		return leave.RequestResponse{}, leave.ErrZeroWorkingDays
	}

	balance, err := w.ledger.AvailableBalance(ctx, req.EmployeeID, year)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if workingDays > balance.Available {
		return leave.RequestResponse{}, leave.ErrInsufficientBalance
	}

	hasOverlap, err := w.RequestRepository.HasOverlapping(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if hasOverlap {
		return leave.RequestResponse{}, leave.ErrOverlappingRequest
	}

	request := leave.Request{
		EmployeeID:       req.EmployeeID,
		AccountID:        account.ID,
		ReplacementID:    req.ReplacementID,
		StartDate:        startDate,
		EndDate:          endDate,
		WorkingDays:      workingDays,
		Year:             year,
		Status:           leave.StatusPendingDirector,
		SignedByEmployee: time.Now(),
	}

	created, err := w.RequestRepository.Create(ctx, request)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	w.auditor.Emit(audit.Event{
		ActorID:    req.EmployeeID,
		Action:     audit.ActionRequestSubmitted,
		EntityType: "leave_request",
		EntityID:   created.ID,
		Details: map[string]interface{}{
			"start_date":   req.StartDate,
			"end_date":     req.EndDate,
			"working_days": workingDays,
			"year":         year,
		},
	})

	return created.ToResponse(), nil
}

func (w *WorkflowService) ApproveAsDirector(ctx context.Context, requestID, directorID string) (leave.RequestResponse, error) {
	request, err := w.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPendingDirector {
		return leave.RequestResponse{}, leave.ErrInvalidTransition
	}

	now := time.Now()
	ok, err := w.RequestRepository.UpdateStatusCAS(ctx, requestID, leave.StatusPendingDirector, leave.StatusPendingDepartmentHead, directorID, now, nil)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update request status: %w", err)
	}
	if !ok {
		return leave.RequestResponse{}, leave.ErrInvalidTransition
	}

	w.auditor.Emit(audit.Event{
		ActorID:    directorID,
		Action:     audit.ActionRequestDirectorSigned,
		EntityType: "leave_request",
		EntityID:   requestID,
		Details: map[string]interface{}{
			"from_status": string(leave.StatusPendingDirector),
			"to_status":   string(leave.StatusPendingDepartmentHead),
		},
	})

	updated, err := w.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return updated.ToResponse(), nil
}

func (w *WorkflowService) ApproveAsDepartmentHead(ctx context.Context, requestID, deptHeadID string) (leave.RequestResponse, error) {
	request, err := w.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPendingDepartmentHead {
		return leave.RequestResponse{}, leave.ErrInvalidTransition
	}

	now := time.Now()
	// The status change and the debit commit together. A stale status
	// fails the CAS; an insufficient balance fails the debit; either
	// way the transaction rolls back and the request stays pending.
	err = w.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		ok, err := w.RequestRepository.UpdateStatusCAS(txCtx, requestID, leave.StatusPendingDepartmentHead, leave.StatusApproved, deptHeadID, now, nil)
		if err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		if !ok {
			return leave.ErrInvalidTransition
		}
		return w.ledger.debitLocked(txCtx, request.EmployeeID, request.Year, request.WorkingDays)
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	w.auditor.Emit(audit.Event{
		ActorID:    deptHeadID,
		Action:     audit.ActionRequestApproved,
		EntityType: "leave_request",
		EntityID:   requestID,
		Details: map[string]interface{}{
			"from_status":  string(leave.StatusPendingDepartmentHead),
			"to_status":    string(leave.StatusApproved),
			"debited_days": request.WorkingDays,
			"year":         request.Year,
		},
	})

	w.notifier.Dispatch(
		request.EmployeeID,
		notification.TypeLeaveApproved,
		"Leave request approved",
		fmt.Sprintf("Your leave request for %s to %s has been approved.",
			request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")),
		&request.ID,
	)

	updated, err := w.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return updated.ToResponse(), nil
}

func (w *WorkflowService) Reject(ctx context.Context, req leave.RejectRequestRequest, approverID string) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := w.RequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPendingDirector && request.Status != leave.StatusPendingDepartmentHead {
		return leave.RequestResponse{}, leave.ErrInvalidTransition
	}

	now := time.Now()
	ok, err := w.RequestRepository.UpdateStatusCAS(ctx, req.RequestID, request.Status, leave.StatusRejected, approverID, now, &req.Reason)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update request status: %w", err)
	}
	if !ok {
		return leave.RequestResponse{}, leave.ErrInvalidTransition
	}

	w.auditor.Emit(audit.Event{
		ActorID:    approverID,
		Action:     audit.ActionRequestRejected,
		EntityType: "leave_request",
		EntityID:   req.RequestID,
		Details: map[string]interface{}{
			"from_status": string(request.Status),
			"reason":      req.Reason,
		},
	})

	w.notifier.Dispatch(
		request.EmployeeID,
		notification.TypeLeaveRejected,
		"Leave request rejected",
		fmt.Sprintf("Your leave request for %s to %s was rejected: %s",
			request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"), req.Reason),
		&request.ID,
	)

	updated, err := w.RequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return updated.ToResponse(), nil
}

func (w *WorkflowService) GetRequest(ctx context.Context, requestID string) (leave.RequestResponse, error) {
	request, err := w.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return request.ToResponse(), nil
}

func (w *WorkflowService) ListRequests(ctx context.Context, filter leave.RequestFilter) ([]leave.RequestResponse, int64, error) {
	requests, total, err := w.RequestRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), total, nil
}

func (w *WorkflowService) ListEmployeeRequests(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.RequestResponse, int64, error) {
	requests, total, err := w.RequestRepository.GetByEmployeeID(ctx, employeeID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), total, nil
}

// WorkingDaysPreview computes the working-day count for a period so
// callers can show the breakdown before submitting.
func (w *WorkflowService) WorkingDaysPreview(ctx context.Context, req leave.WorkingDaysRequest) (leave.WorkingDaysResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	count, excluded, err := w.workingDays(ctx, startDate, endDate)
	if err != nil {
		return leave.WorkingDaysResponse{}, err
	}
	return leave.WorkingDaysResponse{WorkingDays: count, Excluded: excluded}, nil
}

// ListReplacementCandidates returns the employee's department
// colleagues, excluding the employee, for replacement selection.
func (w *WorkflowService) ListReplacementCandidates(ctx context.Context, employeeID string) ([]employee.Employee, error) {
	emp, err := w.directory.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employee: %w", err)
	}

	colleagues, err := w.directory.ListByDepartment(ctx, emp.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to list department colleagues: %w", err)
	}

	out := make([]employee.Employee, 0, len(colleagues))
	for _, c := range colleagues {
		if c.ID != employeeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (w *WorkflowService) workingDays(ctx context.Context, start, end time.Time) (int, []leave.ExcludedDay, error) {
	custom, err := w.holidays.GetByDateRange(ctx, start, end)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load custom holidays: %w", err)
	}
	count, excluded := w.calendar.ComputeWorkingDays(start, end, holiday.MapByDate(custom))
	return count, excluded, nil
}

func toResponses(requests []leave.Request) []leave.RequestResponse {
	out := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ToResponse())
	}
	return out
}
