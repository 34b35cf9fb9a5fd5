package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrportal/leave-backend-go/internal/domain/audit"
	"github.com/hrportal/leave-backend-go/internal/domain/holiday"
	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
	"github.com/hrportal/leave-backend-go/internal/pkg/validator"
	"github.com/hrportal/leave-backend-go/internal/service/calendar"
)

// CorrectionService is the HR-only post-hoc edit and delete engine.
// Ledger deltas exist only for approved requests; a pending request
// has no debit to correct, so edits just rewrite its dates.
type CorrectionService struct {
	tx       database.TxManager
	calendar *calendar.Calendar
	ledger   *LedgerService
	leave.RequestRepository
	holidays holiday.Repository
	auditor  audit.Emitter
}

func NewCorrectionService(
	tx database.TxManager,
	cal *calendar.Calendar,
	ledger *LedgerService,
	requestRepository leave.RequestRepository,
	holidayRepository holiday.Repository,
	auditor audit.Emitter,
) *CorrectionService {
	return &CorrectionService{
		tx:                tx,
		calendar:          cal,
		ledger:            ledger,
		RequestRepository: requestRepository,
		holidays:          holidayRepository,
		auditor:           auditor,
	}
}

func (c *CorrectionService) Edit(ctx context.Context, req leave.EditRequestRequest, actorID string) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	policy := leave.DeductionPolicy(req.Policy)
	if req.Policy == "" {
		policy = leave.PolicyAuto
	}

	request, err := c.RequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	// The ledger delta applies to the request's original year account;
	// moving a request across years is a delete-and-resubmit.
	if startDate.Year() != request.Year || endDate.Year() != request.Year {
		return leave.RequestResponse{}, validator.ValidationErrors{{
			Field:   "start_date",
			Message: fmt.Sprintf("edited dates must stay within year %d", request.Year),
		}}
	}

	custom, err := c.holidays.GetByDateRange(ctx, startDate, endDate)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to load custom holidays: %w", err)
	}
	newWorkingDays, _ := c.calendar.ComputeWorkingDays(startDate, endDate, holiday.MapByDate(custom))
	if newWorkingDays <= 0 {
		return leave.RequestResponse{}, leave.ErrZeroWorkingDays
	}

	hasOverlap, err := c.RequestRepository.HasOverlapping(ctx, request.EmployeeID, startDate, endDate, &request.ID)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if hasOverlap {
		return leave.RequestResponse{}, leave.ErrOverlappingRequest
	}

	delta := newWorkingDays - request.WorkingDays

	err = c.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if request.Status == leave.StatusApproved && delta != 0 {
			if err := c.ledger.applyDeltaLocked(txCtx, request.EmployeeID, request.Year, delta, policy); err != nil {
				return err
			}
		}
		return c.RequestRepository.UpdateDates(txCtx, request.ID, startDate, endDate, newWorkingDays)
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	c.auditor.Emit(audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionRequestEdited,
		EntityType: "leave_request",
		EntityID:   request.ID,
		Details: map[string]interface{}{
			"old_start_date":   request.StartDate.Format("2006-01-02"),
			"old_end_date":     request.EndDate.Format("2006-01-02"),
			"old_working_days": request.WorkingDays,
			"new_start_date":   req.StartDate,
			"new_end_date":     req.EndDate,
			"new_working_days": newWorkingDays,
			"delta":            delta,
			"policy":           string(policy),
		},
	})

	updated, err := c.RequestRepository.GetByID(ctx, request.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return updated.ToResponse(), nil
}

func (c *CorrectionService) Delete(ctx context.Context, req leave.DeleteRequestRequest, actorID string) error {
	if err := req.Validate(); err != nil {
		return err
	}

	policy := leave.DeductionPolicy(req.Policy)
	if req.Policy == "" {
		policy = leave.PolicyCurrentOnly
	}

	request, err := c.RequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return err
	}

	reversalSkipped := false
	err = c.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if request.Status == leave.StatusApproved {
			err := c.ledger.applyDeltaLocked(txCtx, request.EmployeeID, request.Year, -request.WorkingDays, policy)
			switch {
			case errors.Is(err, leave.ErrAccountNotFound):
				// The request must still be deletable; skip the reversal
				// and surface it as a warning event.
				reversalSkipped = true
				slog.Warn("ledger account missing on delete, reversal skipped",
					"request_id", request.ID,
					"employee_id", request.EmployeeID,
					"year", request.Year,
				)
			case err != nil:
				return err
			}
		}
		return c.RequestRepository.Delete(txCtx, request.ID)
	})
	if err != nil {
		return err
	}

	if reversalSkipped {
		c.auditor.Emit(audit.Event{
			ActorID:    actorID,
			Action:     audit.ActionReversalSkipped,
			EntityType: "leave_request",
			EntityID:   request.ID,
			Details: map[string]interface{}{
				"employee_id":  request.EmployeeID,
				"year":         request.Year,
				"working_days": request.WorkingDays,
			},
		})
	}

	c.auditor.Emit(audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionRequestDeleted,
		EntityType: "leave_request",
		EntityID:   request.ID,
		Details: map[string]interface{}{
			"employee_id":  request.EmployeeID,
			"status":       string(request.Status),
			"working_days": request.WorkingDays,
			"policy":       string(policy),
		},
	})

	return nil
}
