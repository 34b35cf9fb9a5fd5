package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrportal/leave-backend-go/internal/domain/audit"
	"github.com/hrportal/leave-backend-go/internal/domain/employee"
	"github.com/hrportal/leave-backend-go/internal/domain/leave"
)

// GrantsService covers HR entitlement provisioning: account creation,
// bonus grants and the yearly carryover import.
type GrantsService struct {
	leave.AccountRepository
	leave.CarryoverRepository
	leave.BonusRepository
	directory employee.Directory
	auditor   audit.Emitter
}

func NewGrantsService(
	accountRepository leave.AccountRepository,
	carryoverRepository leave.CarryoverRepository,
	bonusRepository leave.BonusRepository,
	directory employee.Directory,
	auditor audit.Emitter,
) *GrantsService {
	return &GrantsService{
		AccountRepository:   accountRepository,
		CarryoverRepository: carryoverRepository,
		BonusRepository:     bonusRepository,
		directory:           directory,
		auditor:             auditor,
	}
}

func (g *GrantsService) CreateAccount(ctx context.Context, req leave.CreateAccountRequest, actorID string) (leave.Account, error) {
	if err := req.Validate(); err != nil {
		return leave.Account{}, err
	}

	if _, err := g.directory.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.Account{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	baseDays := leave.DefaultBaseAllocationDays
	if req.BaseAllocationDays != nil {
		baseDays = *req.BaseAllocationDays
	}

	account, err := g.AccountRepository.Create(ctx, leave.Account{
		EmployeeID:         req.EmployeeID,
		Year:               req.Year,
		BaseAllocationDays: baseDays,
	})
	if err != nil {
		return leave.Account{}, err
	}

	g.auditor.Emit(audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionAccountCreated,
		EntityType: "leave_account",
		EntityID:   account.ID,
		Details: map[string]interface{}{
			"employee_id":          req.EmployeeID,
			"year":                 req.Year,
			"base_allocation_days": baseDays,
		},
	})

	return account, nil
}

func (g *GrantsService) CreateBonusGrant(ctx context.Context, req leave.CreateBonusGrantRequest, actorID string) (leave.BonusGrant, error) {
	if err := req.Validate(); err != nil {
		return leave.BonusGrant{}, err
	}

	if _, err := g.directory.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.BonusGrant{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	grant, err := g.BonusRepository.Create(ctx, leave.BonusGrant{
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		BonusDays:  req.BonusDays,
		Reason:     req.Reason,
		LegalBasis: req.LegalBasis,
		GrantedBy:  actorID,
	})
	if err != nil {
		return leave.BonusGrant{}, fmt.Errorf("failed to create bonus grant: %w", err)
	}

	g.auditor.Emit(audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionBonusGrantCreated,
		EntityType: "bonus_grant",
		EntityID:   grant.ID,
		Details: map[string]interface{}{
			"employee_id": req.EmployeeID,
			"year":        req.Year,
			"bonus_days":  req.BonusDays,
			"reason":      req.Reason,
			"legal_basis": req.LegalBasis,
		},
	})

	return grant, nil
}

func (g *GrantsService) ListBonusGrants(ctx context.Context, employeeID string, year int) ([]leave.BonusGrant, error) {
	grants, err := g.BonusRepository.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus grants: %w", err)
	}
	return grants, nil
}

// ImportCarryover applies the yearly carryover roster. Rows are
// validated and applied independently so one bad row does not sink the
// rest of the import.
func (g *GrantsService) ImportCarryover(ctx context.Context, req leave.ImportCarryoverRequest, actorID string) (leave.CarryoverImportResult, error) {
	if err := req.Validate(); err != nil {
		return leave.CarryoverImportResult{}, err
	}

	var result leave.CarryoverImportResult
	for _, item := range req.Items {
		if err := g.importCarryoverItem(ctx, req.FromYear, req.ToYear, item); err != nil {
			result.Failed = append(result.Failed, leave.CarryoverRowError{
				EmployeeID: item.EmployeeID,
				Message:    err.Error(),
			})
			continue
		}
		result.Imported++
	}

	g.auditor.Emit(audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionCarryoverImported,
		EntityType: "carryover_grant",
		EntityID:   fmt.Sprintf("%d-%d", req.FromYear, req.ToYear),
		Details: map[string]interface{}{
			"from_year": req.FromYear,
			"to_year":   req.ToYear,
			"imported":  result.Imported,
			"failed":    len(result.Failed),
		},
	})

	return result, nil
}

func (g *GrantsService) importCarryoverItem(ctx context.Context, fromYear, toYear int, item leave.CarryoverImportItem) error {
	if item.EmployeeID == "" {
		return errors.New("employee_id is required")
	}
	if item.InitialDays <= 0 {
		return errors.New("initial_days must be a positive integer")
	}

	if _, err := g.directory.GetByID(ctx, item.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to resolve employee: %w", err)
	}

	_, err := g.CarryoverRepository.Create(ctx, leave.CarryoverGrant{
		EmployeeID:    item.EmployeeID,
		FromYear:      fromYear,
		ToYear:        toYear,
		InitialDays:   item.InitialDays,
		UsedDays:      0,
		RemainingDays: item.InitialDays,
	})
	return err
}
