package leave

import (
	"context"
	"fmt"

	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
)

// LedgerService owns every mutation of usedDays and carryover usage.
// Mutations lock the account row (and carryover rows when touched) and
// re-evaluate the balance under the lock before writing.
type LedgerService struct {
	tx database.TxManager
	leave.AccountRepository
	leave.CarryoverRepository
	leave.BonusRepository
}

func NewLedgerService(
	tx database.TxManager,
	accountRepository leave.AccountRepository,
	carryoverRepository leave.CarryoverRepository,
	bonusRepository leave.BonusRepository,
) *LedgerService {
	return &LedgerService{
		tx:                  tx,
		AccountRepository:   accountRepository,
		CarryoverRepository: carryoverRepository,
		BonusRepository:     bonusRepository,
	}
}

func (l *LedgerService) AvailableBalance(ctx context.Context, employeeID string, year int) (leave.BalanceBreakdown, error) {
	account, err := l.AccountRepository.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceBreakdown{}, err
	}

	grants, err := l.CarryoverRepository.GetByEmployeeToYear(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceBreakdown{}, fmt.Errorf("failed to get carryover grants: %w", err)
	}

	bonusDays, err := l.BonusRepository.SumByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceBreakdown{}, fmt.Errorf("failed to sum bonus grants: %w", err)
	}

	carryoverRemaining := 0
	for _, g := range grants {
		carryoverRemaining += g.RemainingDays
	}

	breakdown := leave.BalanceBreakdown{
		EmployeeID:         employeeID,
		Year:               year,
		BaseAllocationDays: account.BaseAllocationDays,
		CarryoverRemaining: carryoverRemaining,
		BonusDays:          bonusDays,
		UsedDays:           account.UsedDays,
	}

	return breakdown.Recompute(), nil
}

func (l *LedgerService) Debit(ctx context.Context, employeeID string, year int, days int) error {
	return l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return l.debitLocked(txCtx, employeeID, year, days)
	})
}

// debitLocked performs the debit inside an already-open transaction so
// the workflow service can combine it with a status transition.
func (l *LedgerService) debitLocked(ctx context.Context, employeeID string, year int, days int) error {
	account, err := l.AccountRepository.GetByEmployeeYearForUpdate(ctx, employeeID, year)
	if err != nil {
		return err
	}

	// The balance an earlier validation saw may be stale; recheck it
	// while the account row is locked.
	available, err := l.availableLocked(ctx, account, year)
	if err != nil {
		return err
	}
	if days > available {
		return leave.ErrInsufficientBalance
	}

	if err := l.AccountRepository.UpdateUsedDays(ctx, account.ID, account.UsedDays+days); err != nil {
		return fmt.Errorf("failed to update used days: %w", err)
	}

	return nil
}

func (l *LedgerService) Credit(ctx context.Context, employeeID string, year int, days int) error {
	return l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return l.creditLocked(txCtx, employeeID, year, days)
	})
}

func (l *LedgerService) creditLocked(ctx context.Context, employeeID string, year int, days int) error {
	account, err := l.AccountRepository.GetByEmployeeYearForUpdate(ctx, employeeID, year)
	if err != nil {
		return err
	}

	newUsed := account.UsedDays - days
	if newUsed < 0 {
		newUsed = 0
	}

	if err := l.AccountRepository.UpdateUsedDays(ctx, account.ID, newUsed); err != nil {
		return fmt.Errorf("failed to update used days: %w", err)
	}

	return nil
}

func (l *LedgerService) ApplyDelta(ctx context.Context, employeeID string, year int, delta int, policy leave.DeductionPolicy) error {
	if delta == 0 {
		return nil
	}
	return l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return l.applyDeltaLocked(txCtx, employeeID, year, delta, policy)
	})
}

func (l *LedgerService) applyDeltaLocked(ctx context.Context, employeeID string, year int, delta int, policy leave.DeductionPolicy) error {
	if delta == 0 {
		return nil
	}

	switch policy {
	case leave.PolicyAuto:
		if delta > 0 {
			// Consume carryover remaining first, oldest grant first,
			// then the current-year bucket.
			left, err := l.consumeCarryover(ctx, employeeID, year, delta)
			if err != nil {
				return err
			}
			if left > 0 {
				return l.adjustUsedDays(ctx, employeeID, year, left)
			}
			return nil
		}
		// Refunds go to the current-year bucket only.
		return l.creditLocked(ctx, employeeID, year, -delta)

	case leave.PolicyCarryoverOnly:
		if delta > 0 {
			left, err := l.consumeCarryover(ctx, employeeID, year, delta)
			if err != nil {
				return err
			}
			if left > 0 {
				return leave.ErrPolicyBucketExhausted
			}
			return nil
		}
		return l.refundCarryover(ctx, employeeID, year, -delta)

	case leave.PolicyCurrentOnly:
		if delta > 0 {
			return l.adjustUsedDays(ctx, employeeID, year, delta)
		}
		return l.creditLocked(ctx, employeeID, year, -delta)

	default:
		return fmt.Errorf("unknown deduction policy %q", policy)
	}
}

// consumeCarryover draws days from the employee's carryover grants for
// year, oldest FromYear first, and returns the portion it could not
// cover. Rolls back nothing itself; callers run inside a transaction.
func (l *LedgerService) consumeCarryover(ctx context.Context, employeeID string, year int, days int) (int, error) {
	grants, err := l.CarryoverRepository.GetByEmployeeToYearForUpdate(ctx, employeeID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to lock carryover grants: %w", err)
	}

	left := days
	for _, g := range grants {
		if left == 0 {
			break
		}
		if g.RemainingDays <= 0 {
			continue
		}
		take := g.RemainingDays
		if take > left {
			take = left
		}
		if err := l.CarryoverRepository.UpdateUsage(ctx, g.ID, g.UsedDays+take, g.RemainingDays-take); err != nil {
			return 0, fmt.Errorf("failed to update carryover usage: %w", err)
		}
		left -= take
	}

	return left, nil
}

// refundCarryover returns days to the employee's carryover grants,
// most recent FromYear first, clamping each grant's usedDays at zero.
// Refund beyond what the grants consumed is dropped.
func (l *LedgerService) refundCarryover(ctx context.Context, employeeID string, year int, days int) error {
	grants, err := l.CarryoverRepository.GetByEmployeeToYearForUpdate(ctx, employeeID, year)
	if err != nil {
		return fmt.Errorf("failed to lock carryover grants: %w", err)
	}

	left := days
	for i := len(grants) - 1; i >= 0 && left > 0; i-- {
		g := grants[i]
		if g.UsedDays <= 0 {
			continue
		}
		back := g.UsedDays
		if back > left {
			back = left
		}
		if err := l.CarryoverRepository.UpdateUsage(ctx, g.ID, g.UsedDays-back, g.RemainingDays+back); err != nil {
			return fmt.Errorf("failed to update carryover usage: %w", err)
		}
		left -= back
	}

	return nil
}

func (l *LedgerService) adjustUsedDays(ctx context.Context, employeeID string, year int, days int) error {
	account, err := l.AccountRepository.GetByEmployeeYearForUpdate(ctx, employeeID, year)
	if err != nil {
		return err
	}
	if err := l.AccountRepository.UpdateUsedDays(ctx, account.ID, account.UsedDays+days); err != nil {
		return fmt.Errorf("failed to update used days: %w", err)
	}
	return nil
}

func (l *LedgerService) availableLocked(ctx context.Context, account leave.Account, year int) (int, error) {
	grants, err := l.CarryoverRepository.GetByEmployeeToYear(ctx, account.EmployeeID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to get carryover grants: %w", err)
	}

	bonusDays, err := l.BonusRepository.SumByEmployeeYear(ctx, account.EmployeeID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to sum bonus grants: %w", err)
	}

	carryoverRemaining := 0
	for _, g := range grants {
		carryoverRemaining += g.RemainingDays
	}

	return account.BaseAllocationDays + carryoverRemaining + bonusDays - account.UsedDays, nil
}
