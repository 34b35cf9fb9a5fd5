package leave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrportal/leave-backend-go/internal/domain/audit"
	"github.com/hrportal/leave-backend-go/internal/domain/employee"
	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/pkg/validator"
)

func TestCreateAccount_DefaultAllocation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	account, err := env.grants.CreateAccount(context.Background(), leave.CreateAccountRequest{
		EmployeeID: "emp-1",
		Year:       2026,
	}, "hr-1")
	require.NoError(t, err)

	assert.Equal(t, leave.DefaultBaseAllocationDays, account.BaseAllocationDays)
	assert.Equal(t, 0, account.UsedDays)
	assert.Contains(t, env.auditor.actions(), audit.ActionAccountCreated)
}

func TestCreateAccount_ExplicitAllocation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	base := 25
	account, err := env.grants.CreateAccount(context.Background(), leave.CreateAccountRequest{
		EmployeeID:         "emp-1",
		Year:               2026,
		BaseAllocationDays: &base,
	}, "hr-1")
	require.NoError(t, err)
	assert.Equal(t, 25, account.BaseAllocationDays)
}

func TestCreateAccount_Duplicate(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.seedAccount(t, "emp-1", 2026, 21, 0)

	_, err := env.grants.CreateAccount(context.Background(), leave.CreateAccountRequest{
		EmployeeID: "emp-1",
		Year:       2026,
	}, "hr-1")
	assert.ErrorIs(t, err, leave.ErrAccountAlreadyExists)
}

func TestCreateAccount_UnknownEmployee(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	_, err := env.grants.CreateAccount(context.Background(), leave.CreateAccountRequest{
		EmployeeID: "emp-ghost",
		Year:       2026,
	}, "hr-1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCreateBonusGrant(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	grant, err := env.grants.CreateBonusGrant(context.Background(), leave.CreateBonusGrantRequest{
		EmployeeID: "emp-1",
		Year:       2026,
		BonusDays:  3,
		Reason:     "disability entitlement",
		LegalBasis: "art. 147 Codul muncii",
	}, "hr-1")
	require.NoError(t, err)

	assert.Equal(t, "hr-1", grant.GrantedBy)
	assert.Equal(t, 3, grant.BonusDays)

	sum, err := env.bonuses.SumByEmployeeYear(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, sum)
	assert.Contains(t, env.auditor.actions(), audit.ActionBonusGrantCreated)
}

func TestCreateBonusGrant_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	tests := []struct {
		name string
		req  leave.CreateBonusGrantRequest
	}{
		{
			name: "non-positive days",
			req: leave.CreateBonusGrantRequest{
				EmployeeID: "emp-1", Year: 2026, BonusDays: 0,
				Reason: "x", LegalBasis: "y",
			},
		},
		{
			name: "missing reason",
			req: leave.CreateBonusGrantRequest{
				EmployeeID: "emp-1", Year: 2026, BonusDays: 2, LegalBasis: "y",
			},
		},
		{
			name: "missing legal basis",
			req: leave.CreateBonusGrantRequest{
				EmployeeID: "emp-1", Year: 2026, BonusDays: 2, Reason: "x",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.grants.CreateBonusGrant(context.Background(), tt.req, "hr-1")
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

func TestListBonusGrants_FiltersByYear(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	for _, year := range []int{2025, 2026} {
		_, err := env.grants.CreateBonusGrant(context.Background(), leave.CreateBonusGrantRequest{
			EmployeeID: "emp-1", Year: year, BonusDays: 1,
			Reason: "seniority", LegalBasis: "CCM art. 12",
		}, "hr-1")
		require.NoError(t, err)
	}

	grants, err := env.grants.ListBonusGrants(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, 2026, grants[0].Year)
}

func TestImportCarryover_AppliesValidRows(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	result, err := env.grants.ImportCarryover(context.Background(), leave.ImportCarryoverRequest{
		FromYear: 2025,
		ToYear:   2026,
		Items: []leave.CarryoverImportItem{
			{EmployeeID: "emp-1", InitialDays: 4},
			{EmployeeID: "emp-2", InitialDays: 2},
		},
	}, "hr-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Failed)

	grants, err := env.carryovers.GetByEmployeeToYear(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, 4, grants[0].InitialDays)
	assert.Equal(t, 4, grants[0].RemainingDays)
	assert.Equal(t, 0, grants[0].UsedDays)

	assert.Contains(t, env.auditor.actions(), audit.ActionCarryoverImported)
}

func TestImportCarryover_BadRowsDoNotSinkTheRest(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.seedCarryover(t, "emp-2", 2025, 3, 0)

	result, err := env.grants.ImportCarryover(context.Background(), leave.ImportCarryoverRequest{
		FromYear: 2025,
		ToYear:   2026,
		Items: []leave.CarryoverImportItem{
			{EmployeeID: "emp-1", InitialDays: 4},
			{EmployeeID: "emp-2", InitialDays: 2},     // duplicate grant
			{EmployeeID: "emp-ghost", InitialDays: 1}, // unknown employee
			{EmployeeID: "dir-1", InitialDays: 0},     // non-positive days
		},
	}, "hr-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Failed, 3)

	failedIDs := make([]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failedIDs = append(failedIDs, f.EmployeeID)
	}
	assert.ElementsMatch(t, []string{"emp-2", "emp-ghost", "dir-1"}, failedIDs)

	// The duplicate row left the existing grant untouched.
	grants, err := env.carryovers.GetByEmployeeToYear(context.Background(), "emp-2", 2026)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, 3, grants[0].InitialDays)
}

func TestImportCarryover_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	tests := []struct {
		name string
		req  leave.ImportCarryoverRequest
	}{
		{
			name: "to_year not adjacent",
			req: leave.ImportCarryoverRequest{
				FromYear: 2025, ToYear: 2027,
				Items: []leave.CarryoverImportItem{{EmployeeID: "emp-1", InitialDays: 1}},
			},
		},
		{
			name: "empty items",
			req:  leave.ImportCarryoverRequest{FromYear: 2025, ToYear: 2026},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.grants.ImportCarryover(context.Background(), tt.req, "hr-1")
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}
