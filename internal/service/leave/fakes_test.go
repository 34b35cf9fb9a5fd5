package leave

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrportal/leave-backend-go/internal/domain/audit"
	"github.com/hrportal/leave-backend-go/internal/domain/employee"
	"github.com/hrportal/leave-backend-go/internal/domain/holiday"
	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/domain/notification"
	"github.com/hrportal/leave-backend-go/internal/service/calendar"
)

// In-memory repository fakes. The fake transaction manager snapshots
// every registered store before running fn and restores the snapshots
// when fn fails, mirroring a database rollback.

type snapshotter interface {
	snapshot() any
	restore(any)
}

type fakeTxManager struct {
	stores []snapshotter
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshots := make([]any, len(m.stores))
	for i, s := range m.stores {
		snapshots[i] = s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for i, s := range m.stores {
			s.restore(snapshots[i])
		}
		return err
	}
	return nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]leave.Account
	nextID   int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]leave.Account)}
}

func (r *fakeAccountRepo) snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]leave.Account, len(r.accounts))
	for k, v := range r.accounts {
		copied[k] = v
	}
	return copied
}

func (r *fakeAccountRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = s.(map[string]leave.Account)
}

func (r *fakeAccountRepo) Create(ctx context.Context, account leave.Account) (leave.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.EmployeeID == account.EmployeeID && a.Year == account.Year {
			return leave.Account{}, leave.ErrAccountAlreadyExists
		}
	}
	r.nextID++
	account.ID = fmt.Sprintf("account-%d", r.nextID)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) GetByEmployeeYear(ctx context.Context, employeeID string, year int) (leave.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.EmployeeID == employeeID && a.Year == year {
			return a, nil
		}
	}
	return leave.Account{}, leave.ErrAccountNotFound
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (leave.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return leave.Account{}, leave.ErrAccountNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAccountRepo) GetByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (leave.Account, error) {
	return r.GetByEmployeeYear(ctx, employeeID, year)
}

func (r *fakeAccountRepo) UpdateUsedDays(ctx context.Context, id string, usedDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return leave.ErrAccountNotFound
	}
	a.UsedDays = usedDays
	a.UpdatedAt = time.Now()
	r.accounts[id] = a
	return nil
}

type fakeCarryoverRepo struct {
	mu     sync.Mutex
	grants map[string]leave.CarryoverGrant
	nextID int
}

func newFakeCarryoverRepo() *fakeCarryoverRepo {
	return &fakeCarryoverRepo{grants: make(map[string]leave.CarryoverGrant)}
}

func (r *fakeCarryoverRepo) snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]leave.CarryoverGrant, len(r.grants))
	for k, v := range r.grants {
		copied[k] = v
	}
	return copied
}

func (r *fakeCarryoverRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants = s.(map[string]leave.CarryoverGrant)
}

func (r *fakeCarryoverRepo) Create(ctx context.Context, grant leave.CarryoverGrant) (leave.CarryoverGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grants {
		if g.EmployeeID == grant.EmployeeID && g.FromYear == grant.FromYear && g.ToYear == grant.ToYear {
			return leave.CarryoverGrant{}, leave.ErrDuplicateCarryover
		}
	}
	r.nextID++
	grant.ID = fmt.Sprintf("carryover-%d", r.nextID)
	grant.CreatedAt = time.Now()
	grant.UpdatedAt = grant.CreatedAt
	r.grants[grant.ID] = grant
	return grant, nil
}

func (r *fakeCarryoverRepo) GetByEmployeeToYear(ctx context.Context, employeeID string, toYear int) ([]leave.CarryoverGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.CarryoverGrant
	for _, g := range r.grants {
		if g.EmployeeID == employeeID && g.ToYear == toYear {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FromYear < out[j].FromYear })
	return out, nil
}

func (r *fakeCarryoverRepo) GetByEmployeeToYearForUpdate(ctx context.Context, employeeID string, toYear int) ([]leave.CarryoverGrant, error) {
	return r.GetByEmployeeToYear(ctx, employeeID, toYear)
}

func (r *fakeCarryoverRepo) UpdateUsage(ctx context.Context, id string, usedDays, remainingDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grants[id]
	if !ok {
		return fmt.Errorf("carryover grant %s not found", id)
	}
	g.UsedDays = usedDays
	g.RemainingDays = remainingDays
	g.UpdatedAt = time.Now()
	r.grants[id] = g
	return nil
}

func (r *fakeCarryoverRepo) Exists(ctx context.Context, employeeID string, fromYear, toYear int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grants {
		if g.EmployeeID == employeeID && g.FromYear == fromYear && g.ToYear == toYear {
			return true, nil
		}
	}
	return false, nil
}

type fakeBonusRepo struct {
	mu     sync.Mutex
	grants []leave.BonusGrant
	nextID int
}

func newFakeBonusRepo() *fakeBonusRepo {
	return &fakeBonusRepo{}
}

func (r *fakeBonusRepo) snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make([]leave.BonusGrant, len(r.grants))
	copy(copied, r.grants)
	return copied
}

func (r *fakeBonusRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants = s.([]leave.BonusGrant)
}

func (r *fakeBonusRepo) Create(ctx context.Context, grant leave.BonusGrant) (leave.BonusGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	grant.ID = fmt.Sprintf("bonus-%d", r.nextID)
	grant.CreatedAt = time.Now()
	r.grants = append(r.grants, grant)
	return grant, nil
}

func (r *fakeBonusRepo) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.BonusGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.BonusGrant
	for _, g := range r.grants {
		if g.EmployeeID == employeeID && g.Year == year {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeBonusRepo) SumByEmployeeYear(ctx context.Context, employeeID string, year int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, g := range r.grants {
		if g.EmployeeID == employeeID && g.Year == year {
			sum += g.BonusDays
		}
	}
	return sum, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]leave.Request
	nextID   int

	lastOverlapExclude *string
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (r *fakeRequestRepo) snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]leave.Request, len(r.requests))
	for k, v := range r.requests {
		copied[k] = v
	}
	return copied
}

func (r *fakeRequestRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = s.(map[string]leave.Request)
}

func (r *fakeRequestRepo) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	request.ID = fmt.Sprintf("request-%d", r.nextID)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.requests[request.ID] = request
	return request, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) GetByEmployeeID(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	filter.EmployeeID = &employeeID
	return r.List(ctx, filter)
}

func (r *fakeRequestRepo) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.Request
	for _, req := range r.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) UpdateStatusCAS(ctx context.Context, id string, expected, next leave.RequestStatus, actorID string, at time.Time, rejectionReason *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != expected {
		return false, nil
	}
	req.Status = next
	switch next {
	case leave.StatusPendingDepartmentHead:
		req.DirectorID = &actorID
		req.DirectorSignedAt = &at
	case leave.StatusApproved:
		req.DeptHeadID = &actorID
		req.DeptHeadSignedAt = &at
	case leave.StatusRejected:
		req.RejectedBy = &actorID
		req.RejectedAt = &at
		req.RejectionReason = rejectionReason
	}
	req.UpdatedAt = at
	r.requests[id] = req
	return true, nil
}

func (r *fakeRequestRepo) UpdateDates(ctx context.Context, id string, startDate, endDate time.Time, workingDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}
	req.StartDate = startDate
	req.EndDate = endDate
	req.WorkingDays = workingDays
	req.UpdatedAt = time.Now()
	r.requests[id] = req
	return nil
}

func (r *fakeRequestRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return leave.ErrRequestNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *fakeRequestRepo) HasOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeRequestID *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastOverlapExclude = excludeRequestID
	for _, req := range r.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if excludeRequestID != nil && req.ID == *excludeRequestID {
			continue
		}
		if req.Status == leave.StatusRejected {
			continue
		}
		if !startDate.After(req.EndDate) && !endDate.Before(req.StartDate) {
			return true, nil
		}
	}
	return false, nil
}

type fakeHolidayRepo struct {
	holidays []holiday.CustomHoliday
}

func (r *fakeHolidayRepo) GetByYear(ctx context.Context, year int) ([]holiday.CustomHoliday, error) {
	var out []holiday.CustomHoliday
	for _, h := range r.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]holiday.CustomHoliday, error) {
	var out []holiday.CustomHoliday
	for _, h := range r.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	employees map[string]employee.Employee
}

func newFakeDirectory(employees ...employee.Employee) *fakeDirectory {
	d := &fakeDirectory{employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		d.employees[e.ID] = e
	}
	return d
}

func (d *fakeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d *fakeDirectory) ListByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range d.employees {
		if e.Department == department {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []audit.Event
}

func (e *fakeEmitter) Emit(event audit.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *fakeEmitter) actions() []audit.Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]audit.Action, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Action)
	}
	return out
}

type dispatched struct {
	RecipientID string
	Type        notification.NotificationType
	Title       string
	Message     string
	RequestID   *string
}

type fakeDispatcher struct {
	mu        sync.Mutex
	delivered []dispatched
}

func (d *fakeDispatcher) Dispatch(recipientID string, typ notification.NotificationType, title, message string, requestID *string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, dispatched{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		RequestID:   requestID,
	})
}

type testEnv struct {
	accounts   *fakeAccountRepo
	carryovers *fakeCarryoverRepo
	bonuses    *fakeBonusRepo
	requests   *fakeRequestRepo
	holidays   *fakeHolidayRepo
	directory  *fakeDirectory
	auditor    *fakeEmitter
	notifier   *fakeDispatcher
	ledger     *LedgerService
	workflow   *WorkflowService
	correction *CorrectionService
	grants     *GrantsService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		accounts:   newFakeAccountRepo(),
		carryovers: newFakeCarryoverRepo(),
		bonuses:    newFakeBonusRepo(),
		requests:   newFakeRequestRepo(),
		holidays:   &fakeHolidayRepo{},
		auditor:    &fakeEmitter{},
		notifier:   &fakeDispatcher{},
	}
	env.directory = newFakeDirectory(
		employee.Employee{ID: "emp-1", FullName: "Ana Ionescu", Department: "registry"},
		employee.Employee{ID: "emp-2", FullName: "Mihai Popescu", Department: "registry"},
		employee.Employee{ID: "dir-1", FullName: "Elena Radu", Department: "management"},
		employee.Employee{ID: "head-1", FullName: "Vlad Georgescu", Department: "registry"},
		employee.Employee{ID: "hr-1", FullName: "Ioana Marin", Department: "hr"},
	)

	tx := &fakeTxManager{stores: []snapshotter{env.accounts, env.carryovers, env.bonuses, env.requests}}
	cal := calendar.New()

	env.ledger = NewLedgerService(tx, env.accounts, env.carryovers, env.bonuses)
	env.workflow = NewWorkflowService(tx, cal, env.ledger, env.requests, env.accounts, env.holidays, env.directory, env.auditor, env.notifier)
	env.correction = NewCorrectionService(tx, cal, env.ledger, env.requests, env.holidays, env.auditor)
	env.grants = NewGrantsService(env.accounts, env.carryovers, env.bonuses, env.directory, env.auditor)

	return env
}

func (env *testEnv) seedAccount(t *testing.T, employeeID string, year, baseDays, usedDays int) leave.Account {
	t.Helper()
	account, err := env.accounts.Create(context.Background(), leave.Account{
		EmployeeID:         employeeID,
		Year:               year,
		BaseAllocationDays: baseDays,
	})
	require.NoError(t, err)
	if usedDays > 0 {
		require.NoError(t, env.accounts.UpdateUsedDays(context.Background(), account.ID, usedDays))
		account.UsedDays = usedDays
	}
	return account
}

func (env *testEnv) seedCarryover(t *testing.T, employeeID string, fromYear, initialDays, usedDays int) leave.CarryoverGrant {
	t.Helper()
	grant, err := env.carryovers.Create(context.Background(), leave.CarryoverGrant{
		EmployeeID:    employeeID,
		FromYear:      fromYear,
		ToYear:        fromYear + 1,
		InitialDays:   initialDays,
		UsedDays:      usedDays,
		RemainingDays: initialDays - usedDays,
	})
	require.NoError(t, err)
	return grant
}
