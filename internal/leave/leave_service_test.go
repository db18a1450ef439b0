package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/leave"
	leaveerrors "go-leaveflow/internal/leave/errors"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/shared/audit"
	"go-leaveflow/internal/shared/metrics"
	"go-leaveflow/internal/user"
	mock_user "go-leaveflow/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn                func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDForUpdateFn     func(ctx context.Context, id uint) (*leave.LeaveRequest, error)
	listFn                  func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error)
	updateStatusIfPendingFn func(ctx context.Context, id uint, status string, approverID uint) (int64, error)
	deletePendingFn         func(ctx context.Context, id, employeeID uint) (int64, error)

	updateCalls int
	deleteCalls int
}

func (f *fakeLeaveRepository) WithTx(*sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id uint) (*leave.LeaveRequest, error) {
	return f.FindByIDForUpdate(ctx, id)
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id uint) (*leave.LeaveRequest, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Count(context.Context, leave.ListFilter) (int64, error) {
	return 0, nil
}

func (f *fakeLeaveRepository) UpdateStatusIfPending(ctx context.Context, id uint, status string, approverID uint) (int64, error) {
	f.updateCalls++
	if f.updateStatusIfPendingFn != nil {
		return f.updateStatusIfPendingFn(ctx, id, status, approverID)
	}
	return 1, nil
}

func (f *fakeLeaveRepository) DeletePending(ctx context.Context, id, employeeID uint) (int64, error) {
	f.deleteCalls++
	if f.deletePendingFn != nil {
		return f.deletePendingFn(ctx, id, employeeID)
	}
	return 1, nil
}

type fakeTypeRepository struct {
	leavetype.Repository
	types map[uint]leavetype.LeaveType
}

func (f *fakeTypeRepository) WithTx(*sql.Tx) leavetype.Repository { return f }

func (f *fakeTypeRepository) FindByID(_ context.Context, id uint) (*leavetype.LeaveType, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (f *fakeTypeRepository) FindAll(context.Context) ([]leavetype.LeaveType, error) {
	out := make([]leavetype.LeaveType, 0, len(f.types))
	for _, t := range f.types {
		out = append(out, t)
	}
	return out, nil
}

type incrementCall struct {
	employeeID, leaveTypeID uint
	year, days              int
}

// fakeBalanceRepository keeps used days per (employee, type, year).
type fakeBalanceRepository struct {
	used  map[incrementCall]int
	calls []incrementCall
}

func (f *fakeBalanceRepository) WithTx(*sql.Tx) leavebalance.Repository { return f }

func (f *fakeBalanceRepository) CreateIfAbsent(context.Context, *leavebalance.LeaveBalance) (bool, error) {
	return true, nil
}

func (f *fakeBalanceRepository) ListForEmployee(context.Context, uint, int) ([]leavebalance.LeaveBalance, error) {
	return nil, nil
}

func (f *fakeBalanceRepository) IncrementUsed(_ context.Context, employeeID, leaveTypeID uint, year, days int) (int64, error) {
	call := incrementCall{employeeID: employeeID, leaveTypeID: leaveTypeID, year: year, days: days}
	f.calls = append(f.calls, call)

	key := incrementCall{employeeID: employeeID, leaveTypeID: leaveTypeID, year: year}
	if _, ok := f.used[key]; !ok {
		return 0, nil
	}
	f.used[key] += days
	return 1, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(*sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(_ context.Context, e kafka.OutboxEvent) error {
	f.created = append(f.created, e)
	return nil
}
func (f *fakeOutbox) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) { return nil, nil }
func (f *fakeOutbox) MarkSent(context.Context, string) error                       { return nil }
func (f *fakeOutbox) MarkFailed(context.Context, string, string) error             { return nil }

type recordingAuditor struct {
	entries []audit.Entry
}

func (r *recordingAuditor) Log(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

func (r *recordingAuditor) actions() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

type leaveServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	repo     *fakeLeaveRepository
	users    *mock_user.MockRepository
	balances *fakeBalanceRepository
	outbox   *fakeOutbox
	auditor  *recordingAuditor
	recorder *metrics.Recorder
	service  leave.Service
}

const (
	employeeID uint = 10
	managerID  uint = 20
	otherMgrID uint = 21
	casualID   uint = 1
)

func uintPtr(v uint) *uint { return &v }

func setupLeaveServiceTest(t *testing.T, opts leave.Options) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	users := mock_user.NewMockRepository(ctrl)
	users.EXPECT().WithTx(gomock.Any()).Return(users).AnyTimes()

	deps := &leaveServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		repo:     &fakeLeaveRepository{},
		users:    users,
		balances: &fakeBalanceRepository{used: map[incrementCall]int{}},
		outbox:   &fakeOutbox{},
		auditor:  &recordingAuditor{},
		recorder: metrics.NewRecorder(),
	}
	types := &fakeTypeRepository{types: map[uint]leavetype.LeaveType{
		casualID: {ID: casualID, Name: "Casual Leave", DefaultDays: 12},
	}}
	deps.service = leave.NewService(db, deps.repo, users, types, deps.balances, deps.outbox, deps.recorder, deps.auditor, opts)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	assert.NoError(t, err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func decodeLeaveEvent(t *testing.T, e kafka.OutboxEvent) events.LeaveEvent {
	t.Helper()
	var payload events.LeaveEvent
	assert.NoError(t, json.Unmarshal(e.Payload, &payload))
	return payload
}

func pendingRequest(id uint) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:          id,
		EmployeeID:  employeeID,
		LeaveTypeID: casualID,
		StartDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		TotalDays:   3,
		Status:      leave.StatusPending,
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	manager := &user.User{ID: managerID, Email: "m@x.com", FullName: "Maria Manager", Role: "manager"}
	req := leave.SubmitLeaveRequest{
		LeaveTypeID: casualID,
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-12",
		Reason:      " family trip ",
		ManagerID:   managerID,
	}

	t.Run("creates pending request and links manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{ReassignManagerOnSubmit: true})
		expectTx(t, deps.sqlMock, true)

		deps.users.EXPECT().FindByID(gomock.Any(), managerID).Return(manager, nil)
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).
			Return(&user.User{ID: employeeID, FullName: "Eve", Role: "employee"}, nil)
		deps.users.EXPECT().UpdateManager(gomock.Any(), employeeID, uintPtr(managerID)).Return(nil)

		var created leave.LeaveRequest
		deps.repo.createFn = func(_ context.Context, l *leave.LeaveRequest) error {
			l.ID = 100
			created = *l
			return nil
		}

		resp, err := deps.service.Submit(ctx, employeeID, req)
		assert.NoError(t, err)
		assert.Equal(t, uint(100), resp.ID)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, "Casual Leave", resp.LeaveTypeName)
		assert.Equal(t, "Eve", resp.EmployeeName)
		assert.Equal(t, "family trip", created.Reason)

		if assert.Len(t, deps.outbox.created, 1) {
			assert.Equal(t, events.EventTypeLeaveSubmitted, deps.outbox.created[0].EventType)
			assert.Equal(t, events.LeaveLifecycleTopic, deps.outbox.created[0].Topic)
		}
		assert.Equal(t, []string{audit.ActionLeaveSubmitted}, deps.auditor.actions())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit total days are kept", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{ReassignManagerOnSubmit: true})
		expectTx(t, deps.sqlMock, true)

		deps.users.EXPECT().FindByID(gomock.Any(), managerID).Return(manager, nil)
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).
			Return(&user.User{ID: employeeID, Role: "employee", ManagerID: uintPtr(managerID)}, nil)

		r := req
		r.TotalDays = 2
		resp, err := deps.service.Submit(ctx, employeeID, r)
		assert.NoError(t, err)
		assert.Equal(t, 2, resp.TotalDays)
	})

	t.Run("reassigns a different manager when enabled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{ReassignManagerOnSubmit: true})
		expectTx(t, deps.sqlMock, true)

		deps.users.EXPECT().FindByID(gomock.Any(), managerID).Return(manager, nil)
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).
			Return(&user.User{ID: employeeID, Role: "employee", ManagerID: uintPtr(otherMgrID)}, nil)
		deps.users.EXPECT().UpdateManager(gomock.Any(), employeeID, uintPtr(managerID)).Return(nil)

		_, err := deps.service.Submit(ctx, employeeID, req)
		assert.NoError(t, err)
	})

	t.Run("refuses a different manager when reassignment is off", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{ReassignManagerOnSubmit: false})
		expectTx(t, deps.sqlMock, false)

		deps.users.EXPECT().FindByID(gomock.Any(), managerID).Return(manager, nil)
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).
			Return(&user.User{ID: employeeID, Role: "employee", ManagerID: uintPtr(otherMgrID)}, nil)

		_, err := deps.service.Submit(ctx, employeeID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrManagerMismatch)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("chosen user is not a manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		deps.users.EXPECT().FindByID(gomock.Any(), managerID).
			Return(&user.User{ID: managerID, Role: "employee"}, nil)

		_, err := deps.service.Submit(ctx, employeeID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidManager)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		deps.users.EXPECT().FindByID(gomock.Any(), managerID).Return(manager, nil)

		r := req
		r.LeaveTypeID = 99
		_, err := deps.service.Submit(ctx, employeeID, r)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("validation happens before the transaction", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})

		cases := []struct {
			name string
			edit func(r *leave.SubmitLeaveRequest)
			want error
		}{
			{"missing manager", func(r *leave.SubmitLeaveRequest) { r.ManagerID = 0 }, leaveerrors.ErrManagerRequired},
			{"end before start", func(r *leave.SubmitLeaveRequest) { r.EndDate = "2025-03-01" }, leaveerrors.ErrInvalidDateRange},
			{"bad date", func(r *leave.SubmitLeaveRequest) { r.StartDate = "10/03/2025" }, leaveerrors.ErrInvalidDateFormat},
			{"negative days", func(r *leave.SubmitLeaveRequest) { r.TotalDays = -1 }, leaveerrors.ErrInvalidTotalDays},
		}
		for _, tc := range cases {
			r := req
			tc.edit(&r)
			_, err := deps.service.Submit(ctx, employeeID, r)
			assert.ErrorIs(t, err, tc.want, tc.name)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	manager := leave.Actor{ID: managerID, Role: domain.RoleManager}
	employee := &user.User{ID: employeeID, FullName: "Eve", Role: "employee", ManagerID: uintPtr(managerID)}
	year := leavebalance.CurrentYear()

	t.Run("approve charges the current year balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, true)

		key := incrementCall{employeeID: employeeID, leaveTypeID: casualID, year: year}
		deps.balances.used[key] = 0
		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).Return(employee, nil)

		resp, err := deps.service.Decide(ctx, manager, 7, "approve")
		assert.NoError(t, err)
		assert.True(t, resp.BalanceApplied)
		assert.Equal(t, leave.StatusApproved, resp.Leave.Status)
		assert.Equal(t, uintPtr(managerID), resp.Leave.ApprovedBy)

		assert.Equal(t, 3, deps.balances.used[key])
		balance := leavebalance.LeaveBalance{TotalDays: 12, UsedDays: deps.balances.used[key]}
		assert.Equal(t, 9, balance.Remaining())

		if assert.Len(t, deps.outbox.created, 1) {
			payload := decodeLeaveEvent(t, deps.outbox.created[0])
			assert.Equal(t, events.EventTypeLeaveApproved, payload.EventType)
			if assert.NotNil(t, payload.BalanceApplied) {
				assert.True(t, *payload.BalanceApplied)
			}
		}
		assert.Equal(t, float64(0), counterValue(t, deps.recorder.Registry(), "leave_balance_skips_total"))
		assert.Equal(t, float64(1), counterValue(t, deps.recorder.Registry(), "leave_decisions_total"))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve without balance row still succeeds and is recorded", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).Return(employee, nil)

		resp, err := deps.service.Decide(ctx, manager, 7, "approve")
		assert.NoError(t, err)
		assert.False(t, resp.BalanceApplied)
		assert.Equal(t, leave.StatusApproved, resp.Leave.Status)
		assert.Len(t, deps.balances.calls, 1)
		assert.Empty(t, deps.balances.used)

		assert.Equal(t, []string{audit.ActionBalanceMissing, audit.ActionLeaveApproved}, deps.auditor.actions())
		assert.Equal(t, float64(1), counterValue(t, deps.recorder.Registry(), "leave_balance_skips_total"))
	})

	t.Run("reject leaves balances alone", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}
		deps.repo.updateStatusIfPendingFn = func(_ context.Context, _ uint, status string, approverID uint) (int64, error) {
			assert.Equal(t, leave.StatusRejected, status)
			assert.Equal(t, managerID, approverID)
			return 1, nil
		}
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).Return(employee, nil)

		resp, err := deps.service.Decide(ctx, manager, 7, "reject")
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Leave.Status)
		assert.False(t, resp.BalanceApplied)
		assert.Empty(t, deps.balances.calls)

		payload := decodeLeaveEvent(t, deps.outbox.created[0])
		assert.Equal(t, events.EventTypeLeaveRejected, payload.EventType)
		assert.Nil(t, payload.BalanceApplied)
	})

	t.Run("manager outside the team is denied", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).Return(employee, nil)

		_, err := deps.service.Decide(ctx, leave.Actor{ID: otherMgrID, Role: domain.RoleManager}, 7, "approve")
		assert.ErrorIs(t, err, leaveerrors.ErrNotTeamMember)
		assert.Zero(t, deps.repo.updateCalls)
		assert.Empty(t, deps.balances.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin can never decide", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})

		_, err := deps.service.Decide(ctx, leave.Actor{ID: 1, Role: domain.RoleAdmin}, 7, "approve")
		assert.ErrorIs(t, err, leaveerrors.ErrApproverNotManager)
		assert.Zero(t, deps.repo.updateCalls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved request cannot be approved again", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			l := pendingRequest(7)
			l.Status = leave.StatusApproved
			return l, nil
		}
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).Return(employee, nil)

		_, err := deps.service.Decide(ctx, manager, 7, "approve")
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.Empty(t, deps.balances.calls)
	})

	t.Run("lost race on the conditional update", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}
		deps.repo.updateStatusIfPendingFn = func(context.Context, uint, string, uint) (int64, error) {
			return 0, nil
		}
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).Return(employee, nil)

		_, err := deps.service.Decide(ctx, manager, 7, "approve")
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.Empty(t, deps.balances.calls)
		assert.Empty(t, deps.outbox.created)
	})

	t.Run("unknown request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, manager, 404, "approve")
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("unknown action", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})

		_, err := deps.service.Decide(ctx, manager, 7, "escalate")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidAction)
	})

	t.Run("employee lookup failure rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}
		deps.users.EXPECT().FindByID(gomock.Any(), employeeID).Return(nil, errors.New("db down"))

		_, err := deps.service.Decide(ctx, manager, 7, "approve")
		assert.EqualError(t, err, "db down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	owner := leave.Actor{ID: employeeID, Role: domain.RoleEmployee}

	t.Run("pending request is deleted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}

		err := deps.service.Cancel(ctx, owner, 7)
		assert.NoError(t, err)
		assert.Equal(t, 1, deps.repo.deleteCalls)
		assert.Equal(t, events.EventTypeLeaveCancelled, deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved request is refused and kept", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		approved := pendingRequest(7)
		approved.Status = leave.StatusApproved
		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return approved, nil
		}

		err := deps.service.Cancel(ctx, owner, 7)
		assert.ErrorIs(t, err, leaveerrors.ErrCancelNotPending)
		assert.Zero(t, deps.repo.deleteCalls)
		assert.Equal(t, leave.StatusApproved, approved.Status)
		assert.Empty(t, deps.outbox.created)
	})

	t.Run("someone else's request is not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(context.Context, uint) (*leave.LeaveRequest, error) {
			return pendingRequest(7), nil
		}

		err := deps.service.Cancel(ctx, leave.Actor{ID: 99, Role: domain.RoleEmployee}, 7)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.Zero(t, deps.repo.deleteCalls)
	})
}

func TestLeaveService_ListScopesByRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  leave.Actor
		status string
		want   leave.ListFilter
	}{
		{"admin sees all", leave.Actor{ID: 1, Role: domain.RoleAdmin}, "", leave.ListFilter{}},
		{"manager sees team", leave.Actor{ID: managerID, Role: domain.RoleManager}, "pending", leave.ListFilter{ManagerID: managerID, Status: "pending"}},
		{"employee sees own", leave.Actor{ID: employeeID, Role: domain.RoleEmployee}, "APPROVED", leave.ListFilter{EmployeeID: employeeID, Status: "approved"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupLeaveServiceTest(t, leave.Options{})
			var got leave.ListFilter
			deps.repo.listFn = func(_ context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
				got = filter
				return []leave.LeaveRequest{*pendingRequest(1)}, nil
			}

			resp, err := deps.service.List(ctx, tt.actor, tt.status)
			assert.NoError(t, err)
			assert.Len(t, resp, 1)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown status filter", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, leave.Options{})
		_, err := deps.service.List(ctx, leave.Actor{ID: 1, Role: domain.RoleAdmin}, "cancelled")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusFilter)
	})
}
