package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/events"
	leaveerrors "go-leaveflow/internal/leave/errors"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/shared/audit"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/metrics"
	"go-leaveflow/internal/user"
	usererrors "go-leaveflow/internal/user/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Options are the workflow policy switches.
type Options struct {
	// ReassignManagerOnSubmit overwrites the employee's manager link with the
	// manager chosen on the request. When false a differing choice is refused.
	ReassignManagerOnSubmit bool
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID uint, req SubmitLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, actor Actor, id uint, action string) (DecisionResponse, error)
	Cancel(ctx context.Context, actor Actor, id uint) error
	List(ctx context.Context, actor Actor, status string) ([]LeaveResponse, error)
	FormOptions(ctx context.Context) (FormOptionsResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	users    user.Repository
	types    leavetype.Repository
	balances leavebalance.Repository
	outbox   kafka.OutboxRepository
	recorder *metrics.Recorder
	auditor  audit.Logger
	opts     Options
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	types leavetype.Repository,
	balances leavebalance.Repository,
	outbox kafka.OutboxRepository,
	recorder *metrics.Recorder,
	auditor audit.Logger,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &service{
		db:       db,
		repo:     repo,
		users:    users,
		types:    types,
		balances: balances,
		outbox:   outbox,
		recorder: recorder,
		auditor:  auditor,
		opts:     opts,
		logger:   l,
	}
}

func (s *service) Submit(ctx context.Context, employeeID uint, req SubmitLeaveRequest) (LeaveResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	l.Debug("submit leave requested",
		zap.Uint("employee_id", employeeID),
		zap.Uint("leave_type_id", req.LeaveTypeID),
		zap.Uint("manager_id", req.ManagerID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, totalDays, err := validateSubmitRequest(req)
	if err != nil {
		l.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	utx := s.users.WithTx(tx)

	manager, err := utx.FindByID(ctx, req.ManagerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrInvalidManager
		}
		return LeaveResponse{}, err
	}
	if manager.Role != string(domain.RoleManager) || manager.ID == employeeID {
		return LeaveResponse{}, leaveerrors.ErrInvalidManager
	}

	leaveType, err := s.types.WithTx(tx).FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
		}
		return LeaveResponse{}, err
	}

	employee, err := utx.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, usererrors.ErrUserNotFound
		}
		return LeaveResponse{}, err
	}

	if employee.ManagerID == nil || *employee.ManagerID != manager.ID {
		if employee.ManagerID != nil && !s.opts.ReassignManagerOnSubmit {
			return LeaveResponse{}, leaveerrors.ErrManagerMismatch
		}
		if err := utx.UpdateManager(ctx, employee.ID, &manager.ID); err != nil {
			l.Error("submit leave manager link update failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		l.Info("employee manager link updated on submit",
			zap.Uint("employee_id", employee.ID),
			zap.Uint("manager_id", manager.ID),
		)
		employee.ManagerID = &manager.ID
	}

	lr := &LeaveRequest{
		EmployeeID:  employee.ID,
		LeaveTypeID: leaveType.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   totalDays,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      StatusPending,
	}
	if err := qtx.Create(ctx, lr); err != nil {
		l.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.writeEvent(ctx, tx, events.EventTypeLeaveSubmitted, *lr, employee.ID, nil); err != nil {
		l.Error("submit leave outbox write failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.auditor.Log(ctx, audit.Entry{
		Action:  audit.ActionLeaveSubmitted,
		Message: "leave request submitted",
		Meta:    map[string]any{"leave_id": lr.ID, "employee_id": employee.ID, "manager_id": manager.ID},
	})
	l.Info("submit leave success", zap.Uint("leave_id", lr.ID), zap.Uint("employee_id", employee.ID))

	lr.Employee = employee
	lr.LeaveType = leaveType
	return mapToResponse(*lr), nil
}

func (s *service) Decide(ctx context.Context, actor Actor, id uint, action string) (DecisionResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	var target string
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionApprove:
		target = StatusApproved
	case ActionReject:
		target = StatusRejected
	default:
		return DecisionResponse{}, leaveerrors.ErrInvalidAction
	}

	if actor.Role != domain.RoleManager {
		l.Warn("decide leave denied for role", zap.String("role", actor.Role.String()), zap.Uint("leave_id", id))
		return DecisionResponse{}, leaveerrors.ErrApproverNotManager
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("decide leave begin tx failed", zap.Error(err))
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecisionResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return DecisionResponse{}, err
	}

	employee, err := s.users.WithTx(tx).FindByID(ctx, lr.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecisionResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return DecisionResponse{}, err
	}
	if employee.ManagerID == nil || *employee.ManagerID != actor.ID {
		l.Warn("decide leave outside team",
			zap.Uint("leave_id", id),
			zap.Uint("manager_id", actor.ID),
			zap.Uint("employee_id", employee.ID),
		)
		return DecisionResponse{}, leaveerrors.ErrNotTeamMember
	}

	if lr.Status != StatusPending {
		return DecisionResponse{}, leaveerrors.ErrAlreadyProcessed
	}
	changed, err := qtx.UpdateStatusIfPending(ctx, id, target, actor.ID)
	if err != nil {
		l.Error("decide leave persist failed", zap.Uint("leave_id", id), zap.Error(err))
		return DecisionResponse{}, err
	}
	if changed == 0 {
		return DecisionResponse{}, leaveerrors.ErrAlreadyProcessed
	}
	lr.Status = target
	lr.ApprovedBy = &actor.ID

	applied := false
	var balanceApplied *bool
	eventType := events.EventTypeLeaveRejected
	if target == StatusApproved {
		eventType = events.EventTypeLeaveApproved
		year := leavebalance.CurrentYear()
		rows, err := s.balances.WithTx(tx).IncrementUsed(ctx, lr.EmployeeID, lr.LeaveTypeID, year, lr.TotalDays)
		if err != nil {
			l.Error("decide leave balance update failed", zap.Uint("leave_id", id), zap.Error(err))
			return DecisionResponse{}, err
		}
		applied = rows > 0
		balanceApplied = &applied
		if !applied {
			l.Warn("approved leave has no balance row to charge",
				zap.Uint("leave_id", id),
				zap.Uint("employee_id", lr.EmployeeID),
				zap.Uint("leave_type_id", lr.LeaveTypeID),
				zap.Int("year", year),
			)
		}
	}

	if err := s.writeEvent(ctx, tx, eventType, *lr, actor.ID, balanceApplied); err != nil {
		l.Error("decide leave outbox write failed", zap.Error(err))
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error("decide leave commit failed", zap.Uint("leave_id", id), zap.Error(err))
		return DecisionResponse{}, err
	}

	s.recorder.LeaveDecided(target)
	auditAction := audit.ActionLeaveRejected
	if target == StatusApproved {
		auditAction = audit.ActionLeaveApproved
		if !applied {
			s.recorder.BalanceSkipped()
			s.auditor.Log(ctx, audit.Entry{
				Action:  audit.ActionBalanceMissing,
				Message: "approval did not change any leave balance",
				Meta: map[string]any{
					"leave_id":      lr.ID,
					"employee_id":   lr.EmployeeID,
					"leave_type_id": lr.LeaveTypeID,
					"days":          lr.TotalDays,
				},
			})
		}
	}
	s.auditor.Log(ctx, audit.Entry{
		Action:  auditAction,
		Message: "leave request " + target,
		Meta:    map[string]any{"leave_id": lr.ID, "manager_id": actor.ID},
	})
	l.Info("decide leave success",
		zap.Uint("leave_id", lr.ID),
		zap.String("status", target),
		zap.Bool("balance_applied", applied),
	)

	lr.Employee = employee
	return DecisionResponse{Leave: mapToResponse(*lr), BalanceApplied: applied}, nil
}

func (s *service) Cancel(ctx context.Context, actor Actor, id uint) error {
	l := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if lr.EmployeeID != actor.ID {
		return leaveerrors.ErrLeaveNotFound
	}
	if lr.Status != StatusPending {
		l.Warn("cancel leave refused", zap.Uint("leave_id", id), zap.String("status", lr.Status))
		return leaveerrors.ErrCancelNotPending
	}

	deleted, err := qtx.DeletePending(ctx, id, actor.ID)
	if err != nil {
		l.Error("cancel leave delete failed", zap.Uint("leave_id", id), zap.Error(err))
		return err
	}
	if deleted == 0 {
		return leaveerrors.ErrCancelNotPending
	}

	if err := s.writeEvent(ctx, tx, events.EventTypeLeaveCancelled, *lr, actor.ID, nil); err != nil {
		l.Error("cancel leave outbox write failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error("cancel leave commit failed", zap.Error(err))
		return err
	}

	s.auditor.Log(ctx, audit.Entry{
		Action:  audit.ActionLeaveCancelled,
		Message: "leave request cancelled",
		Meta:    map[string]any{"leave_id": id, "employee_id": actor.ID},
	})
	l.Info("cancel leave success", zap.Uint("leave_id", id))
	return nil
}

// List scopes by role: admins see everything, managers their direct
// reports, employees their own requests.
func (s *service) List(ctx context.Context, actor Actor, status string) ([]LeaveResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !ValidStatus(status) {
		return nil, leaveerrors.ErrInvalidStatusFilter
	}

	filter := ListFilter{Status: status}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleManager:
		filter.ManagerID = actor.ID
	default:
		filter.EmployeeID = actor.ID
	}

	leaves, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToResponses(leaves), nil
}

func (s *service) FormOptions(ctx context.Context) (FormOptionsResponse, error) {
	types, err := s.types.FindAll(ctx)
	if err != nil {
		return FormOptionsResponse{}, err
	}
	managers, err := s.users.FindByRole(ctx, string(domain.RoleManager))
	if err != nil {
		return FormOptionsResponse{}, err
	}

	resp := FormOptionsResponse{
		LeaveTypes: make([]Option, len(types)),
		Managers:   make([]Option, len(managers)),
	}
	for i, t := range types {
		resp.LeaveTypes[i] = Option{ID: t.ID, Name: t.Name}
	}
	for i, m := range managers {
		resp.Managers[i] = Option{ID: m.ID, Name: m.DisplayName()}
	}
	return resp, nil
}

func (s *service) writeEvent(ctx context.Context, tx *sql.Tx, eventType string, lr LeaveRequest, actorID uint, balanceApplied *bool) error {
	event, err := kafka.NewEvent(ctx, "leave_request", lr.ID, eventType, events.LeaveLifecycleTopic, events.LeaveEvent{
		EventType:      eventType,
		LeaveID:        lr.ID,
		EmployeeID:     lr.EmployeeID,
		LeaveTypeID:    lr.LeaveTypeID,
		ActorID:        actorID,
		Status:         lr.Status,
		TotalDays:      lr.TotalDays,
		StartDate:      lr.StartDate.Format(dateLayout),
		EndDate:        lr.EndDate.Format(dateLayout),
		BalanceApplied: balanceApplied,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func validateSubmitRequest(req SubmitLeaveRequest) (time.Time, time.Time, int, error) {
	if req.ManagerID == 0 {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrManagerRequired
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateRange
	}

	totalDays := req.TotalDays
	if totalDays < 0 {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidTotalDays
	}
	if totalDays == 0 {
		totalDays = int(endDate.Sub(startDate).Hours()/24) + 1
	}
	return startDate, endDate, totalDays, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}
