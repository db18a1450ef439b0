package dashboard

import (
	"context"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/leave"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Admin(ctx context.Context) (AdminDashboard, error)
	Manager(ctx context.Context, managerID uint) (ManagerDashboard, error)
	Employee(ctx context.Context, employeeID uint) (EmployeeDashboard, error)
}

type service struct {
	users    user.Repository
	leaves   leave.Repository
	balances leavebalance.Service
	logger   *zap.Logger
}

func NewService(users user.Repository, leaves leave.Repository, balances leavebalance.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{users: users, leaves: leaves, balances: balances, logger: l}
}

// Admin aggregates are independent reads, so they are loaded concurrently.
func (s *service) Admin(ctx context.Context) (AdminDashboard, error) {
	var (
		out    AdminDashboard
		counts map[string]int64
		recent []user.User
		leaves []leave.LeaveRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.users.FindRecent(gctx, recentUsersLimit)
		return err
	})
	g.Go(func() (err error) {
		out.PendingLeaves, err = s.leaves.Count(gctx, leave.ListFilter{Status: leave.StatusPending})
		return err
	})
	g.Go(func() (err error) {
		leaves, err = s.leaves.List(gctx, leave.ListFilter{Limit: recentLeavesLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("admin dashboard load failed", zap.Error(err))
		return AdminDashboard{}, err
	}

	for _, n := range counts {
		out.TotalUsers += n
	}
	out.TotalEmployees = counts[string(domain.RoleEmployee)]
	out.TotalManagers = counts[string(domain.RoleManager)]
	out.RecentLeaves = leave.ToResponses(leaves)
	out.RecentUsers = toSummaries(recent)
	return out, nil
}

func (s *service) Manager(ctx context.Context, managerID uint) (ManagerDashboard, error) {
	var (
		team    []user.User
		pending []leave.LeaveRequest
		recent  []leave.LeaveRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		team, err = s.users.FindByManager(gctx, managerID)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.leaves.List(gctx, leave.ListFilter{ManagerID: managerID, Status: leave.StatusPending})
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.leaves.List(gctx, leave.ListFilter{ManagerID: managerID, Limit: recentLeavesLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("manager dashboard load failed",
			zap.Uint("manager_id", managerID),
			zap.Error(err),
		)
		return ManagerDashboard{}, err
	}

	return ManagerDashboard{
		TeamMembers:   toSummaries(team),
		PendingLeaves: leave.ToResponses(pending),
		TeamLeaves:    leave.ToResponses(recent),
		PendingCount:  len(pending),
		TeamCount:     len(team),
	}, nil
}

func (s *service) Employee(ctx context.Context, employeeID uint) (EmployeeDashboard, error) {
	var (
		out    EmployeeDashboard
		recent []leave.LeaveRequest
	)
	own := leave.ListFilter{EmployeeID: employeeID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		filter := own
		filter.Limit = recentLeavesLimit
		recent, err = s.leaves.List(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		out.LeaveBalances, err = s.balances.ListForEmployee(gctx, employeeID, leavebalance.CurrentYear())
		return err
	})
	g.Go(func() (err error) {
		filter := own
		filter.Status = leave.StatusPending
		out.PendingCount, err = s.leaves.Count(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		filter := own
		filter.Status = leave.StatusApproved
		out.ApprovedCount, err = s.leaves.Count(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		out.TotalRequests, err = s.leaves.Count(gctx, own)
		return err
	})
	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("employee dashboard load failed",
			zap.Uint("employee_id", employeeID),
			zap.Error(err),
		)
		return EmployeeDashboard{}, err
	}

	out.MyLeaves = leave.ToResponses(recent)
	return out, nil
}
