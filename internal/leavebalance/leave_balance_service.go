package leavebalance

import (
	"context"
	"database/sql"
	"time"

	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_balance_service.go -destination=mock/leave_balance_service_mock.go -package=mock
type Service interface {
	ListForEmployee(ctx context.Context, employeeID uint, year int) ([]BalanceResponse, error)
	SeedDefaults(ctx context.Context, employeeID uint, year int) (int, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	typeRepo leavetype.Repository
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, typeRepo leavetype.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, typeRepo: typeRepo, logger: l}
}

// CurrentYear is the balance year used for approvals and dashboards.
func CurrentYear() int {
	return time.Now().Year()
}

func (s *service) ListForEmployee(ctx context.Context, employeeID uint, year int) ([]BalanceResponse, error) {
	if year <= 0 {
		year = CurrentYear()
	}
	balances, err := s.repo.ListForEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(balances), nil
}

// SeedDefaults opens one balance per leave type for the employee. Existing
// rows for the same year are left as they are.
func (s *service) SeedDefaults(ctx context.Context, employeeID uint, year int) (int, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	if year <= 0 {
		year = CurrentYear()
	}

	types, err := s.typeRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("seed balances begin tx failed", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	created := 0
	for _, t := range types {
		inserted, err := qtx.CreateIfAbsent(ctx, &LeaveBalance{
			EmployeeID:  employeeID,
			LeaveTypeID: t.ID,
			Year:        year,
			TotalDays:   t.DefaultDays,
		})
		if err != nil {
			l.Error("seed balance persist failed",
				zap.Uint("employee_id", employeeID),
				zap.Uint("leave_type_id", t.ID),
				zap.Error(err),
			)
			return 0, err
		}
		if !inserted {
			l.Warn("balance already exists, skipped",
				zap.Uint("employee_id", employeeID),
				zap.Uint("leave_type_id", t.ID),
				zap.Int("year", year),
			)
			continue
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		l.Error("seed balances commit failed", zap.Error(err))
		return 0, err
	}

	l.Info("leave balances seeded",
		zap.Uint("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("created", created),
	)
	return created, nil
}
