package leavebalance

import (
	"context"
	"database/sql"

	"go-leaveflow/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_balance_repo.go -destination=mock/leave_balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// CreateIfAbsent inserts b unless the (employee, type, year) tuple
	// already exists. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error)
	ListForEmployee(ctx context.Context, employeeID uint, year int) ([]LeaveBalance, error)
	// IncrementUsed adds days to used_days in one statement and returns the
	// number of rows touched (0 when no balance row exists).
	IncrementUsed(ctx context.Context, employeeID, leaveTypeID uint, year, days int) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Scoped(ctx, r.db, r.tx)
}

func (r *repository) CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(b)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) ListForEmployee(ctx context.Context, employeeID uint, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.conn(ctx).
		Preload("LeaveType").
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) IncrementUsed(ctx context.Context, employeeID, leaveTypeID uint, year, days int) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveBalance{}).
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		Update("used_days", gorm.Expr("used_days + ?", days))
	return res.RowsAffected, res.Error
}
