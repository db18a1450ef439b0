package leave

import (
	"context"
	"database/sql"

	"go-leaveflow/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows a listing. Zero values mean "no constraint".
type ListFilter struct {
	EmployeeID uint
	ManagerID  uint
	Status     string
	Limit      int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uint) (*LeaveRequest, error)
	// FindByIDForUpdate locks the request row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	// UpdateStatusIfPending moves a pending request to status and returns the
	// number of rows changed.
	UpdateStatusIfPending(ctx context.Context, id uint, status string, approverID uint) (int64, error)
	DeletePending(ctx context.Context, id, employeeID uint) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Preload("Employee").
		Preload("LeaveType").
		Preload("Approver").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uint) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) scoped(ctx context.Context, filter ListFilter) *gorm.DB {
	db := r.conn(ctx).Model(&LeaveRequest{})
	if filter.EmployeeID != 0 {
		db = db.Where("leave_requests.employee_id = ?", filter.EmployeeID)
	}
	if filter.ManagerID != 0 {
		db = db.
			Joins("JOIN users AS team ON team.id = leave_requests.employee_id").
			Where("team.manager_id = ?", filter.ManagerID)
	}
	if filter.Status != "" {
		db = db.Where("leave_requests.status = ?", filter.Status)
	}
	return db
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	db := r.scoped(ctx, filter).
		Preload("Employee").
		Preload("LeaveType").
		Preload("Approver").
		Order("leave_requests.created_at DESC").
		Order("leave_requests.id DESC")
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}

	var leaves []LeaveRequest
	err := db.Find(&leaves).Error
	return leaves, err
}

func (r *repository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, filter).Count(&count).Error
	return count, err
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, id uint, status string, approverID uint) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": approverID,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeletePending(ctx context.Context, id, employeeID uint) (int64, error) {
	res := r.conn(ctx).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Delete(&LeaveRequest{})
	return res.RowsAffected, res.Error
}
