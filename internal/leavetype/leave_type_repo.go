package leavetype

import (
	"context"
	"database/sql"

	"go-leaveflow/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_type_repo.go -destination=mock/leave_type_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAll(ctx context.Context) ([]LeaveType, error)
	FindByID(ctx context.Context, id uint) (*LeaveType, error)
	FindByName(ctx context.Context, name string) (*LeaveType, error)
	Create(ctx context.Context, t *LeaveType) error
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

func (r *repository) FindAll(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.conn(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*LeaveType, error) {
	var t LeaveType
	err := r.conn(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindByName(ctx context.Context, name string) (*LeaveType, error) {
	var t LeaveType
	err := r.conn(ctx).Where("name = ?", name).Order("id ASC").First(&t).Error
	return &t, err
}

func (r *repository) Create(ctx context.Context, t *LeaveType) error {
	return r.conn(ctx).Create(t).Error
}
