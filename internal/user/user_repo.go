package user

import (
	"context"
	"database/sql"

	"go-leaveflow/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// IsActive reports false for inactive and missing users.
	IsActive(ctx context.Context, id uint) (bool, error)
	FindAll(ctx context.Context) ([]User, error)
	FindRecent(ctx context.Context, limit int) ([]User, error)
	FindByRole(ctx context.Context, role string) ([]User, error)
	FindByManager(ctx context.Context, managerID uint) ([]User, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	Update(ctx context.Context, u *User) error
	UpdateManager(ctx context.Context, userID uint, managerID *uint) error
	Delete(ctx context.Context, id uint) (int64, error)
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.conn(ctx).
		Preload("Manager").
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.conn(ctx).First(&u, "LOWER(email) = LOWER(?)", email).Error
	return &u, err
}

func (r *repository) IsActive(ctx context.Context, id uint) (bool, error) {
	var flags []bool
	err := r.conn(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("is_active", &flags).Error
	if err != nil {
		return false, err
	}
	return len(flags) == 1 && flags[0], nil
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.conn(ctx).
		Preload("Manager").
		Order("date_joined DESC, id DESC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindRecent(ctx context.Context, limit int) ([]User, error) {
	var users []User
	err := r.conn(ctx).
		Order("date_joined DESC, id DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *repository) FindByRole(ctx context.Context, role string) ([]User, error) {
	var users []User
	err := r.conn(ctx).
		Where("role = ?", role).
		Order("full_name ASC, id ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindByManager(ctx context.Context, managerID uint) ([]User, error) {
	var users []User
	err := r.conn(ctx).
		Where("manager_id = ?", managerID).
		Order("full_name ASC, id ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Total int64
	}
	err := r.conn(ctx).
		Model(&User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Total
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.conn(ctx).
		Model(&User{ID: u.ID}).
		Select("email", "full_name", "phone", "department", "profile_picture", "password").
		Updates(u).Error
}

func (r *repository) UpdateManager(ctx context.Context, userID uint, managerID *uint) error {
	return r.conn(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("manager_id", managerID).Error
}

// Delete removes the user. Leaves, balances and chat messages go with it
// through ON DELETE CASCADE; manager links and approvals are nulled.
func (r *repository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.conn(ctx).Delete(&User{}, id)
	return res.RowsAffected, res.Error
}
