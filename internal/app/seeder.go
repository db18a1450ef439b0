package app

import (
	"context"
	"errors"

	"go-leaveflow/internal/config"
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/shared/connection"
	"go-leaveflow/internal/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSeed creates the admin account if no user owns the email yet.
func AdminSeed(ctx context.Context, users user.Repository, email, password string) (bool, error) {
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	err = users.Create(ctx, &user.User{
		Email:    email,
		Password: string(hash),
		FullName: "Administrator",
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	})
	return err == nil, err
}

// BalanceSeed opens the year's balances for every active employee. Rows that
// already exist are kept, so it is safe to run on every deploy and at the
// start of each year. It returns how many balances were created.
func BalanceSeed(ctx context.Context, users user.Repository, balances leavebalance.Service, year int, logger *zap.Logger) (int, error) {
	employees, err := users.FindByRole(ctx, string(domain.RoleEmployee))
	if err != nil {
		return 0, err
	}

	created := 0
	for _, e := range employees {
		if !e.IsActive {
			continue
		}
		n, err := balances.SeedDefaults(ctx, e.ID, year)
		if err != nil {
			logger.Error("seed employee balances failed", zap.Uint("employee_id", e.ID), zap.Int("year", year), zap.Error(err))
			return created, err
		}
		created += n
	}
	return created, nil
}

// RunSeeder migrates the schema, then ensures the admin account, the default
// leave types and the current year's employee balances exist.
func RunSeeder(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.seeder")
	ctx := context.Background()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := Migrate(gormDB); err != nil {
		return err
	}

	users := user.NewRepository(gormDB)
	created, err := AdminSeed(ctx, users, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}
	log.Info("admin account checked", zap.String("email", cfg.Seed.AdminEmail), zap.Bool("created", created))

	// Seeding invalidates leavetypes:all when redis is reachable.
	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, leave type cache not invalidated", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	typeRepo := leavetype.NewRepository(gormDB)
	types := leavetype.NewService(sqlDB, typeRepo, rdb, cfg.Leave.TypeCacheTTL, nil, logger)
	n, err := types.EnsureDefaults(ctx)
	if err != nil {
		return err
	}
	log.Info("leave types checked", zap.Int("created", n))

	year := leavebalance.CurrentYear()
	balances := leavebalance.NewService(sqlDB, leavebalance.NewRepository(gormDB), typeRepo, logger)
	opened, err := BalanceSeed(ctx, users, balances, year, log)
	if err != nil {
		return err
	}
	log.Info("employee balances checked", zap.Int("year", year), zap.Int("created", opened))
	return nil
}
