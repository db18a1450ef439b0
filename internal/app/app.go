package app

import (
	"database/sql"
	"net/http"

	"go-leaveflow/internal/chat"
	"go-leaveflow/internal/config"
	"go-leaveflow/internal/leave"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/middleware"
	"go-leaveflow/internal/shared/connection"
	"go-leaveflow/internal/shared/metrics"
	"go-leaveflow/internal/shared/storage"
	"go-leaveflow/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the API process dependencies. Close releases them.
type App struct {
	Router *gin.Engine

	db     *sql.DB
	rdb    *redis.Client
	logger *zap.Logger
}

// Migrate creates or updates every table the service owns.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&user.User{},
		&leavetype.LeaveType{},
		&leavebalance.LeaveBalance{},
		&leave.LeaveRequest{},
		&chat.ChatMessage{},
		&kafka.OutboxRecord{},
	)
}

func BuildApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := Migrate(gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	store, err := storage.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.URLPrefix)
	if err != nil {
		_ = sqlDB.Close()
		_ = rdb.Close()
		return nil, err
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	recorder := metrics.NewRecorder()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.ContextLogger(logger),
		middleware.AccessLog(logger),
		middleware.Metrics(recorder),
	)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(recorder.Handler()))
	router.Static(store.URLPrefix(), store.Dir())

	if err := registerModules(router, modules{
		cfg:      cfg,
		db:       sqlDB,
		gormDB:   gormDB,
		rdb:      rdb,
		store:    store,
		recorder: recorder,
		logger:   logger,
	}); err != nil {
		_ = sqlDB.Close()
		_ = rdb.Close()
		return nil, err
	}

	return &App{Router: router, db: sqlDB, rdb: rdb, logger: logger}, nil
}

func (a *App) Close() {
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("database close failed", zap.Error(err))
	}
}
