package app

import (
	"database/sql"

	"go-leaveflow/internal/auth"
	"go-leaveflow/internal/chat"
	"go-leaveflow/internal/config"
	"go-leaveflow/internal/dashboard"
	"go-leaveflow/internal/leave"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/middleware"
	"go-leaveflow/internal/rbac"
	"go-leaveflow/internal/shared/audit"
	"go-leaveflow/internal/shared/metrics"
	"go-leaveflow/internal/shared/storage"
	"go-leaveflow/internal/shared/token"
	"go-leaveflow/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type modules struct {
	cfg      *config.Config
	db       *sql.DB
	gormDB   *gorm.DB
	rdb      *redis.Client
	store    *storage.LocalStorage
	recorder *metrics.Recorder
	logger   *zap.Logger
}

func registerModules(router *gin.Engine, m modules) error {
	// --- Repositories ---
	userRepo := user.NewRepository(m.gormDB)
	leaveTypeRepo := leavetype.NewRepository(m.gormDB)
	balanceRepo := leavebalance.NewRepository(m.gormDB)
	leaveRepo := leave.NewRepository(m.gormDB)
	chatRepo := chat.NewRepository(m.gormDB)
	outboxRepo := kafka.NewOutboxRepository(m.db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer(rbac.NewPolicyAdapter())
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, m.logger)

	tokens := token.NewManager(m.cfg.JWT.Secret, m.cfg.JWT.Expiration)
	auditor := audit.NewStdoutLogger(m.logger)

	// --- Services ---
	authService := auth.NewService(m.db, userRepo, outboxRepo, tokens, m.logger)
	userService := user.NewService(userRepo, m.store, m.logger)
	leaveTypeService := leavetype.NewService(m.db, leaveTypeRepo, m.rdb, m.cfg.Leave.TypeCacheTTL, m.recorder, m.logger)
	balanceService := leavebalance.NewService(m.db, balanceRepo, leaveTypeRepo, m.logger)
	leaveService := leave.NewService(
		m.db, leaveRepo, userRepo, leaveTypeRepo, balanceRepo, outboxRepo,
		m.recorder, auditor,
		leave.Options{ReassignManagerOnSubmit: m.cfg.Leave.ReassignManagerOnSubmit},
		m.logger,
	)
	chatService := chat.NewService(
		m.db, chatRepo, userRepo, m.store, chat.NewRedisNotifier(m.rdb), m.recorder,
		chat.Options{MaxAttachmentBytes: m.cfg.Chat.MaxAttachmentBytes, MaxPollWait: m.cfg.Chat.MaxPollWait},
		m.logger,
	)
	dashboardService := dashboard.NewService(userRepo, leaveRepo, balanceService, m.logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, m.cfg.Env == config.EnvProduction, m.logger)
	userHandler := user.NewHandler(userService, m.logger)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, m.logger)
	balanceHandler := leavebalance.NewHandler(balanceService, m.logger)
	leaveHandler := leave.NewHandler(leaveService, m.logger)
	chatHandler := chat.NewHandler(chatService, m.logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, m.logger)
	rbacHandler := rbac.NewHandler(rbacService, m.logger)

	// --- Routes Registration ---
	public := router.Group("/")
	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(tokens, userRepo))

	dashboard.RegisterHome(router.Group("/", middleware.OptionalAuth(tokens, userRepo)), dashboardHandler)
	auth.RegisterRoutes(public, authed, authHandler)
	rbac.RegisterRoutes(authed, rbacHandler)
	dashboard.RegisterRoutes(authed, dashboardHandler, rbacService)
	user.RegisterRoutes(authed, userHandler, rbacService)
	leavetype.RegisterRoutes(authed, leaveTypeHandler)
	leavebalance.RegisterRoutes(authed, balanceHandler, rbacService)
	leave.RegisterRoutes(authed, leaveHandler, rbacService, m.rdb)
	chat.RegisterRoutes(authed, chatHandler, rbacService, m.rdb)

	return nil
}
