package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	autherrors "go-leaveflow/internal/auth/errors"
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/dberr"
	"go-leaveflow/internal/shared/token"
	"go-leaveflow/internal/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer is implemented by token.Manager.
type TokenIssuer interface {
	Issue(userID uint, role string) (string, time.Time, error)
}

var _ TokenIssuer = (*token.Manager)(nil)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	GetMe(ctx context.Context, userID uint) (AuthResponse, error)
}

type service struct {
	db       *sql.DB
	userRepo user.Repository
	outbox   kafka.OutboxRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

func NewService(db *sql.DB, userRepo user.Repository, outbox kafka.OutboxRepository, tokens TokenIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{db: db, userRepo: userRepo, outbox: outbox, tokens: tokens, logger: l}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	email := strings.TrimSpace(req.Email)
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.ValidRole(role) {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}
	if req.Password != req.PasswordConfirm {
		return AuthResponse{}, autherrors.ErrPasswordMismatch
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("signup begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	u := &user.User{
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
		IsActive: true,
	}
	if err := s.userRepo.WithTx(tx).Create(ctx, u); err != nil {
		if dberr.IsUniqueViolation(err, "idx_users_email") {
			return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		l.Error("signup persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	event, err := kafka.NewEvent(ctx, "user", u.ID, events.EventTypeUserRegistered, events.UserRegisteredTopic,
		events.UserRegisteredEvent{
			EventType:  events.EventTypeUserRegistered,
			UserID:     u.ID,
			Email:      u.Email,
			Role:       u.Role,
			OccurredAt: time.Now().UTC(),
		})
	if err != nil {
		return AuthResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		l.Error("signup outbox write failed", zap.Error(err))
		return AuthResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error("signup commit failed", zap.Error(err))
		return AuthResponse{}, err
	}

	l.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	return mapToResponse(*u), nil
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, autherrors.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return LoginResult{}, autherrors.ErrAccountInactive
	}

	accessToken, expiresAt, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return LoginResult{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("user logged in", zap.Uint("user_id", u.ID))
	return LoginResult{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt.Unix(),
		User:        mapToResponse(*u),
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID uint) (AuthResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidToken
		}
		return AuthResponse{}, err
	}
	return mapToResponse(*u), nil
}

func mapToResponse(u user.User) AuthResponse {
	return AuthResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.DisplayName(),
		Role:        u.Role,
		LandingPath: domain.LandingPath(domain.Role(u.Role)),
	}
}
