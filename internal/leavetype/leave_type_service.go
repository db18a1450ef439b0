package leavetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	CacheKeyAll = "leavetypes:all"
	cacheName   = "leave_types"
)

//go:generate mockgen -source=leave_type_service.go -destination=mock/leave_type_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]LeaveTypeResponse, error)
	EnsureDefaults(ctx context.Context) (int, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rdb      *redis.Client
	ttl      time.Duration
	sf       *singleflight.Group
	recorder *metrics.Recorder
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, ttl time.Duration, recorder *metrics.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &service{
		db:       db,
		repo:     repo,
		rdb:      rdb,
		ttl:      ttl,
		sf:       &singleflight.Group{},
		recorder: recorder,
		logger:   l,
	}
}

func (s *service) List(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, CacheKeyAll).Result()
		if err == nil {
			var resp []LeaveTypeResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				s.recorder.CacheLookup(cacheName, true)
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			contextutil.GetLogger(ctx, s.logger).Warn("leave type cache read failed", zap.Error(err))
		}
	}
	s.recorder.CacheLookup(cacheName, false)

	v, err, _ := s.sf.Do(CacheKeyAll, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(types)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, CacheKeyAll, jsonData, s.ttl).Err(); err != nil {
					s.logger.Warn("leave type cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

// EnsureDefaults creates the missing entries of Defaults by name and
// returns how many were inserted.
func (s *service) EnsureDefaults(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	created := 0
	for _, def := range Defaults {
		_, err := qtx.FindByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}

		t := def
		if err := qtx.Create(ctx, &t); err != nil {
			s.logger.Error("create leave type failed", zap.String("name", def.Name), zap.Error(err))
			return 0, err
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if created > 0 && s.rdb != nil {
		if err := s.rdb.Del(ctx, CacheKeyAll).Err(); err != nil {
			s.logger.Error("failed to invalidate leave type cache", zap.String("key", CacheKeyAll), zap.Error(err))
		}
	}

	s.logger.Info("leave type defaults ensured", zap.Int("created", created))
	return created, nil
}
