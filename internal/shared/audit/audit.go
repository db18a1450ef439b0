package audit

import (
	"context"
	"time"

	"go-leaveflow/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	ActionLeaveSubmitted      = "leave.submitted"
	ActionLeaveApproved       = "leave.approved"
	ActionLeaveRejected       = "leave.rejected"
	ActionLeaveCancelled      = "leave.cancelled"
	ActionBalanceMissing      = "leave.balance_missing"
	ActionUserRegistered      = "user.registered"
	ActionLeaveEventForwarded = "leave.event_consumed"
	ActionServerShutdown      = "server.shutdown"
)

type Entry struct {
	Action  string
	Message string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// StdoutLogger writes audit entries as structured log lines on the "audit"
// logger.
type StdoutLogger struct {
	logger *zap.Logger
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Entry) {
	md := contextutil.ExtractMetadata(ctx)
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.String("request_id", md.RequestID),
		zap.Uint("actor_id", md.UserID),
		zap.Any("meta", entry.Meta),
	)
}

// Nop discards entries.
type Nop struct{}

func (Nop) Log(context.Context, Entry) {}
