package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-leaveflow/internal/events"
	"go-leaveflow/internal/shared/audit"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle copies leave transitions into the audit trail.
func ConsumeLeaveLifecycle(ctx context.Context, reader MessageReader, auditor audit.Logger, logger *zap.Logger) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	run(ctx, reader, log, leaveLifecycleHandler(auditor, log))
}

func leaveLifecycleHandler(auditor audit.Logger, log *zap.Logger) handleFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.LeaveEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave event failed", zap.Error(err))
			return fmt.Errorf("%w: %v", errPoison, err)
		}

		meta := map[string]any{
			"event_type":  event.EventType,
			"leave_id":    event.LeaveID,
			"employee_id": event.EmployeeID,
			"actor_id":    event.ActorID,
			"status":      event.Status,
			"total_days":  event.TotalDays,
			"occurred_at": event.OccurredAt,
		}
		if event.BalanceApplied != nil {
			meta["balance_applied"] = *event.BalanceApplied
		}

		auditor.Log(ctx, audit.Entry{
			Action:  audit.ActionLeaveEventForwarded,
			Message: event.EventType,
			Meta:    meta,
		})
		return nil
	}
}
