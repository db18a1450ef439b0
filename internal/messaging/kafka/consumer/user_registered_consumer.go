package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/shared/audit"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BalanceSeeder is satisfied by leavebalance.Service.
type BalanceSeeder interface {
	SeedDefaults(ctx context.Context, employeeID uint, year int) (int, error)
}

// ConsumeUserRegistered opens the current year's leave balances for every
// newly registered employee.
func ConsumeUserRegistered(
	ctx context.Context,
	reader MessageReader,
	seeder BalanceSeeder,
	auditor audit.Logger,
	currentYear func() int,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.user_registered")
	run(ctx, reader, log, userRegisteredHandler(seeder, auditor, currentYear, log))
}

func userRegisteredHandler(seeder BalanceSeeder, auditor audit.Logger, currentYear func() int, log *zap.Logger) handleFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.UserRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode user.registered event failed", zap.Error(err))
			return fmt.Errorf("%w: %v", errPoison, err)
		}

		if event.Role == string(domain.RoleEmployee) {
			created, err := seeder.SeedDefaults(ctx, event.UserID, currentYear())
			if err != nil {
				return err
			}
			log.Info("leave balances seeded from user.registered",
				zap.Uint("user_id", event.UserID),
				zap.Int("created", created),
			)
		} else {
			log.Debug("no balances for non-employee", zap.Uint("user_id", event.UserID), zap.String("role", event.Role))
		}

		auditor.Log(ctx, audit.Entry{
			Action:  audit.ActionUserRegistered,
			Message: "user registered",
			Meta:    map[string]any{"user_id": event.UserID, "role": event.Role},
		})
		return nil
	}
}
