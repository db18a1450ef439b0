package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-leaveflow/internal/config"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/messaging/kafka/consumer"
	"go-leaveflow/internal/shared/audit"
	"go-leaveflow/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func newReader(cfg config.KafkaConfig, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Broker},
		Topic:          topic,
		GroupID:        cfg.ConsumerGroup + "-" + group,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer runs the balance seeder and the leave audit trail consumers
// until SIGINT/SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	balanceService := leavebalance.NewService(
		sqlDB,
		leavebalance.NewRepository(gormDB),
		leavetype.NewRepository(gormDB),
		logger,
	)
	auditor := audit.NewStdoutLogger(logger)

	userReader := newReader(cfg.Kafka, events.UserRegisteredTopic, "balance-seeder")
	defer userReader.Close()
	leaveReader := newReader(cfg.Kafka, events.LeaveLifecycleTopic, "leave-audit")
	defer leaveReader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeUserRegistered(ctx, userReader, balanceService, auditor, leavebalance.CurrentYear, log)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveLifecycle(ctx, leaveReader, auditor, log)
	}()
	wg.Wait()

	log.Info("consumer shut down")
	return nil
}
