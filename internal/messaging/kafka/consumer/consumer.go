package consumer

import (
	"context"
	"errors"
	"time"

	"go-leaveflow/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// errPoison marks a message that can never be processed. It is committed
// so the partition moves on.
var errPoison = errors.New("poison message")

// Waits between attempts at a failing message start at retryBackoff and
// double up to maxRetryBackoff.
var (
	retryBackoff    = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

type handleFunc func(ctx context.Context, msg kafkago.Message) error

// run fetches until ctx ends. A message is committed once its handler
// succeeds or reports errPoison. Any other error retries the same message
// with backoff, so later offsets are never committed over it.
func run(ctx context.Context, reader MessageReader, log *zap.Logger, handle handleFunc) {
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		msgCtx := contextutil.WithRequestID(ctx, header(msg, "request_id"))
		if !handleWithRetry(msgCtx, msg, log, handle) {
			log.Info("consumer stopped", zap.Int64("pending_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

// handleWithRetry reports false when ctx ends before the message is settled.
func handleWithRetry(ctx context.Context, msg kafkago.Message, log *zap.Logger, handle handleFunc) bool {
	wait := retryBackoff
	for attempt := 1; ; attempt++ {
		err := handle(ctx, msg)
		if err == nil || errors.Is(err, errPoison) {
			return true
		}

		log.Error("handle message failed",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		wait *= 2
		if wait > maxRetryBackoff {
			wait = maxRetryBackoff
		}
	}
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
