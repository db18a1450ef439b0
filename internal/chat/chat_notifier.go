package chat

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Notifier signals that a sender wrote to a receiver so long polls can
// return early.
type Notifier interface {
	Publish(ctx context.Context, senderID, receiverID, messageID uint) error
	Subscribe(ctx context.Context, senderID, receiverID uint) (Subscription, error)
}

type Subscription interface {
	// Wait blocks until a notification, the timeout or ctx cancellation and
	// reports whether a notification arrived.
	Wait(ctx context.Context, timeout time.Duration) bool
	Close() error
}

func channelName(senderID, receiverID uint) string {
	return fmt.Sprintf("chat:notify:%d:%d", senderID, receiverID)
}

type redisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) Notifier {
	return &redisNotifier{rdb: rdb}
}

func (n *redisNotifier) Publish(ctx context.Context, senderID, receiverID, messageID uint) error {
	return n.rdb.Publish(ctx, channelName(senderID, receiverID), strconv.FormatUint(uint64(messageID), 10)).Err()
}

func (n *redisNotifier) Subscribe(ctx context.Context, senderID, receiverID uint) (Subscription, error) {
	ps := n.rdb.Subscribe(ctx, channelName(senderID, receiverID))
	// The first reply confirms the subscription; publishes after this point
	// are not missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	return &redisSubscription{ps: ps}, nil
}

type redisSubscription struct {
	ps *redis.PubSub
}

func (s *redisSubscription) Wait(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case _, ok := <-s.ps.Channel():
		return ok
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (s *redisSubscription) Close() error {
	return s.ps.Close()
}
