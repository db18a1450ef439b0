package chat

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"

	chaterrors "go-leaveflow/internal/chat/errors"
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/metrics"
	"go-leaveflow/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const AttachmentFolder = "chat_attachments"

// FileStore keeps uploaded attachments. Implemented by storage.LocalStorage.
type FileStore interface {
	SaveUpload(folder, originalName string, r io.Reader) (string, error)
	Delete(rel string) error
	URL(rel string) string
}

type Options struct {
	MaxAttachmentBytes int64
	MaxPollWait        time.Duration
}

//go:generate mockgen -source=chat_service.go -destination=mock/chat_service_mock.go -package=mock
type Service interface {
	Partners(ctx context.Context, callerID uint, role domain.Role) ([]PartnerResponse, error)
	History(ctx context.Context, callerID, partnerID uint) ([]MessageResponse, error)
	Send(ctx context.Context, callerID uint, msg Outgoing) (MessageResponse, error)
	Poll(ctx context.Context, callerID, partnerID, lastID uint, wait time.Duration) ([]MessageResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	users    user.Repository
	store    FileStore
	notifier Notifier
	recorder *metrics.Recorder
	opts     Options
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	store FileStore,
	notifier Notifier,
	recorder *metrics.Recorder,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("chat.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("chat.service")
	}
	if opts.MaxAttachmentBytes <= 0 {
		opts.MaxAttachmentBytes = 10 << 20
	}
	if opts.MaxPollWait <= 0 {
		opts.MaxPollWait = 25 * time.Second
	}
	return &service{
		db:       db,
		repo:     repo,
		users:    users,
		store:    store,
		notifier: notifier,
		recorder: recorder,
		opts:     opts,
		logger:   l,
	}
}

// Partners lists who the caller may talk to: managers for an employee,
// direct reports for everyone else.
func (s *service) Partners(ctx context.Context, callerID uint, role domain.Role) ([]PartnerResponse, error) {
	var (
		partners []user.User
		err      error
	)
	if role == domain.RoleEmployee {
		partners, err = s.users.FindByRole(ctx, string(domain.RoleManager))
	} else {
		partners, err = s.users.FindByManager(ctx, callerID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(partners))
	for i, p := range partners {
		ids[i] = p.ID
	}
	unread, err := s.repo.UnreadCounts(ctx, callerID, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]PartnerResponse, len(partners))
	for i, p := range partners {
		resp[i] = PartnerResponse{
			ID:     p.ID,
			Name:   p.DisplayName(),
			Email:  p.Email,
			Role:   p.Role,
			Unread: unread[p.ID],
		}
	}
	return resp, nil
}

// History returns the whole conversation and marks everything the partner
// sent to the caller as read.
func (s *service) History(ctx context.Context, callerID, partnerID uint) ([]MessageResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if err := s.ensurePartner(ctx, partnerID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("chat history begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	msgs, err := qtx.Conversation(ctx, callerID, partnerID)
	if err != nil {
		return nil, err
	}
	var marked int64
	if through := newestFrom(msgs, partnerID); through > 0 {
		marked, err = qtx.MarkRead(ctx, partnerID, callerID, 0, through)
		if err != nil {
			l.Error("chat history mark read failed", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error("chat history commit failed", zap.Error(err))
		return nil, err
	}

	l.Debug("chat history loaded",
		zap.Uint("partner_id", partnerID),
		zap.Int("messages", len(msgs)),
		zap.Int64("marked_read", marked),
	)
	return s.mapMessages(callerID, msgs), nil
}

func (s *service) Send(ctx context.Context, callerID uint, msg Outgoing) (MessageResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	receiverID := msg.receiver()
	if receiverID == 0 {
		return MessageResponse{}, chaterrors.ErrReceiverRequired
	}
	text := strings.TrimSpace(msg.text())
	file := msg.upload()
	if text == "" && file == nil {
		return MessageResponse{}, chaterrors.ErrEmptyMessage
	}
	if file != nil && file.Size > s.opts.MaxAttachmentBytes {
		return MessageResponse{}, chaterrors.ErrAttachmentTooLarge
	}

	if err := s.ensurePartner(ctx, receiverID); err != nil {
		return MessageResponse{}, err
	}
	sender, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return MessageResponse{}, err
	}

	m := &ChatMessage{
		SenderID:   callerID,
		ReceiverID: receiverID,
		Message:    text,
	}
	if file != nil {
		rel, err := s.store.SaveUpload(AttachmentFolder, file.Filename, file.Content)
		if err != nil {
			l.Error("chat attachment save failed", zap.String("filename", file.Filename), zap.Error(err))
			return MessageResponse{}, err
		}
		m.Attachment = rel
		m.AttachmentName = file.Filename
	}

	if err := s.repo.Create(ctx, m); err != nil {
		l.Error("chat message persist failed", zap.Error(err))
		if m.Attachment != "" {
			if derr := s.store.Delete(m.Attachment); derr != nil {
				l.Warn("orphan chat attachment left behind", zap.String("path", m.Attachment), zap.Error(derr))
			}
		}
		return MessageResponse{}, err
	}
	m.Sender = sender

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, callerID, receiverID, m.ID); err != nil {
			l.Warn("chat notify failed", zap.Uint("message_id", m.ID), zap.Error(err))
		}
	}
	s.recorder.ChatMessageSent(m.Kind())

	l.Info("chat message sent",
		zap.Uint("message_id", m.ID),
		zap.Uint("receiver_id", receiverID),
		zap.String("kind", m.Kind()),
	)
	return s.mapMessage(callerID, *m), nil
}

// Poll returns what the partner sent after lastID and marks it read. With a
// positive wait and nothing new, it blocks for a notification (bounded by
// MaxPollWait) and queries once more.
func (s *service) Poll(ctx context.Context, callerID, partnerID, lastID uint, wait time.Duration) ([]MessageResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if err := s.ensurePartner(ctx, partnerID); err != nil {
		return nil, err
	}

	var sub Subscription
	if wait > 0 && s.notifier != nil {
		if wait > s.opts.MaxPollWait {
			wait = s.opts.MaxPollWait
		}
		var err error
		sub, err = s.notifier.Subscribe(ctx, partnerID, callerID)
		if err != nil {
			l.Warn("chat subscribe failed, answering without wait", zap.Error(err))
			sub = nil
		} else {
			defer sub.Close() //nolint:errcheck
		}
	}

	msgs, err := s.takeNew(ctx, callerID, partnerID, lastID)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 && sub != nil && sub.Wait(ctx, wait) {
		msgs, err = s.takeNew(ctx, callerID, partnerID, lastID)
		if err != nil {
			return nil, err
		}
	}
	return s.mapMessages(callerID, msgs), nil
}

func (s *service) takeNew(ctx context.Context, callerID, partnerID, lastID uint) ([]ChatMessage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	msgs, err := qtx.NewFrom(ctx, partnerID, callerID, lastID)
	if err != nil {
		return nil, err
	}
	if through := newestFrom(msgs, partnerID); through > 0 {
		if _, err := qtx.MarkRead(ctx, partnerID, callerID, lastID, through); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// newestFrom is the highest id among msgs sent by senderID, or 0. Read
// marks never reach past what the caller was shown.
func newestFrom(msgs []ChatMessage, senderID uint) uint {
	var newest uint
	for _, m := range msgs {
		if m.SenderID == senderID && m.ID > newest {
			newest = m.ID
		}
	}
	return newest
}

func (s *service) ensurePartner(ctx context.Context, partnerID uint) error {
	if _, err := s.users.FindByID(ctx, partnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chaterrors.ErrPartnerNotFound
		}
		return err
	}
	return nil
}

func (s *service) mapMessage(callerID uint, m ChatMessage) MessageResponse {
	resp := MessageResponse{
		ID:             m.ID,
		SenderID:       m.SenderID,
		Message:        m.Message,
		IsMine:         m.SenderID == callerID,
		Time:           m.CreatedAt.Format(timeLayout),
		Date:           m.CreatedAt.Format(dayLayout),
		HasAttachment:  m.HasAttachment(),
		AttachmentName: m.AttachmentName,
		IsImage:        m.IsImage(),
		IsPDF:          m.IsPDF(),
	}
	if m.Sender != nil {
		resp.SenderName = m.Sender.DisplayName()
	}
	if m.HasAttachment() && s.store != nil {
		url := s.store.URL(m.Attachment)
		resp.AttachmentURL = &url
	}
	return resp
}

func (s *service) mapMessages(callerID uint, msgs []ChatMessage) []MessageResponse {
	resp := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		resp[i] = s.mapMessage(callerID, m)
	}
	return resp
}
