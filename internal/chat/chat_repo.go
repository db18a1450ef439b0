package chat

import (
	"context"
	"database/sql"

	"go-leaveflow/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=chat_repo.go -destination=mock/chat_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *ChatMessage) error
	// Conversation returns every message exchanged between a and b, oldest
	// first.
	Conversation(ctx context.Context, a, b uint) ([]ChatMessage, error)
	// NewFrom returns messages sender sent to receiver with id > afterID,
	// oldest first.
	NewFrom(ctx context.Context, senderID, receiverID, afterID uint) ([]ChatMessage, error)
	// MarkRead flips unread messages sender->receiver with
	// afterID < id <= throughID.
	MarkRead(ctx context.Context, senderID, receiverID, afterID, throughID uint) (int64, error)
	UnreadCounts(ctx context.Context, receiverID uint, senderIDs []uint) (map[uint]int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Scoped(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, m *ChatMessage) error {
	return r.conn(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *repository) Conversation(ctx context.Context, a, b uint) ([]ChatMessage, error) {
	var msgs []ChatMessage
	err := r.conn(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Order("id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *repository) NewFrom(ctx context.Context, senderID, receiverID, afterID uint) ([]ChatMessage, error) {
	var msgs []ChatMessage
	err := r.conn(ctx).
		Preload("Sender").
		Where("sender_id = ? AND receiver_id = ? AND id > ?", senderID, receiverID, afterID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *repository) MarkRead(ctx context.Context, senderID, receiverID, afterID, throughID uint) (int64, error) {
	res := r.conn(ctx).
		Model(&ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND id > ? AND id <= ? AND is_read = ?", senderID, receiverID, afterID, throughID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

type unreadRow struct {
	SenderID uint
	Unread   int64
}

func (r *repository) UnreadCounts(ctx context.Context, receiverID uint, senderIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(senderIDs))
	if len(senderIDs) == 0 {
		return counts, nil
	}

	var rows []unreadRow
	err := r.conn(ctx).
		Model(&ChatMessage{}).
		Select("sender_id, COUNT(*) AS unread").
		Where("receiver_id = ? AND is_read = ? AND sender_id IN ?", receiverID, false, senderIDs).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.SenderID] = row.Unread
	}
	return counts, nil
}
