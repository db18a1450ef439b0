package chat

import (
	"time"

	"go-leaveflow/internal/shared/storage"
	"go-leaveflow/internal/user"
)

// ChatMessage rows are append-only; only IsRead ever changes.
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey"`
	SenderID       uint      `gorm:"not null;index:idx_chat_messages_pair"`
	ReceiverID     uint      `gorm:"not null;index:idx_chat_messages_pair;index:idx_chat_messages_unread"`
	Message        string    `gorm:"type:text"`
	Attachment     string    `gorm:"type:varchar(255)"`
	AttachmentName string    `gorm:"type:varchar(255)"`
	IsRead         bool      `gorm:"not null;default:false;index:idx_chat_messages_unread"`
	CreatedAt      time.Time `gorm:"index"`

	Sender   *user.User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Receiver *user.User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m ChatMessage) HasAttachment() bool {
	return m.Attachment != ""
}

func (m ChatMessage) IsImage() bool {
	return m.HasAttachment() && storage.IsImage(m.Attachment)
}

func (m ChatMessage) IsPDF() bool {
	return m.HasAttachment() && storage.IsPDF(m.Attachment)
}

// Kind labels the message for metrics.
func (m ChatMessage) Kind() string {
	switch {
	case m.IsImage():
		return "image"
	case m.IsPDF():
		return "pdf"
	case m.HasAttachment():
		return "file"
	default:
		return "text"
	}
}
