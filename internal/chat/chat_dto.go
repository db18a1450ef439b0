package chat

import (
	"go-leaveflow/internal/shared/storage"
)

const (
	timeLayout = "03:04 PM"
	dayLayout  = "Jan 02, 2006"
)

// Outgoing is a message to send. It is either a TextMessage or an
// AttachmentMessage; the transport decides which.
type Outgoing interface {
	receiver() uint
	text() string
	upload() *storage.Upload
}

type TextMessage struct {
	ReceiverID uint   `json:"receiver_id"`
	Message    string `json:"message"`
}

func (m TextMessage) receiver() uint          { return m.ReceiverID }
func (m TextMessage) text() string            { return m.Message }
func (m TextMessage) upload() *storage.Upload { return nil }

type AttachmentMessage struct {
	ReceiverID uint
	Message    string
	File       *storage.Upload
}

func (m AttachmentMessage) receiver() uint          { return m.ReceiverID }
func (m AttachmentMessage) text() string            { return m.Message }
func (m AttachmentMessage) upload() *storage.Upload { return m.File }

type PartnerResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Unread int64  `json:"unread"`
}

type MessageResponse struct {
	ID             uint    `json:"id"`
	SenderID       uint    `json:"sender_id"`
	SenderName     string  `json:"sender_name"`
	Message        string  `json:"message"`
	IsMine         bool    `json:"is_mine"`
	Time           string  `json:"time"`
	Date           string  `json:"date"`
	HasAttachment  bool    `json:"has_attachment"`
	AttachmentURL  *string `json:"attachment_url"`
	AttachmentName string  `json:"attachment_name"`
	IsImage        bool    `json:"is_image"`
	IsPDF          bool    `json:"is_pdf"`
}
