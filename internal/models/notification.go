package models

import "time"

// Notification types.
const (
	TypeConnectionRequest = "connection_request"
	TypeCreditRequest     = "credit_request"
	TypeJoinRequest       = "join_request"
	TypeChatMessage       = "chat_message"
	TypeGeneric           = "generic"
)

// Notification represents a durable in-app notification record (PostgreSQL).
// The (type, reference_id) pair is unique so a redelivered source event
// cannot create a second record.
type Notification struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	RecipientID string    `json:"recipient_id" gorm:"size:64;index"`
	SenderID    string    `json:"sender_id" gorm:"size:64"`
	SenderName  string    `json:"sender_name" gorm:"size:120"`
	Type        string    `json:"type" gorm:"size:30;uniqueIndex:idx_notifications_dedup"`
	Message     string    `json:"message"`
	ReferenceID string    `json:"reference_id" gorm:"size:64;uniqueIndex:idx_notifications_dedup"`
	ProjectID   string    `json:"project_id" gorm:"size:64"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// NotificationIntent is the decided content and target of a notification
// prior to persistence. Immutable once constructed.
type NotificationIntent struct {
	RecipientID string
	Type        string
	Message     string
	ReferenceID string
	ProjectID   string
	SenderID    string
	SenderName  string

	// Persist is false for push-only intents (chat messages carry no
	// in-app record; the push payload lives in Title/Body instead).
	Persist bool
	Title   string
	Body    string
}

// RecordPersisted is the typed hand-off between record persistence and
// push delivery. It is produced after a successful append, or decoded
// from a notification_record_created event for records written upstream.
type RecordPersisted struct {
	RecipientID string
	Type        string
	SenderName  string
	Message     string
}
