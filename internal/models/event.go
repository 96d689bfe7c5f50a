package models

import "encoding/json"

// Event kinds delivered by the change-event source.
const (
	EventCreditAdded         = "credit_added"
	EventJoinRequestCreated  = "join_request_created"
	EventNotificationCreated = "notification_record_created"
	EventChatMessageCreated  = "chat_message_created"
	EventUserStatusChanged   = "user_status_changed"
	EventProjectCreated      = "project_created"
	EventProjectUpdated      = "project_updated"
	EventProjectDeleted      = "project_deleted"
	EventUserUpdated         = "user_updated"
)

// ChangeEvent is the envelope the event source delivers for every
// data-store change.
type ChangeEvent struct {
	Kind   string            `json:"kind" validate:"required"`
	Params map[string]string `json:"pathParams"`
	Before json.RawMessage   `json:"beforeState,omitempty"`
	After  json.RawMessage   `json:"afterState,omitempty"`
}

// Param returns a path parameter by name, or "" when absent.
func (e *ChangeEvent) Param(name string) string {
	return e.Params[name]
}

// CreditDoc is the payload of a credit_added event. Creator name and
// project title are denormalized onto the credit document at write time.
type CreditDoc struct {
	UserID       string `json:"userId" validate:"required"`
	ProjectID    string `json:"projectId" validate:"required"`
	Role         string `json:"role"`
	ProjectTitle string `json:"projectTitle"`
	CreatorName  string `json:"creatorName"`
	CreatedBy    string `json:"createdBy"`
}

// JoinRequestDoc is the payload of a join_request_created event.
type JoinRequestDoc struct {
	Status                   string `json:"status"`
	ProjectID                string `json:"projectId"`
	ProjectTitle             string `json:"projectTitle"`
	ProjectCreatorID         string `json:"projectCreatorId" validate:"required"`
	RequestedRole            string `json:"requestedRole"`
	RequestingUserID         string `json:"requestingUserId"`
	RequestingUserName       string `json:"requestingUserName"`
	RequestingUserProfilePic string `json:"requestingUserProfilePic"`
}

// ChatMessageDoc is the payload of a chat_message_created event.
type ChatMessageDoc struct {
	SenderID string `json:"senderId" validate:"required"`
	Text     string `json:"text"`
}

// HeartbeatDoc is the payload written at the presence key for a user.
// Timestamp is client-reported epoch milliseconds and only meaningful
// for graceful offline transitions.
type HeartbeatDoc struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// NotificationDoc is a notification record as stored upstream, carried
// by notification_record_created events for records written by external
// producers.
type NotificationDoc struct {
	RecipientID string `json:"recipientId"`
	SenderID    string `json:"senderId"`
	SenderName  string `json:"senderName"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	ReferenceID string `json:"referenceId"`
}
