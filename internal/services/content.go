package services

import (
	"fmt"

	"github.com/crewlink/backend/internal/models"
)

// PushContent derives the push title and body from a persisted record's
// stored fields. Re-deriving here keeps the storage schema decoupled
// from the push payload.
func PushContent(record *models.RecordPersisted) (title, body string) {
	switch record.Type {
	case models.TypeConnectionRequest:
		return "New Connection Request", fmt.Sprintf("%s wants to connect with you.", record.SenderName)
	case models.TypeCreditRequest:
		return "New Project Credit", record.Message
	case models.TypeJoinRequest:
		return "New Join Request", record.Message
	default:
		return "New Notification", "You have a new update."
	}
}
