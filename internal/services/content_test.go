package services

import (
	"testing"

	"github.com/crewlink/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPushContent(t *testing.T) {
	tests := []struct {
		name      string
		record    models.RecordPersisted
		wantTitle string
		wantBody  string
	}{
		{
			name:      "connection request",
			record:    models.RecordPersisted{Type: models.TypeConnectionRequest, SenderName: "Bob"},
			wantTitle: "New Connection Request",
			wantBody:  "Bob wants to connect with you.",
		},
		{
			name:      "credit request carries the stored message",
			record:    models.RecordPersisted{Type: models.TypeCreditRequest, Message: "Alice added you as 'Editor' on 'Film X'"},
			wantTitle: "New Project Credit",
			wantBody:  "Alice added you as 'Editor' on 'Film X'",
		},
		{
			name:      "join request carries the stored message",
			record:    models.RecordPersisted{Type: models.TypeJoinRequest, Message: "Carol requested to join 'Film X' as 'Gaffer'."},
			wantTitle: "New Join Request",
			wantBody:  "Carol requested to join 'Film X' as 'Gaffer'.",
		},
		{
			name:      "unknown types fall back to a generic payload",
			record:    models.RecordPersisted{Type: "something_else"},
			wantTitle: "New Notification",
			wantBody:  "You have a new update.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := PushContent(&tt.record)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
