package push

import (
	"context"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"github.com/crewlink/backend/internal/models"
	fb "github.com/crewlink/backend/pkg/firebase"
)

// Multicaster sends one push payload to many destinations in a single
// batch call, returning one outcome per destination in request order.
// Order preservation is a hard requirement: callers prune destinations
// by position.
type Multicaster interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string) ([]models.DeliveryOutcome, error)
}

// FCMMulticaster implements Multicaster on Firebase Cloud Messaging.
type FCMMulticaster struct {
	app *fb.App
}

// NewFCMMulticaster creates a new FCMMulticaster
func NewFCMMulticaster(app *fb.App) *FCMMulticaster {
	return &FCMMulticaster{app: app}
}

// SendMulticast delivers the payload to every token in one batch. A
// returned error means the whole batch failed; per-token failures are
// reported through the outcomes.
func (m *FCMMulticaster) SendMulticast(ctx context.Context, tokens []string, title, body string) ([]models.DeliveryOutcome, error) {
	client, err := m.app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{Sound: "default"},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	resp, err := client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return nil, err
	}

	outcomes := make([]models.DeliveryOutcome, len(resp.Responses))
	for i, r := range resp.Responses {
		outcome := models.DeliveryOutcome{Destination: tokens[i], Success: r.Success}
		if !r.Success {
			outcome.ErrorKind = classifySendError(r.Error)
		}
		outcomes[i] = outcome
	}
	return outcomes, nil
}

func classifySendError(err error) models.ErrorKind {
	switch {
	case err == nil:
		return models.ErrorKindUnknown
	case messaging.IsUnregistered(err):
		return models.ErrorKindUnregistered
	case errorutils.IsInvalidArgument(err):
		return models.ErrorKindInvalidToken
	case errorutils.IsUnavailable(err), errorutils.IsInternal(err), errorutils.IsDeadlineExceeded(err), errorutils.IsResourceExhausted(err):
		return models.ErrorKindTransient
	default:
		return models.ErrorKindUnknown
	}
}
