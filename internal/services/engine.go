package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crewlink/backend/internal/models"
	"github.com/crewlink/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// Engine composes classification, record persistence, and push delivery
// into the processing pipeline for a single change event. Every
// invocation is independent; the only shared state is the lazily
// initialized messaging client behind the dispatcher.
type Engine struct {
	classifier *Classifier
	records    repositories.NotificationRepository
	dispatcher *Dispatcher
	presence   *Reconciler
	store      repositories.UserStore
	log        zerolog.Logger
}

// NewEngine creates a new Engine
func NewEngine(classifier *Classifier, records repositories.NotificationRepository, dispatcher *Dispatcher, presence *Reconciler, store repositories.UserStore, log zerolog.Logger) *Engine {
	return &Engine{
		classifier: classifier,
		records:    records,
		dispatcher: dispatcher,
		presence:   presence,
		store:      store,
		log:        log,
	}
}

// Process handles one change event to completion. A returned error
// marks a failed invocation the event source may redeliver; redelivery
// is safe because record appends dedup on (type, reference_id).
// Discarded events return nil.
func (e *Engine) Process(ctx context.Context, event *models.ChangeEvent) error {
	switch event.Kind {
	case models.EventUserStatusChanged:
		return e.processHeartbeat(ctx, event)
	case models.EventNotificationCreated:
		return e.processRecordCreated(ctx, event)
	case models.EventCreditAdded, models.EventJoinRequestCreated, models.EventChatMessageCreated:
		return e.processDomainEvent(ctx, event)
	case models.EventProjectCreated, models.EventProjectUpdated, models.EventProjectDeleted, models.EventUserUpdated:
		// Search-index synchronization shares the event source but is
		// handled by a different consumer.
		e.log.Debug().Str("kind", event.Kind).Msg("event kind not handled by the notification engine")
		return nil
	default:
		e.log.Warn().Str("kind", event.Kind).Msg("unrecognized event kind, discarding")
		return nil
	}
}

func (e *Engine) processDomainEvent(ctx context.Context, event *models.ChangeEvent) error {
	intent, err := e.classifier.Classify(ctx, event)
	if err != nil {
		return err
	}
	if intent == nil {
		return nil
	}

	if !intent.Persist {
		report := e.dispatcher.Deliver(ctx, intent.RecipientID, intent.Title, intent.Body)
		e.logReport(intent.RecipientID, intent.Type, report)
		return nil
	}

	record, created, err := e.records.Append(ctx, intent)
	if err != nil {
		return fmt.Errorf("append notification record: %w", err)
	}
	if !created {
		e.log.Info().Str("type", intent.Type).Str("referenceId", intent.ReferenceID).Msg("record already persisted for this event, skipping push")
		return nil
	}

	e.handleRecordPersisted(ctx, &models.RecordPersisted{
		RecipientID: record.RecipientID,
		Type:        record.Type,
		SenderName:  record.SenderName,
		Message:     record.Message,
	})
	return nil
}

func (e *Engine) processRecordCreated(ctx context.Context, event *models.ChangeEvent) error {
	var doc models.NotificationDoc
	if len(event.After) == 0 || json.Unmarshal(event.After, &doc) != nil || doc.RecipientID == "" {
		e.log.Warn().Str("id", event.Param("notificationId")).Msg("malformed notification record payload, discarding")
		return nil
	}
	e.handleRecordPersisted(ctx, &models.RecordPersisted{
		RecipientID: doc.RecipientID,
		Type:        doc.Type,
		SenderName:  doc.SenderName,
		Message:     doc.Message,
	})
	return nil
}

// handleRecordPersisted is the hand-off from persisted state to push
// delivery. It never creates another record, and delivery failures stay
// inside the report: the persisted record is not rolled back.
func (e *Engine) handleRecordPersisted(ctx context.Context, record *models.RecordPersisted) {
	title, body := PushContent(record)
	report := e.dispatcher.Deliver(ctx, record.RecipientID, title, body)
	e.logReport(record.RecipientID, record.Type, report)
}

func (e *Engine) processHeartbeat(ctx context.Context, event *models.ChangeEvent) error {
	uid := event.Param("uid")
	if uid == "" {
		e.log.Warn().Msg("heartbeat event missing uid, discarding")
		return nil
	}
	update := e.presence.Reconcile(event)
	if update == nil {
		return nil
	}
	if err := e.store.UpdatePresence(ctx, uid, *update); err != nil {
		return fmt.Errorf("update presence for %s: %w", uid, err)
	}
	return nil
}

func (e *Engine) logReport(recipientID, notifType string, report models.DeliveryReport) {
	e.log.Info().
		Str("recipientId", recipientID).
		Str("type", notifType).
		Str("outcome", report.Outcome).
		Int("attempted", report.Attempted).
		Int("succeeded", report.Succeeded).
		Int("pruned", report.Pruned).
		Msg("push delivery attempted")
}
