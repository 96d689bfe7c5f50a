package services

import (
	"context"
	"errors"

	"github.com/crewlink/backend/internal/models"
	"github.com/crewlink/backend/internal/push"
	"github.com/crewlink/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// Dispatcher resolves a recipient's delivery destinations, performs one
// multicast push attempt, and prunes destinations that came back
// permanently dead.
type Dispatcher struct {
	store     repositories.UserStore
	multicast push.Multicaster
	log       zerolog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(store repositories.UserStore, multicast push.Multicaster, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{store: store, multicast: multicast, log: log}
}

// Deliver attempts exactly one multicast push to every destination
// registered for the recipient. Failures are absorbed into the report
// and never abort the caller: the record that triggered delivery is
// already committed.
func (d *Dispatcher) Deliver(ctx context.Context, recipientID, title, body string) models.DeliveryReport {
	user, err := d.store.GetUser(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			d.log.Warn().Str("recipientId", recipientID).Msg("recipient not found, cannot deliver push")
			return models.DeliveryReport{Outcome: models.DeliveryNoDestinations}
		}
		d.log.Error().Err(err).Str("recipientId", recipientID).Msg("failed to resolve destinations")
		return models.DeliveryReport{Outcome: models.DeliveryFailed}
	}

	tokens := user.Destinations()
	if len(tokens) == 0 {
		// Normal outcome: the recipient simply has no registered devices.
		d.log.Info().Str("recipientId", recipientID).Msg("recipient has no destinations, skipping push")
		return models.DeliveryReport{Outcome: models.DeliveryNoDestinations}
	}

	outcomes, err := d.multicast.SendMulticast(ctx, tokens, title, body)
	if err != nil {
		d.log.Error().Err(err).Str("recipientId", recipientID).Int("tokens", len(tokens)).Msg("multicast delivery failed")
		return models.DeliveryReport{Outcome: models.DeliveryFailed, Attempted: len(tokens)}
	}

	report := models.DeliveryReport{Outcome: models.DeliveryDelivered, Attempted: len(tokens)}
	var prune []string
	for _, outcome := range outcomes {
		if outcome.Success {
			report.Succeeded++
			continue
		}
		if outcome.ErrorKind.Permanent() {
			prune = append(prune, outcome.Destination)
			continue
		}
		// Transient failures keep the token; a provider outage must
		// never cause destination loss.
		d.log.Warn().Str("recipientId", recipientID).Str("errorKind", string(outcome.ErrorKind)).Msg("push to destination failed, keeping token")
	}

	if len(prune) > 0 {
		if err := d.store.RemoveDestinations(ctx, recipientID, prune); err != nil {
			d.log.Error().Err(err).Str("recipientId", recipientID).Int("tokens", len(prune)).Msg("failed to prune dead destinations")
		} else {
			report.Pruned = len(prune)
			d.log.Info().Str("recipientId", recipientID).Int("pruned", len(prune)).Msg("cleaned up dead destinations")
		}
	}
	return report
}
