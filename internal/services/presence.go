package services

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/crewlink/backend/internal/models"
	"github.com/rs/zerolog"
)

// Reconciler translates raw connectivity heartbeats into a user's
// online/offline status and last-seen timestamp.
type Reconciler struct {
	log zerolog.Logger
	now func() time.Time
}

// NewReconciler creates a new Reconciler
func NewReconciler(log zerolog.Logger) *Reconciler {
	return &Reconciler{log: log, now: time.Now}
}

// Reconcile returns the presence update a heartbeat change implies, or
// nil when the heartbeat carries an unrecognized status.
//
// A deleted heartbeat key means the client dropped without reporting
// offline; there is no client timestamp to trust, so last-seen becomes
// the time the deletion was observed. A graceful offline write carries
// the client's own timestamp.
func (r *Reconciler) Reconcile(event *models.ChangeEvent) *models.PresenceUpdate {
	if len(event.After) == 0 || bytes.Equal(event.After, []byte("null")) {
		r.log.Info().Str("uid", event.Param("uid")).Msg("heartbeat key deleted, setting offline")
		now := r.now().UTC()
		return &models.PresenceUpdate{Status: models.StatusOffline, LastSeen: &now}
	}

	var hb models.HeartbeatDoc
	if err := json.Unmarshal(event.After, &hb); err != nil {
		r.log.Warn().Err(err).Str("uid", event.Param("uid")).Msg("malformed heartbeat payload, ignoring")
		return nil
	}

	switch hb.Status {
	case models.StatusOnline:
		return &models.PresenceUpdate{Status: models.StatusOnline}
	case models.StatusOffline:
		lastSeen := r.now().UTC()
		if hb.Timestamp > 0 {
			lastSeen = time.UnixMilli(hb.Timestamp).UTC()
		}
		return &models.PresenceUpdate{Status: models.StatusOffline, LastSeen: &lastSeen}
	default:
		r.log.Info().Str("status", hb.Status).Msg("heartbeat status not online or offline, ignoring")
		return nil
	}
}
