package services

import (
	"context"
	"errors"
	"testing"

	"github.com/crewlink/backend/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMulticaster applies positional results to whatever token list it
// receives.
type fakeMulticaster struct {
	results []models.DeliveryOutcome
	err     error

	calls     int
	gotTokens []string
	gotTitle  string
	gotBody   string
}

func (m *fakeMulticaster) SendMulticast(_ context.Context, tokens []string, title, body string) ([]models.DeliveryOutcome, error) {
	m.calls++
	m.gotTokens = tokens
	m.gotTitle = title
	m.gotBody = body
	if m.err != nil {
		return nil, m.err
	}
	outcomes := make([]models.DeliveryOutcome, len(tokens))
	for i := range tokens {
		outcomes[i] = models.DeliveryOutcome{Destination: tokens[i]}
		if i < len(m.results) {
			outcomes[i].Success = m.results[i].Success
			outcomes[i].ErrorKind = m.results[i].ErrorKind
		}
	}
	return outcomes, nil
}

func ok() models.DeliveryOutcome { return models.DeliveryOutcome{Success: true} }

func failed(kind models.ErrorKind) models.DeliveryOutcome {
	return models.DeliveryOutcome{ErrorKind: kind}
}

func TestDeliverPrunesDeadDestinations(t *testing.T) {
	store := newFakeUserStore()
	store.users["U2"] = &models.User{ID: "U2", FCMTokens: []string{"t1", "t2", "t3"}}
	mc := &fakeMulticaster{results: []models.DeliveryOutcome{
		ok(),
		failed(models.ErrorKindUnregistered),
		failed(models.ErrorKindTransient),
	}}
	d := NewDispatcher(store, mc, zerolog.Nop())

	report := d.Deliver(context.Background(), "U2", "title", "body")

	assert.Equal(t, models.DeliveryDelivered, report.Outcome)
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Pruned)
	// t2 was unregistered; t3 only failed transiently and survives.
	assert.Equal(t, []string{"t2"}, store.removed["U2"])
}

func TestDeliverPrunesExactPositions(t *testing.T) {
	store := newFakeUserStore()
	store.users["U2"] = &models.User{ID: "U2", FCMTokens: []string{"t1", "t2", "t3", "t4", "t5"}}
	mc := &fakeMulticaster{results: []models.DeliveryOutcome{
		ok(),
		failed(models.ErrorKindUnregistered),
		failed(models.ErrorKindUnknown),
		failed(models.ErrorKindInvalidToken),
		ok(),
	}}
	d := NewDispatcher(store, mc, zerolog.Nop())

	report := d.Deliver(context.Background(), "U2", "title", "body")

	assert.Equal(t, 2, report.Pruned)
	assert.Equal(t, []string{"t2", "t4"}, store.removed["U2"])
}

func TestDeliverNeverPrunesTransientFailures(t *testing.T) {
	store := newFakeUserStore()
	store.users["U2"] = &models.User{ID: "U2", FCMTokens: []string{"t1", "t2"}}
	mc := &fakeMulticaster{results: []models.DeliveryOutcome{
		failed(models.ErrorKindTransient),
		failed(models.ErrorKindUnknown),
	}}
	d := NewDispatcher(store, mc, zerolog.Nop())

	report := d.Deliver(context.Background(), "U2", "title", "body")

	assert.Equal(t, 0, report.Pruned)
	assert.Empty(t, store.removed["U2"])
}

func TestDeliverShortCircuitsWithoutDestinations(t *testing.T) {
	store := newFakeUserStore()
	store.users["U2"] = &models.User{ID: "U2"}
	mc := &fakeMulticaster{}
	d := NewDispatcher(store, mc, zerolog.Nop())

	report := d.Deliver(context.Background(), "U2", "title", "body")

	assert.Equal(t, models.DeliveryNoDestinations, report.Outcome)
	assert.Zero(t, mc.calls)
}

func TestDeliverReportsWholeBatchFailure(t *testing.T) {
	store := newFakeUserStore()
	store.users["U2"] = &models.User{ID: "U2", FCMTokens: []string{"t1", "t2"}}
	mc := &fakeMulticaster{err: errors.New("transport down")}
	d := NewDispatcher(store, mc, zerolog.Nop())

	report := d.Deliver(context.Background(), "U2", "title", "body")

	assert.Equal(t, models.DeliveryFailed, report.Outcome)
	assert.Equal(t, 2, report.Attempted)
	assert.Empty(t, store.removed["U2"])
}

func TestDeliverIncludesLegacyToken(t *testing.T) {
	store := newFakeUserStore()
	store.users["U2"] = &models.User{ID: "U2", FCMTokens: []string{"t1"}, FCMToken: "legacy"}
	mc := &fakeMulticaster{results: []models.DeliveryOutcome{ok(), ok()}}
	d := NewDispatcher(store, mc, zerolog.Nop())

	report := d.Deliver(context.Background(), "U2", "title", "body")

	require.Equal(t, []string{"t1", "legacy"}, mc.gotTokens)
	assert.Equal(t, 2, report.Succeeded)
}

func TestDeliverSurvivesPruneFailure(t *testing.T) {
	store := newFakeUserStore()
	store.users["U2"] = &models.User{ID: "U2", FCMTokens: []string{"t1"}}
	store.removeErr = errors.New("write failed")
	mc := &fakeMulticaster{results: []models.DeliveryOutcome{failed(models.ErrorKindUnregistered)}}
	d := NewDispatcher(store, mc, zerolog.Nop())

	report := d.Deliver(context.Background(), "U2", "title", "body")

	// The attempt itself is still reported; only the cleanup failed.
	assert.Equal(t, models.DeliveryDelivered, report.Outcome)
	assert.Equal(t, 0, report.Pruned)
}
