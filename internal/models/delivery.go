package models

// ErrorKind classifies a per-destination delivery failure.
type ErrorKind string

const (
	ErrorKindInvalidToken ErrorKind = "invalid_token"
	ErrorKindUnregistered ErrorKind = "unregistered"
	ErrorKindTransient    ErrorKind = "transient"
	ErrorKindUnknown      ErrorKind = "unknown"
)

// Permanent reports whether the failure marks the destination dead.
// Everything else is treated as transient and the destination retained.
func (k ErrorKind) Permanent() bool {
	return k == ErrorKindInvalidToken || k == ErrorKindUnregistered
}

// DeliveryOutcome is the result for a single destination within one
// multicast attempt, aligned positionally with the submitted tokens.
type DeliveryOutcome struct {
	Destination string
	Success     bool
	ErrorKind   ErrorKind
}

// Overall outcomes of a delivery attempt.
const (
	DeliveryDelivered      = "delivered"
	DeliveryNoDestinations = "no_destinations"
	DeliveryFailed         = "failed"
)

// DeliveryReport summarizes one delivery attempt for observability.
type DeliveryReport struct {
	Outcome   string `json:"outcome"`
	Attempted int    `json:"attempted"`
	Succeeded int    `json:"succeeded"`
	Pruned    int    `json:"pruned"`
}
