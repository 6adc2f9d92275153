package domain

import "encoding/json"

// EventKind is the closed set of webhook event kinds this service reacts to.
// Unknown provider event types map to EventUnrecognized and are acknowledged
// without action, so new provider events cannot break delivery.
type EventKind string

const (
	EventCheckoutSessionCompleted EventKind = "checkout.session.completed"
	EventUnrecognized             EventKind = ""
)

// ParseEventKind maps a provider event type string onto the closed set.
func ParseEventKind(raw string) EventKind {
	switch raw {
	case string(EventCheckoutSessionCompleted):
		return EventCheckoutSessionCompleted
	default:
		return EventUnrecognized
	}
}

// WebhookEvent is a verified, parsed payment-provider event. Data.Object is
// left raw; each event kind unmarshals it into its own shape.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Kind returns the event's kind within the closed set.
func (e *WebhookEvent) Kind() EventKind {
	return ParseEventKind(e.Type)
}

// SessionSnapshot is the lean session view carried on the webhook payload.
// Shipping address and buyer email may be absent here; the full session is
// re-fetched before an order is submitted.
type SessionSnapshot struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// SessionFromEvent extracts the session snapshot from a
// checkout.session.completed event.
func SessionFromEvent(e *WebhookEvent) (*SessionSnapshot, error) {
	var snap SessionSnapshot
	if err := json.Unmarshal(e.Data.Object, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
