package audit

import (
	"context"
	"time"

	"auracare/internal/domain"
)

// Event records an admin review action for compliance. Events are advisory:
// publish failures are logged by the publisher and never fail the action.
type Event struct {
	Action    string         `json:"action"` // approve, reject, delete
	Variant   domain.Variant `json:"variant"`
	RecordID  string         `json:"recordId"`
	ActorID   string         `json:"actorId"`
	Timestamp time.Time      `json:"timestamp"`
}

// Publisher delivers audit events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Nop discards events; the default when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}
