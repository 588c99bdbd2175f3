package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/backend/internal/domain/shared"
)

// EventRecorder is a shared.EventHandler that keeps every event it receives
type EventRecorder struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewEventRecorder records the given event types
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to
func (r *EventRecorder) EventTypes() []string {
	return r.eventTypes
}

// Handle records the event and returns the configured error
func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handled = append(r.handled, event)
	return r.err
}

// SetError makes later Handle calls fail with err
func (r *EventRecorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// ForOffice returns the recorded events of one office in arrival order
func (r *EventRecorder) ForOffice(officeID uuid.UUID) []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range r.handled {
		if e.OfficeID() == officeID {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of eventType the office received
func (r *EventRecorder) Count(officeID uuid.UUID, eventType string) int {
	n := 0
	for _, e := range r.ForOffice(officeID) {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// NewTestEvent builds an event for officeID with a random aggregate
func NewTestEvent(eventType string, officeID uuid.UUID) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), officeID)
	return &e
}

// RequireEventually fails the test unless condition holds within timeout
func RequireEventually(t *testing.T, condition func() bool, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	require.Eventually(t, condition, timeout, 10*time.Millisecond, msgAndArgs...)
}
