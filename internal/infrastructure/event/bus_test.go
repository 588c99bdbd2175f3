package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Contract", uuid.New(), uuid.New()),
	}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
}

func (h *testHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	h.handled = append(h.handled, e)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return bus
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := startedBus(t)
	created := &testHandler{eventTypes: []string{"ContractCreated"}}
	all := &testHandler{}
	bus.Subscribe(created)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("ContractCreated"),
		newTestEvent("TenantCreated"),
	))

	assert.Equal(t, 1, created.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := startedBus(t)
	h := &testHandler{eventTypes: []string{"ContractCreated"}}
	bus.Subscribe(h, "PayablePaid")

	_ = bus.Publish(context.Background(), newTestEvent("ContractCreated"), newTestEvent("PayablePaid"))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopOthers(t *testing.T) {
	bus := startedBus(t)
	failing := &testHandler{eventTypes: []string{"X"}, err: errors.New("boom")}
	panicking := &testHandler{eventTypes: []string{"X"}, panicMsg: "kaboom"}
	ok := &testHandler{eventTypes: []string{"X"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, ok.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	h := &testHandler{eventTypes: []string{"X"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	_ = bus.Publish(context.Background(), newTestEvent("X"))
	assert.Zero(t, h.count())
}

func TestInMemoryEventBus_DropsWhenStopped(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &testHandler{}
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Zero(t, h.count())
}
