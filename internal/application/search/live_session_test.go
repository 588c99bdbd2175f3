package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextEvent(t *testing.T, s *LiveSession) Event {
	t.Helper()
	select {
	case e := <-s.Events():
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no session event")
		return Event{}
	}
}

func TestLiveSession_DropsStaleCompletion(t *testing.T) {
	sources := fakeSources(1)
	release := make(chan struct{})
	sources[0].block = map[string]chan struct{}{"old": release}

	mgr := NewSessionManager(NewAggregator(asSearchables(sources), config.SearchConfig{}), config.SearchConfig{Debounce: 5 * time.Millisecond})
	defer mgr.Shutdown()
	session, err := mgr.Open(context.Background(), uuid.New())
	require.NoError(t, err)

	session.Submit("old")
	loading := nextEvent(t, session)
	assert.Equal(t, EventLoading, loading.Type)
	assert.Equal(t, "old", loading.Query)

	session.Submit("new")
	assert.Equal(t, EventLoading, nextEvent(t, session).Type)
	results := nextEvent(t, session)
	assert.Equal(t, EventResults, results.Type)
	assert.Equal(t, "new", results.Query)
	assert.Len(t, results.Results, 5)

	close(release)
	select {
	case e := <-session.Events():
		t.Fatalf("stale completion was published: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLiveSession_PublishesAggregationError(t *testing.T) {
	sources := fakeSources(1)
	sources[3].err = assert.AnError
	mgr := NewSessionManager(NewAggregator(asSearchables(sources), config.SearchConfig{}), config.SearchConfig{Debounce: 5 * time.Millisecond})
	defer mgr.Shutdown()
	session, err := mgr.Open(context.Background(), uuid.New())
	require.NoError(t, err)

	session.Submit("x")
	assert.Equal(t, EventLoading, nextEvent(t, session).Type)
	e := nextEvent(t, session)
	assert.Equal(t, EventError, e.Type)
	assert.Equal(t, shared.CodeAggregation, e.Code)
}

func TestSessionManager_OfficeIsolationAndLimit(t *testing.T) {
	mgr := NewSessionManager(NewAggregator(nil, config.SearchConfig{}), config.SearchConfig{MaxSessions: 1})
	defer mgr.Shutdown()

	office := uuid.New()
	session, err := mgr.Open(context.Background(), office)
	require.NoError(t, err)

	_, err = mgr.Open(context.Background(), office)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = mgr.Get(uuid.New(), session.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := mgr.Get(office, session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	mgr.Close(session.ID)
	assert.Zero(t, mgr.Count())
	select {
	case <-session.Done():
	default:
		t.Fatal("closed session is still running")
	}
}
