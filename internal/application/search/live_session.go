package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/search"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Live session event types
const (
	EventLoading = "loading"
	EventResults = "results"
	EventError   = "error"
)

const sessionEventBuffer = 16

// Event is pushed to a live session's subscriber
type Event struct {
	Type    string          `json:"type"`
	Seq     uint64          `json:"seq"`
	Query   string          `json:"query"`
	Results []search.Result `json:"results,omitempty"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
}

// LiveSession is the search state of one connected client. Submitted queries
// are debounced; only the newest fan-out may publish its outcome.
type LiveSession struct {
	ID       string
	OfficeID uuid.UUID

	agg       *Aggregator
	debouncer *Debouncer
	guard     SequenceGuard
	events    chan Event
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newLiveSession(parent context.Context, officeID uuid.UUID, agg *Aggregator, window time.Duration) *LiveSession {
	ctx, cancel := context.WithCancel(parent)
	return &LiveSession{
		ID:        uuid.NewString(),
		OfficeID:  officeID,
		agg:       agg,
		debouncer: NewDebouncer(window),
		events:    make(chan Event, sessionEventBuffer),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Events returns the stream of session events
func (s *LiveSession) Events() <-chan Event { return s.events }

// Done is closed when the session ends
func (s *LiveSession) Done() <-chan struct{} { return s.ctx.Done() }

// Submit records the latest query. The fan-out starts once the client has
// been quiet for the debounce window.
func (s *LiveSession) Submit(query string) {
	s.debouncer.Call(func() { s.run(query) })
}

func (s *LiveSession) run(query string) {
	seq := s.guard.Next()
	s.emit(Event{Type: EventLoading, Seq: seq, Query: query})

	resp, err := s.agg.Search(s.ctx, s.OfficeID, query)
	if !s.guard.Complete(seq) {
		logger.L(s.ctx).Debug("Dropping stale search completion",
			zap.String("session_id", s.ID),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.guard.Latest()),
		)
		return
	}
	if err != nil {
		code := shared.CodeOf(err)
		if code == "" {
			code = shared.CodeAggregation
		}
		s.emit(Event{Type: EventError, Seq: seq, Query: query, Code: code, Message: err.Error()})
		return
	}
	s.emit(Event{Type: EventResults, Seq: seq, Query: query, Results: resp.Results})
}

func (s *LiveSession) emit(e Event) {
	select {
	case s.events <- e:
	case <-s.ctx.Done():
	}
}

// Close ends the session and drops any waiting query
func (s *LiveSession) Close() {
	s.closeOnce.Do(func() {
		s.debouncer.Stop()
		s.cancel()
	})
}

// SessionManager keeps the live sessions of connected clients
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*LiveSession
	agg      *Aggregator
	cfg      config.SearchConfig
	metrics  *telemetry.LeasingMetrics
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSessionManager creates a SessionManager backed by agg
func NewSessionManager(agg *Aggregator, cfg config.SearchConfig) *SessionManager {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionManager{
		sessions: make(map[string]*LiveSession),
		agg:      agg,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetMetrics sets the metrics recorder
func (m *SessionManager) SetMetrics(metrics *telemetry.LeasingMetrics) {
	m.metrics = metrics
}

// Open starts a session for the office. It fails when the session limit is reached.
func (m *SessionManager) Open(ctx context.Context, officeID uuid.UUID) (*LiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return nil, shared.NewInvalidStateError("too many live search sessions")
	}
	// detached from the request so a session outlives the call that opened it,
	// but carrying its logger fields
	base := logger.WithContext(m.ctx, logger.L(ctx))
	session := newLiveSession(base, officeID, m.agg, m.cfg.Debounce)
	m.sessions[session.ID] = session
	m.metrics.SessionOpened(ctx, 1)
	return session, nil
}

// Get returns a session of the office
func (m *SessionManager) Get(officeID uuid.UUID, id string) (*LiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok || session.OfficeID != officeID {
		return nil, shared.NewNotFoundError("search session")
	}
	return session, nil
}

// Close ends and forgets a session
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		session.Close()
		m.metrics.SessionOpened(context.Background(), -1)
	}
}

// Count returns the number of open sessions
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown ends every session
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*LiveSession)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
	m.cancel()
}
