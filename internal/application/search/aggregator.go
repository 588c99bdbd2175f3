// Package search runs the global type-ahead: a fan-out over every searchable
// kind, debounced per client and guarded against stale completions.
package search

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/search"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultPerKindLimit is the number of rows requested from each kind
const DefaultPerKindLimit = 5

// Response is the merged result of one completed fan-out. Live sessions
// report the in-flight state with a separate loading event.
type Response struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Seq     uint64          `json:"seq"`
}

// Aggregator queries every source concurrently and merges the results
type Aggregator struct {
	sources  []search.Searchable
	perKind  int
	timeout  time.Duration
	ranking  search.Ranking
	metrics  *telemetry.LeasingMetrics
	sequence atomic.Uint64
}

// NewAggregator creates an Aggregator over the given sources
func NewAggregator(sources []search.Searchable, cfg config.SearchConfig) *Aggregator {
	perKind := cfg.PerKindLimit
	if perKind <= 0 {
		perKind = DefaultPerKindLimit
	}
	return &Aggregator{
		sources: sources,
		perKind: perKind,
		timeout: cfg.Timeout,
		ranking: search.KindThenStoreOrder,
	}
}

// SetMetrics sets the metrics recorder
func (a *Aggregator) SetMetrics(m *telemetry.LeasingMetrics) {
	a.metrics = m
}

// MaxResults is the largest number of results a single search can return
func (a *Aggregator) MaxResults() int {
	return a.perKind * len(a.sources)
}

// Search runs one fan-out for the office. A blank query returns an empty
// result without calling any source. Any failing source fails the whole
// search with AGGREGATION_FAILED.
func (a *Aggregator) Search(ctx context.Context, officeID uuid.UUID, query string) (resp *Response, err error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &Response{Query: query, Results: []search.Result{}}, nil
	}

	seq := a.sequence.Add(1)
	ctx, span := telemetry.StartSpan(ctx, "search", "aggregate",
		telemetry.OfficeAttr(officeID),
		attribute.Int64("search.seq", int64(seq)),
	)
	start := time.Now()
	defer func() {
		a.metrics.RecordSearch(ctx, time.Since(start), err)
		telemetry.EndSpan(span, err)
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	perSource := make([][]search.Result, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			rows, err := src.Match(gctx, officeID, trimmed, a.perKind)
			if err != nil {
				return shared.NewAggregationError("search failed for "+src.Kind().Label()+"s", err)
			}
			if len(rows) > a.perKind {
				rows = rows[:a.perKind]
			}
			for pos := range rows {
				rows[pos].Kind = src.Kind()
				rows[pos].Position = pos
			}
			perSource[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.L(ctx).Warn("Search aggregation failed", zap.Uint64("seq", seq), zap.Error(err))
		return nil, err
	}

	merged := make([]search.Result, 0, a.MaxResults())
	for _, rows := range perSource {
		merged = append(merged, rows...)
	}
	search.Rank(merged, a.ranking)
	if len(merged) > a.MaxResults() {
		merged = merged[:a.MaxResults()]
	}

	return &Response{Query: query, Results: merged, Seq: seq}, nil
}
