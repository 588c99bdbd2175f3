package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterDBPoolMetrics exports the connection pool statistics of db as
// observable gauges. The returned registration must be unregistered on shutdown.
func RegisterDBPoolMetrics(meter metric.Meter, db *sql.DB) (metric.Registration, error) {
	open, err := meter.Int64ObservableGauge("db.pool.open_connections",
		metric.WithDescription("Established connections, in use and idle"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge: %w", err)
	}
	inUse, err := meter.Int64ObservableGauge("db.pool.in_use",
		metric.WithDescription("Connections currently in use"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge: %w", err)
	}
	idle, err := meter.Int64ObservableGauge("db.pool.idle",
		metric.WithDescription("Idle connections"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db.pool.wait_count",
		metric.WithDescription("Total connections waited for"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections))
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(idle, int64(stats.Idle))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, inUse, idle, waits)
}
