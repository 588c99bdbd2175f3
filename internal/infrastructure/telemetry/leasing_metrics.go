package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/propdesk/backend"

// Onboarding results
const (
	OnboardingResultSuccess     = "success"
	OnboardingResultRejected    = "rejected"
	OnboardingResultFailed      = "failed"
	OnboardingResultCompensated = "compensated"
)

// LeasingMetrics holds the business instruments of the back office.
// A nil *LeasingMetrics is valid and records nothing.
type LeasingMetrics struct {
	onboardings    *Counter
	compensations  *Counter
	searchDuration *Histogram
	searchSessions *UpDownCounter
	sweepChanges   *Counter
}

// NewLeasingMetrics creates the instruments on the given meter
func NewLeasingMetrics(meter metric.Meter) (*LeasingMetrics, error) {
	onboardings, err := NewCounter(meter, "propdesk.onboarding.total",
		"Tenant onboarding attempts by result", "{onboarding}")
	if err != nil {
		return nil, err
	}
	compensations, err := NewCounter(meter, "propdesk.onboarding.compensations",
		"Compensation steps run after a failed onboarding", "{step}")
	if err != nil {
		return nil, err
	}
	searchDuration, err := NewHistogram(meter, "propdesk.search.duration",
		"Latency of a search fan-out", "s",
		0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5)
	if err != nil {
		return nil, err
	}
	searchSessions, err := NewUpDownCounter(meter, "propdesk.search.live_sessions",
		"Open live search sessions", "{session}")
	if err != nil {
		return nil, err
	}
	sweepChanges, err := NewCounter(meter, "propdesk.sweep.changes",
		"Records changed by the lease sweep", "{record}")
	if err != nil {
		return nil, err
	}

	return &LeasingMetrics{
		onboardings:    onboardings,
		compensations:  compensations,
		searchDuration: searchDuration,
		searchSessions: searchSessions,
		sweepChanges:   sweepChanges,
	}, nil
}

// NewLeasingMetricsFromProvider creates the instruments on the provider's meter
func NewLeasingMetricsFromProvider(mp *MeterProvider) (*LeasingMetrics, error) {
	return NewLeasingMetrics(mp.Meter(meterName))
}

// RecordOnboarding counts one onboarding attempt
func (m *LeasingMetrics) RecordOnboarding(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.onboardings.Inc(ctx, attribute.String("result", result))
}

// RecordCompensation counts one compensation step and whether it was applied
func (m *LeasingMetrics) RecordCompensation(ctx context.Context, step string, applied bool) {
	if m == nil {
		return
	}
	m.compensations.Inc(ctx, attribute.String("step", step), attribute.Bool("applied", applied))
}

// RecordSearch records the latency of one fan-out
func (m *LeasingMetrics) RecordSearch(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.searchDuration.RecordDuration(ctx, d, attribute.Bool("error", err != nil))
}

// SessionOpened tracks a live search session being opened (+1) or closed (-1)
func (m *LeasingMetrics) SessionOpened(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.searchSessions.Add(ctx, delta)
}

// RecordSweep counts records changed by a sweep job
func (m *LeasingMetrics) RecordSweep(ctx context.Context, job string, changed int) {
	if m == nil || changed == 0 {
		return
	}
	m.sweepChanges.counter.Add(ctx, int64(changed), metric.WithAttributes(attribute.String("job", job)))
}
