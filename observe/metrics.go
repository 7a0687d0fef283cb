package observe

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records client-side request and token metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one outbound call with its status and duration.
	RecordRequest(ctx context.Context, meta CallMeta, status int, duration time.Duration, err error)

	// RecordTokenRefresh records one call to the token authority.
	RecordTokenRefresh(ctx context.Context, duration time.Duration, err error)
}

type metricsImpl struct {
	requests     metric.Int64Counter
	errors       metric.Int64Counter
	duration     metric.Float64Histogram
	refreshes    metric.Int64Counter
	refreshFails metric.Int64Counter
}

// NewMetrics creates Metrics instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	requests, err := meter.Int64Counter(
		"kore.client.requests",
		metric.WithDescription("Total number of outbound API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"kore.client.errors",
		metric.WithDescription("Total number of failed outbound API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"kore.client.duration_ms",
		metric.WithDescription("Outbound API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	refreshes, err := meter.Int64Counter(
		"kore.token.refreshes",
		metric.WithDescription("Total number of token authority calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	refreshFails, err := meter.Int64Counter(
		"kore.token.refresh_errors",
		metric.WithDescription("Total number of failed token authority calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		requests:     requests,
		errors:       errs,
		duration:     duration,
		refreshes:    refreshes,
		refreshFails: refreshFails,
	}, nil
}

func (m *metricsImpl) RecordRequest(ctx context.Context, meta CallMeta, status int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("kore.api", meta.API),
		attribute.String("http.request.method", meta.Method),
		attribute.String("http.response.status_class", statusClass(status)),
	}
	opt := metric.WithAttributes(attrs...)

	m.requests.Add(ctx, 1, opt)
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
	m.duration.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordTokenRefresh(ctx context.Context, _ time.Duration, err error) {
	m.refreshes.Add(ctx, 1)
	if err != nil {
		m.refreshFails.Add(ctx, 1)
	}
}

// statusClass buckets a status code as "2xx", "4xx", ... or "none".
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}

// NopMetrics returns a Metrics implementation that does nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) RecordRequest(context.Context, CallMeta, int, time.Duration, error) {}
func (noopMetrics) RecordTokenRefresh(context.Context, time.Duration, error)          {}
