package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records outcome counters and latency histograms for domain
// operations below the HTTP layer: action runs, run lookups, and credential
// lifecycle calls. Request-level metrics live in the HTTP middleware; this
// interface is wired into the use case decorators.
type BusinessMetrics interface {
	// RecordOperation counts one finished operation. The domain label names
	// the owning module ("actions", "credentials"), operation the entry point
	// ("run_execute", "credential_save"), status the outcome ("success",
	// "error").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration adds one observation to the operation latency histogram,
	// in seconds, labeled the same way as RecordOperation.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// businessMetrics implements BusinessMetrics on OpenTelemetry instruments.
type businessMetrics struct {
	operations metric.Int64Counter
	latency    metric.Float64Histogram
}

// NewBusinessMetrics builds the operation instruments under the given
// namespace prefix (for example "action_server" yields
// action_server_operations_total).
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Completed domain operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Domain operation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{
		operations: operations,
		latency:    latency,
	}, nil
}

// operationAttributes builds the shared label set for both instruments.
func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

// RecordOperation increments the operation counter.
func (m *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

// RecordDuration records one latency observation in seconds.
func (m *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.latency.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

// noopBusinessMetrics satisfies BusinessMetrics without recording anything.
// The container hands it to the decorators when metrics are disabled, so the
// use case wiring never branches on configuration.
type noopBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a BusinessMetrics that discards every record.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &noopBusinessMetrics{}
}

func (n *noopBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
}

func (n *noopBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}
