// Package metrics provides OpenTelemetry metrics instrumentation with Prometheus export.
// Covers domain operation metrics recorded by the use case decorators and
// HTTP request metrics recorded by router middleware.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider owns the OpenTelemetry meter provider and its Prometheus exporter.
// Instruments created through MeterProvider land in a private registry served
// by Handler, so application metrics never mix with the default global
// registry.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
}

// NewProvider creates a metrics provider backed by a fresh Prometheus
// registry. Metric names carry the configured namespace prefix at instrument
// creation, not here.
func NewProvider() (*Provider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
	}, nil
}

// Handler returns the scrape handler for the provider's registry, mounted at
// /metrics on the metrics server.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the meter provider instruments are created from.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes pending metrics and releases the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
