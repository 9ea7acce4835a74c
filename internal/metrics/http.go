package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// passthroughMiddleware is installed when instrument creation fails, so a
// broken metrics backend never blocks request handling.
func passthroughMiddleware(c *gin.Context) {
	c.Next()
}

// HTTPMetricsMiddleware returns a Gin middleware recording a request counter
// and a latency histogram, labeled with method, route pattern, and status
// code. Labeling with the route pattern (/api/runs/:id) instead of the raw
// URL keeps label cardinality bounded.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requests, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passthroughMiddleware
	}

	latency, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passthroughMiddleware
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", routePattern(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)

		requests.Add(c.Request.Context(), 1, attrs)
		latency.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}

// routePattern returns the matched route pattern, or "unknown" for requests
// that never matched a route.
func routePattern(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
