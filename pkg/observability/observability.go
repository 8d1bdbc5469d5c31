package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// SetupTracing initializes OpenTelemetry tracing with a stdout exporter
// (replace with OTLP in production). Returns a shutdown func.
func SetupTracing(serviceName string) (func(), error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	provider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return func() { _ = provider.Shutdown(context.Background()) }, nil
}

// Metrics holds the chat workflow counters
type Metrics struct {
	provider *sdkmetric.MeterProvider

	ChatQueries      otelmetric.Int64Counter
	Escalations      otelmetric.Int64Counter
	UpstreamFailures otelmetric.Int64Counter
	AdminAnswers     otelmetric.Int64Counter
	CacheHits        otelmetric.Int64Counter
}

// SetupMetrics initializes an OpenTelemetry meter backed by the Prometheus
// exporter and registers the chat workflow counters
func SetupMetrics() (*Metrics, error) {
	exp, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(provider)

	meter := provider.Meter("kamgar-sahayak/backend")

	m := &Metrics{provider: provider}

	if m.ChatQueries, err = meter.Int64Counter("chat_queries_total",
		otelmetric.WithDescription("Chat queries processed, by resulting status")); err != nil {
		return nil, err
	}
	if m.Escalations, err = meter.Int64Counter("chat_escalations_total",
		otelmetric.WithDescription("Queries escalated to the admin review queue")); err != nil {
		return nil, err
	}
	if m.UpstreamFailures, err = meter.Int64Counter("nlp_upstream_failures_total",
		otelmetric.WithDescription("Failed calls to the NLP collaborator")); err != nil {
		return nil, err
	}
	if m.AdminAnswers, err = meter.Int64Counter("admin_answers_total",
		otelmetric.WithDescription("Escalated queries answered by an administrator")); err != nil {
		return nil, err
	}
	if m.CacheHits, err = meter.Int64Counter("answer_cache_hits_total",
		otelmetric.WithDescription("Chat queries served from previously approved answers")); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordChatQuery counts one processed chat query with its final status
func (m *Metrics) RecordChatQuery(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.ChatQueries.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("status", status)))
}

// RecordEscalation counts one escalated query
func (m *Metrics) RecordEscalation(ctx context.Context) {
	if m == nil {
		return
	}
	m.Escalations.Add(ctx, 1)
}

// RecordUpstreamFailure counts one failed collaborator call
func (m *Metrics) RecordUpstreamFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.UpstreamFailures.Add(ctx, 1)
}

// RecordAdminAnswer counts one human-supplied answer
func (m *Metrics) RecordAdminAnswer(ctx context.Context) {
	if m == nil {
		return
	}
	m.AdminAnswers.Add(ctx, 1)
}

// RecordCacheHit counts one answer served from the reuse cache
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.CacheHits.Add(ctx, 1)
}

// Shutdown flushes the meter provider
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
