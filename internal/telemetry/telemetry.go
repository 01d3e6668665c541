// Package telemetry wires OpenTelemetry tracing for the agent's event
// pipeline.
package telemetry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName = "issueagent"
	tracerName  = "github.com/issueagent/issueagent"
)

// Config holds the configuration for telemetry.
type Config struct {
	Enabled      bool
	OTLPEndpoint string
}

// Provider manages the tracer used across one agent run. Each run gets a
// unique run ID attached to every span so traces from concurrent workflow runs
// can be told apart.
type Provider struct {
	tp     *sdktrace.TracerProvider // nil when disabled
	tracer trace.Tracer
	runID  string
}

// NewProvider creates a telemetry provider. When disabled it hands out no-op
// tracers and Shutdown is free.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	runID := uuid.New().String()

	if !cfg.Enabled {
		return &Provider{
			tracer: noop.NewTracerProvider().Tracer(tracerName),
			runID:  runID,
		}, nil
	}

	var clientOpts []otlptracehttp.Option
	if cfg.OTLPEndpoint != "" {
		clientOpts = append(clientOpts, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(clientOpts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := sdkresource.New(ctx,
		sdkresource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return &Provider{
		tp:     tp,
		tracer: tp.Tracer(tracerName),
		runID:  runID,
	}, nil
}

// RunID returns the identifier attached to every span of this run.
func (p *Provider) RunID() string {
	return p.runID
}

// StartSpan starts a pipeline-stage span carrying the run ID.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("run.id", p.runID))
	return p.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Shutdown flushes pending spans. Safe to call on a disabled provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}
