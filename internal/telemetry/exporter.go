package telemetry

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "siteoptz"
	serviceVersion = "1.0.0"
)

// Exporter records metrics through an OpenTelemetry meter provider.
type Exporter struct {
	provider        *sdkmetric.MeterProvider
	leadsTotal      metric.Int64Counter
	projections     metric.Int64Counter
	projectionTotal metric.Float64Histogram
	selectedTools   metric.Int64Histogram
	checkouts       metric.Int64Counter
}

// New returns an OTLP exporter when cfg enables one, and a NoOp otherwise.
// Exporter setup failures degrade to NoOp.
func New(ctx context.Context, cfg Config) Recorder {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NewNoOp()
	}
	exp, err := NewExporter(ctx, cfg)
	if err != nil {
		log.Printf("warning: metrics disabled: %v", err)
		return NewNoOp()
	}
	return exp
}

// NewExporter creates an exporter that pushes to an OTLP gRPC collector.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	leadsTotal, err := meter.Int64Counter(
		"siteoptz_leads_total",
		metric.WithDescription("Captured leads by form"),
		metric.WithUnit("{lead}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating leads counter: %w", err)
	}

	projections, err := meter.Int64Counter(
		"siteoptz_projections_total",
		metric.WithDescription("Cost projections computed"),
		metric.WithUnit("{projection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating projections counter: %w", err)
	}

	projectionTotal, err := meter.Float64Histogram(
		"siteoptz_projection_total_usd",
		metric.WithDescription("Projected total cost"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating projection histogram: %w", err)
	}

	selectedTools, err := meter.Int64Histogram(
		"siteoptz_projection_tools",
		metric.WithDescription("Tools per projection"),
		metric.WithUnit("{tool}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tools histogram: %w", err)
	}

	checkouts, err := meter.Int64Counter(
		"siteoptz_checkouts_total",
		metric.WithDescription("Checkout redirects issued"),
		metric.WithUnit("{checkout}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating checkouts counter: %w", err)
	}

	return &Exporter{
		provider:        provider,
		leadsTotal:      leadsTotal,
		projections:     projections,
		projectionTotal: projectionTotal,
		selectedTools:   selectedTools,
		checkouts:       checkouts,
	}, nil
}

func (e *Exporter) LeadCaptured(ctx context.Context, kind, source string) {
	e.leadsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("source", source),
	))
}

func (e *Exporter) ProjectionComputed(ctx context.Context, tools int, cycle string, total float64) {
	opt := metric.WithAttributes(attribute.String("billing_cycle", cycle))
	e.projections.Add(ctx, 1, opt)
	e.projectionTotal.Record(ctx, total, opt)
	e.selectedTools.Record(ctx, int64(tools), opt)
}

func (e *Exporter) CheckoutStarted(ctx context.Context, plan, cycle string) {
	e.checkouts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("plan", plan),
		attribute.String("billing_cycle", cycle),
	))
}

// Close flushes pending metrics and shuts the provider down.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
