// Package telemetry sets up OpenTelemetry tracing for the string analyzer.
//
// Init installs a global TracerProvider whose spans go to one of three
// exporters, picked by TelemetryConfig.TraceExporter:
//
//	none    no provider is installed; otel's no-op tracer is used
//	stdout  spans are pretty-printed as JSON to a writer (stdout by default)
//	otlp    spans are batched to an OTLP/gRPC collector
//
// The server's gin middleware (otelgin) and the natural-language parse span
// both use the global provider, so Init must run before the router is built.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/dreamware/stranalyzer/internal/config"
)

// TracerName is the instrumentation scope for spans started by this module.
const TracerName = "github.com/dreamware/stranalyzer"

var (
	// ErrNilContext is returned when Init is called with a nil context
	ErrNilContext = errors.New("telemetry: nil context")

	// ErrUnknownExporter is returned for an unsupported trace exporter name
	ErrUnknownExporter = errors.New("telemetry: unknown exporter type")
)

// ShutdownFunc flushes and stops the installed provider
type ShutdownFunc func(context.Context) error

// Option customizes Init
type Option func(*options)

type options struct {
	stdout  io.Writer
	version string
}

// WithWriter redirects the stdout exporter
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithVersion sets the service.version resource attribute
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// Init configures global tracing from cfg. The returned shutdown function
// must be called on exit; it is a no-op when tracing is disabled.
//
//	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
func Init(ctx context.Context, cfg config.TelemetryConfig, opts ...Option) (ShutdownFunc, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	o := options{stdout: os.Stdout, version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.TraceExporter == "" || cfg.TraceExporter == "none" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, cfg, o)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", o.version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg config.TelemetryConfig, o options) (sdktrace.SpanExporter, error) {
	switch cfg.TraceExporter {
	case "otlp":
		grpcOpts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		}
		if cfg.OTLPInsecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, grpcOpts...)

	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(o.stdout), stdouttrace.WithPrettyPrint())

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}
}

// Tracer returns the module's tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
