// Package telemetry provides OpenTelemetry tracing for game operations.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/wricardo/connect-four/game/engine"
)

const (
	serviceName = "connect-four"

	// EndpointEnv must be set for Setup to export anything
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

	// SampleRatioEnv holds the fraction of games traced, from 0 to 1.
	// Unset means every game.
	SampleRatioEnv = "CONNECT4_TRACE_RATIO"
)

// Enabled reports whether an OTLP endpoint is configured in the environment
func Enabled() bool {
	return os.Getenv(EndpointEnv) != ""
}

// GameAttributes describes the board and the settings a process plays with.
// They are attached to the resource so every span carries them.
func GameAttributes(columnBase int, markers engine.Markers) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("game.board.columns", engine.Columns),
		attribute.Int("game.board.rows", engine.Rows),
		attribute.Int("game.connect", engine.ToWin),
		attribute.Int("game.column_base", columnBase),
		attribute.StringSlice("game.markers", []string{markers.First, markers.Second, markers.Empty}),
	}
}

// Setup initializes OpenTelemetry with an OTLP HTTP exporter.
// It reads configuration from the standard OTEL_* environment variables:
//   - OTEL_EXPORTER_OTLP_ENDPOINT: collector endpoint
//   - OTEL_EXPORTER_OTLP_HEADERS: extra headers such as API keys
//
// CONNECT4_TRACE_RATIO picks which share of games is traced. Spans inside a
// sampled game follow their parent so a game is traced whole or not at all.
//
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, version string, attrs ...attribute.KeyValue) (shutdown func(context.Context) error, err error) {
	sampler, err := samplerFromEnv()
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, version, attrs)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func newResource(ctx context.Context, version string, attrs []attribute.KeyValue) (*resource.Resource, error) {
	base := []attribute.KeyValue{
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
		attribute.String("host.name", getHostname()),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.version", runtime.Version()),
	}
	return resource.New(ctx, resource.WithAttributes(append(base, attrs...)...))
}

func samplerFromEnv() (sdktrace.Sampler, error) {
	raw := os.Getenv(SampleRatioEnv)
	if raw == "" {
		return sdktrace.ParentBased(sdktrace.AlwaysSample()), nil
	}

	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("%s must be a number between 0 and 1, got %q", SampleRatioEnv, raw)
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
}

// Tracer returns a named tracer for the given component. Until Setup runs the
// global provider is a no-op, so spans cost nothing.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// NoopTracer returns a no-op tracer for use when telemetry is disabled.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
