package telemetry

import (
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wricardo/connect-four/game/engine"
)

func TestEnabled(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	if Enabled() {
		t.Error("Expected telemetry to be disabled without an endpoint")
	}

	t.Setenv(EndpointEnv, "http://localhost:4318")
	if !Enabled() {
		t.Error("Expected telemetry to be enabled with an endpoint")
	}
}

func TestNoopTracer(t *testing.T) {
	_, span := NoopTracer().Start(context.Background(), "test")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("Expected no-op span to have an invalid span context")
	}
}

func TestTracer(t *testing.T) {
	if Tracer("service") == nil {
		t.Error("Expected a tracer")
	}
}

func TestGameAttributes(t *testing.T) {
	attrs := GameAttributes(1, engine.Markers{First: "X", Second: "Y", Empty: "O"})

	got := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		got[kv.Key] = kv.Value
	}

	ints := map[attribute.Key]int64{
		"game.board.columns": 7,
		"game.board.rows":    6,
		"game.connect":       4,
		"game.column_base":   1,
	}
	for key, want := range ints {
		if v, ok := got[key]; !ok || v.AsInt64() != want {
			t.Errorf("Expected %s=%d, got %v", key, want, v.Emit())
		}
	}

	markers := got["game.markers"].AsStringSlice()
	if len(markers) != 3 || markers[0] != "X" || markers[1] != "Y" || markers[2] != "O" {
		t.Errorf("Expected markers [X Y O], got %v", markers)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), "1.2.3", GameAttributes(0, engine.DefaultMarkers))
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}

	want := map[attribute.Key]string{
		"service.name":    "connect-four",
		"service.version": "1.2.3",
	}
	found := 0
	for _, kv := range res.Attributes() {
		if v, ok := want[kv.Key]; ok {
			if kv.Value.AsString() != v {
				t.Errorf("Expected %s=%s, got %s", kv.Key, v, kv.Value.AsString())
			}
			found++
		}
		if kv.Key == "game.board.columns" {
			found++
		}
	}
	if found != 3 {
		t.Errorf("Expected service and game attributes on the resource, got %v", res.Attributes())
	}
}

func TestSamplerFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "unset", value: "", want: "ParentBased{root:AlwaysOnSampler"},
		{name: "half", value: "0.5", want: "TraceIDRatioBased{0.5}"},
		{name: "none", value: "0", want: "TraceIDRatioBased{0}"},
		{name: "not a number", value: "lots", wantErr: true},
		{name: "above one", value: "1.5", wantErr: true},
		{name: "negative", value: "-0.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(SampleRatioEnv, tt.value)

			sampler, err := samplerFromEnv()
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), SampleRatioEnv) {
					t.Fatalf("Expected an error naming %s, got %v", SampleRatioEnv, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(sampler.Description(), tt.want) {
				t.Errorf("Expected sampler %q to contain %q", sampler.Description(), tt.want)
			}
		})
	}
}

func TestSetupRejectsBadRatio(t *testing.T) {
	t.Setenv(SampleRatioEnv, "2")
	if _, err := Setup(context.Background(), "test"); err == nil {
		t.Error("Expected Setup to fail with an out of range sample ratio")
	}
}
