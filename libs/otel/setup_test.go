package otelx

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	prev := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = prev })
}

func TestConfigFromEnvDefaults(t *testing.T) {
	withEnv(t, map[string]string{})
	cfg := ConfigFromEnv("booking-service")
	if cfg.Enabled {
		t.Fatalf("tracing should be disabled by default")
	}
	if cfg.OTLPEndpoint != "localhost:4317" {
		t.Fatalf("unexpected endpoint %q", cfg.OTLPEndpoint)
	}
	if cfg.SampleRatio != 1 {
		t.Fatalf("expected sample ratio 1, got %v", cfg.SampleRatio)
	}
	if cfg.Version != "dev" || cfg.Environment != "local" {
		t.Fatalf("unexpected version/env %q/%q", cfg.Version, cfg.Environment)
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(Config{ServiceName: "booking-service", Version: "1.2.3"})
	if len(attrs) != 2 {
		t.Fatalf("expected name and version attributes, got %v", attrs)
	}
	if attrs[0].Value.AsString() != "booking-service" || attrs[1].Value.AsString() != "1.2.3" {
		t.Fatalf("unexpected attributes %v", attrs)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	withEnv(t, map[string]string{
		"OTEL_ENABLED":                "TRUE",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4317",
		"OTEL_SAMPLING_RATIO":         "2.5",
	})
	cfg := ConfigFromEnv("booking-service")
	if !cfg.Enabled || cfg.OTLPEndpoint != "collector:4317" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SampleRatio != 1 {
		t.Fatalf("out of range ratio should be ignored, got %v", cfg.SampleRatio)
	}
}

func TestSetupDisabledInstallsPropagator(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, f := range fields {
		if f == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected traceparent propagator, got fields %v", fields)
	}
}
