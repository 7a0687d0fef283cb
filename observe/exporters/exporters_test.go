package exporters

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func noEnv(string) string { return "" }

func TestTracingExporter_UnknownName(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "jaeger")
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("error = %v, want ErrUnknownExporter", err)
	}
}

func TestMetricsReader_UnknownName(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "statsd")
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("error = %v, want ErrUnknownExporter", err)
	}
}

func TestTracingExporter_Stdout(t *testing.T) {
	var buf bytes.Buffer
	exp, err := NewTracingExporter(context.Background(), "stdout", WithWriter(&buf))
	if err != nil {
		t.Fatalf("NewTracingExporter() error = %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

func TestMetricsReader_StdoutAndPrometheus(t *testing.T) {
	for _, name := range []string{"stdout", "prometheus", "none", ""} {
		t.Run(name, func(t *testing.T) {
			reader, err := NewMetricsReader(context.Background(), name, WithWriter(&bytes.Buffer{}))
			if err != nil {
				t.Fatalf("NewMetricsReader(%q) error = %v", name, err)
			}
			if reader == nil {
				t.Fatal("expected non-nil reader")
			}
		})
	}
}

func TestOTLP_MissingEndpoint(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "otlp", WithGetenv(noEnv))
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("traces error = %v, want ErrEndpointNotConfigured", err)
	}

	_, err = NewMetricsReader(context.Background(), "otlp", WithGetenv(noEnv))
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("metrics error = %v, want ErrEndpointNotConfigured", err)
	}
}

func TestOTLP_SignalSpecificEndpoint(t *testing.T) {
	env := func(k string) string {
		if k == "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" {
			return "localhost:4317"
		}
		return ""
	}

	exp, err := NewTracingExporter(context.Background(), "otlp", WithGetenv(env))
	if err != nil {
		t.Fatalf("NewTracingExporter() error = %v", err)
	}
	defer func() { _ = exp.Shutdown(context.Background()) }()

	_, err = NewMetricsReader(context.Background(), "otlp", WithGetenv(env))
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("metrics error = %v, want ErrEndpointNotConfigured", err)
	}
}
