package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMiddleware_Wrap(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	metrics, err := NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	mw := NewMiddleware(NewTracer(tp.Tracer("test")), metrics, NewLoggerWithWriter("info", &buf))

	meta := CallMeta{API: "wireless", Method: "GET", Path: "/v1/Sims"}
	called := false
	status, err := mw.Wrap(func(ctx context.Context, m CallMeta) (int, error) {
		called = true
		if m != meta {
			t.Errorf("meta = %+v, want %+v", m, meta)
		}
		return 200, nil
	})(context.Background(), meta)

	if err != nil || status != 200 || !called {
		t.Fatalf("Wrap() = (%d, %v), called=%v", status, err, called)
	}
	if len(recorder.Ended()) != 1 {
		t.Errorf("spans = %d, want 1", len(recorder.Ended()))
	}
	if got := sumValue(t, collect(t, reader), "kore.client.requests"); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output: %v", err)
	}
	if entry["msg"] != "request completed" || entry["path"] != "/v1/Sims" {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestMiddleware_PropagatesErrorUnchanged(t *testing.T) {
	var buf bytes.Buffer
	mw := NewMiddleware(nil, nil, NewLoggerWithWriter("info", &buf))

	want := errors.New("boom")
	status, err := mw.Wrap(func(context.Context, CallMeta) (int, error) {
		return 503, want
	})(context.Background(), CallMeta{API: "webhook"})

	if err != want {
		t.Errorf("err = %v, want identical error", err)
	}
	if status != 503 {
		t.Errorf("status = %d, want 503", status)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output: %v", err)
	}
	if entry["level"] != "warn" || entry["error"] != "boom" {
		t.Errorf("unexpected log entry %v", entry)
	}
}
