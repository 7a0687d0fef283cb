package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestCallMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta CallMeta
		want string
	}{
		{CallMeta{API: "wireless", Method: "GET"}, "kore.wireless GET"},
		{CallMeta{API: "auth"}, "kore.auth"},
	}
	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	meta := CallMeta{API: "supersim", Method: "POST", Path: "/v1/Fleets", RequestID: "r-42"}
	_, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, 201, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "kore.supersim POST" {
		t.Errorf("Name() = %q", s.Name())
	}
	if s.SpanKind() != trace.SpanKindClient {
		t.Errorf("SpanKind() = %v, want client", s.SpanKind())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("Status = %v, want Ok", s.Status().Code)
	}

	attrs := attrMap(s.Attributes())
	if attrs["kore.api"].AsString() != "supersim" {
		t.Errorf("kore.api = %v", attrs["kore.api"])
	}
	if attrs["url.path"].AsString() != "/v1/Fleets" {
		t.Errorf("url.path = %v", attrs["url.path"])
	}
	if attrs["kore.request_id"].AsString() != "r-42" {
		t.Errorf("kore.request_id = %v", attrs["kore.request_id"])
	}
	if attrs["http.response.status_code"].AsInt64() != 201 {
		t.Errorf("status_code = %v", attrs["http.response.status_code"])
	}
}

func TestTracer_EndSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	_, span := tr.StartSpan(context.Background(), CallMeta{API: "wireless", Method: "GET"})
	tr.EndSpan(span, 0, errors.New("dial tcp: connection refused"))

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("Status = %v, want Error", s.Status().Code)
	}
	if len(s.Events()) == 0 {
		t.Error("expected an exception event")
	}
	if _, ok := attrMap(s.Attributes())["http.response.status_code"]; ok {
		t.Error("status_code must be absent when no response was received")
	}
}

func TestNoopTracer(t *testing.T) {
	tr := newNoopTracer()
	ctx, span := tr.StartSpan(context.Background(), CallMeta{API: "x"})
	if ctx == nil || span == nil {
		t.Fatal("noop tracer returned nil")
	}
	tr.EndSpan(span, 200, nil)
}
