// Package observe provides observability primitives for outbound API calls.
//
// It is a pure instrumentation library: no transport and no I/O beyond
// exporter setup. The request pipeline wraps each call with a Middleware that
// opens a client span, records request metrics and emits one structured log
// event. The JSON Logger masks every field whose key matches the redaction
// denylist, including keys nested inside maps, headers and query values.
package observe
