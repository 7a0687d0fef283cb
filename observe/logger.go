package observe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// Redacted replaces the value of every denylisted field.
const Redacted = "[REDACTED]"

// maxRedactDepth bounds the recursion into nested log values.
const maxRedactDepth = 16

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// LoggerOption configures a structured logger.
type LoggerOption func(*structuredLogger)

// WithRedactedFields replaces the redaction denylist.
func WithRedactedFields(keys ...string) LoggerOption {
	return func(l *structuredLogger) {
		l.redact = newRedactor(keys)
	}
}

// structuredLogger is a JSON structured logger implementation.
type structuredLogger struct {
	level     LogLevel
	writer    io.Writer
	mu        *sync.Mutex
	redact    redactor
	baseAttrs map[string]any
}

// NewLogger creates a new structured logger writing to stderr.
func NewLogger(level string, opts ...LoggerOption) Logger {
	return NewLoggerWithWriter(level, os.Stderr, opts...)
}

// NewLoggerWithWriter creates a new structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer, opts ...LoggerOption) Logger {
	l := &structuredLogger{
		level:     ParseLogLevel(level),
		writer:    w,
		mu:        &sync.Mutex{},
		redact:    newRedactor(DefaultRedactedFields),
		baseAttrs: make(map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithCall returns a logger with request context attached.
func (l *structuredLogger) WithCall(meta CallMeta) Logger {
	attrs := make(map[string]any, len(l.baseAttrs)+4)
	for k, v := range l.baseAttrs {
		attrs[k] = v
	}

	attrs["api"] = meta.API
	attrs["method"] = meta.Method
	attrs["path"] = meta.Path
	if meta.RequestID != "" {
		attrs["request_id"] = meta.RequestID
	}

	return &structuredLogger{
		level:     l.level,
		writer:    l.writer,
		mu:        l.mu,
		redact:    l.redact,
		baseAttrs: attrs,
	}
}

func (l *structuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelInfo, msg, fields)
}

func (l *structuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelWarn, msg, fields)
}

func (l *structuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelError, msg, fields)
}

func (l *structuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *structuredLogger) log(_ context.Context, level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.baseAttrs)+len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	for k, v := range l.baseAttrs {
		entry[k] = v
	}

	for _, f := range fields {
		if l.redact.match(f.Key) {
			entry[f.Key] = Redacted
		} else {
			entry[f.Key] = l.redact.value(f.Value, 0)
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return // Silently drop malformed log entries
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(data)
}

// redactor masks values whose key contains a denylisted substring.
type redactor struct {
	keys []string
}

func newRedactor(keys []string) redactor {
	lower := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lower = append(lower, k)
		}
	}
	return redactor{keys: lower}
}

func (r redactor) match(key string) bool {
	k := strings.ToLower(key)
	for _, deny := range r.keys {
		if strings.Contains(k, deny) {
			return true
		}
	}
	return false
}

// value returns a copy of v with denylisted keys masked at every level.
func (r redactor) value(v any, depth int) any {
	if depth >= maxRedactDepth {
		return "[TRUNCATED]"
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			if r.match(k) {
				out[k] = Redacted
			} else {
				out[k] = r.value(x, depth+1)
			}
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, x := range t {
			if r.match(k) {
				out[k] = Redacted
			} else {
				out[k] = x
			}
		}
		return out
	case http.Header:
		return r.multi(t)
	case url.Values:
		return r.multi(t)
	case map[string][]string:
		return r.multi(t)
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = r.value(x, depth+1)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = r.value(x, depth+1)
		}
		return out
	default:
		return v
	}
}

func (r redactor) multi(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, vs := range m {
		if r.match(k) {
			out[k] = []string{Redacted}
		} else {
			out[k] = append([]string(nil), vs...)
		}
	}
	return out
}

// Ensure structuredLogger implements Logger
var _ Logger = (*structuredLogger)(nil)
