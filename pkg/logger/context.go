package logger

import (
	"context"
	"log/slog"
	"sync"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestFieldsKey
)

// With returns a context whose logger carries the extra fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerKey, From(ctx).With(fields...))
}

// From returns the logger stored in ctx, or the process logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}

// RequestFields gathers attributes learned while a request is served, such as
// the authenticated actor, for the access log line written when it completes.
type RequestFields struct {
	mu    sync.Mutex
	attrs []any
}

func (f *RequestFields) Attrs() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.attrs...)
}

// WithRequestFields starts collecting request attributes on ctx.
func WithRequestFields(ctx context.Context) (context.Context, *RequestFields) {
	f := &RequestFields{}
	return context.WithValue(ctx, requestFieldsKey, f), f
}

// Annotate adds fields to the context logger and, inside a request started
// with WithRequestFields, to that request's access log line.
func Annotate(ctx context.Context, fields ...any) context.Context {
	if f, ok := ctx.Value(requestFieldsKey).(*RequestFields); ok {
		f.mu.Lock()
		f.attrs = append(f.attrs, fields...)
		f.mu.Unlock()
	}
	return With(ctx, fields...)
}
