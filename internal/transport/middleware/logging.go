package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/company-management/pkg/logger"
)

// maxLoggedBody caps how much of a request body is buffered for the log.
const maxLoggedBody = 8 << 10

// LoggingMiddleware writes one access log line per request. The line carries
// the trace id, the company the request targets and whatever downstream
// handlers annotate, such as the authenticated user id. Request bodies are
// logged with credentials redacted; responses by size only.
func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			body := peekBody(r)

			ctx, fields := logger.WithRequestFields(r.Context())
			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r.WithContext(ctx))

			attrs := []any{
				"trace_id", TraceIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.size,
			}
			if companyID := targetCompany(r, body); companyID != "" {
				attrs = append(attrs, "company_id", companyID)
			}
			if len(body) > 0 && strings.Contains(r.Header.Get("Content-Type"), "json") {
				attrs = append(attrs, "body", logger.RedactJSON(body))
			}
			attrs = append(attrs, fields.Attrs()...)

			lg.Log(r.Context(), levelFor(ww.status()), "request completed", attrs...)
		})
	}
}

// peekBody reads up to maxLoggedBody bytes and restores the body for the
// handler. Oversized bodies are passed through but not logged.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	buf, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(buf), r.Body), Closer: r.Body}
	if err != nil || len(buf) > maxLoggedBody {
		return nil
	}
	return buf
}

type readCloser struct {
	io.Reader
	io.Closer
}

// targetCompany finds the tenant a request is about: the companyId query
// parameter, or the companyId field of a JSON body.
func targetCompany(r *http.Request, body []byte) string {
	if id := r.URL.Query().Get("companyId"); id != "" {
		return id
	}
	if len(body) == 0 {
		return ""
	}
	var probe struct {
		CompanyID string `json:"companyId"`
	}
	if json.Unmarshal(body, &probe) != nil {
		return ""
	}
	return probe.CompanyID
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
	size int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.code == 0 {
		w.code = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *statusWriter) status() int {
	if w.code == 0 {
		return http.StatusOK
	}
	return w.code
}
