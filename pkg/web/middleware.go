package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID tags each request with a trace id, reusing the caller's when
// present, and stores a request-scoped logger in the context.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		if zl, ok := h.logger.(*loggerpkg.ZeroLogger); ok {
			r = r.WithContext(zl.With("trace_id", traceID).WithContext(r.Context()))
		}

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		loggerpkg.Info(loggerpkg.FromContext(r.Context()), "http request", map[string]any{
			"uri":         r.RequestURI,
			"method":      r.Method,
			"status":      lw.statusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
			"size":        lw.size,
		})
	})
}

// responseWriter records the status and body size of a response.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	size        int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *responseWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
