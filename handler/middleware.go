package handler

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sales-management/apperr"
	"sales-management/logging"
)

const HeaderRequestID = "X-Request-ID"

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestID propagates X-Request-ID or generates one, and stores it in the
// request context for logging and error responses.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

// Recovery turns a panic into a 500 error envelope.
func (h *Handler) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Panic(r.Context(), rec)
				h.writeErr(w, r, apperr.New(apperr.CodeInternal, "an unexpected error occurred", http.StatusInternalServerError))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// AccessLog logs every request and records the HTTP metrics under the
// route template.
func (h *Handler) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		if path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		h.metrics.IncrementHTTPRequestsInFlight()
		defer h.metrics.DecrementHTTPRequestsInFlight()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		duration := time.Since(start)

		h.metrics.RecordHTTPRequest(r.Method, path, rec.status, duration)
		h.log.HTTPRequest(r.Context(), r.Method, path, rec.status, duration, clientIP(r))
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
