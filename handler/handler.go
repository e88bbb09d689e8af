package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"sales-management/apperr"
	"sales-management/logging"
	"sales-management/metrics"
	"sales-management/service"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc     service.ServiceInterface
	log     *logging.Logger
	metrics *metrics.Metrics
	ping    func(ctx context.Context) error
}

type Option func(*Handler)

func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) { h.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithHealthCheck sets the probe behind GET /health.
func WithHealthCheck(ping func(ctx context.Context) error) Option {
	return func(h *Handler) { h.ping = ping }
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, opts ...Option) *Handler {
	h := &Handler{svc: s, log: logging.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("http")
	return h
}

// RegisterRoutes registers all routes and middleware on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(RequestID, h.AccessLog, h.Recovery)

	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Sales
	r.HandleFunc("/sales", h.ListSales).Methods(http.MethodGet)
	r.HandleFunc("/sales", h.CreateSale).Methods(http.MethodPost)
	r.HandleFunc("/sales/{sale_id:[0-9]+}", h.GetSale).Methods(http.MethodGet)
	r.HandleFunc("/sales/{sale_id:[0-9]+}", h.UpdateSale).Methods(http.MethodPatch)
	r.HandleFunc("/sales/{sale_id:[0-9]+}", h.DeleteSale).Methods(http.MethodDelete)

	// Line items
	r.HandleFunc("/sales/{sale_id:[0-9]+}/products", h.GetSaleProducts).Methods(http.MethodGet)
	r.HandleFunc("/sales/{sale_id:[0-9]+}/products", h.AddSaleProduct).Methods(http.MethodPost)
	r.HandleFunc("/sales/{sale_id:[0-9]+}/products/{product_id:[0-9]+}", h.UpdateSaleProduct).Methods(http.MethodPatch)
	r.HandleFunc("/sales/{sale_id:[0-9]+}/products/{product_id:[0-9]+}", h.DeleteSaleProduct).Methods(http.MethodDelete)

	// Catalog
	r.HandleFunc("/cities", h.ListCities).Methods(http.MethodGet)
	r.HandleFunc("/cities", h.CreateCity).Methods(http.MethodPost)
	r.HandleFunc("/cities/{id:[0-9]+}", h.GetCity).Methods(http.MethodGet)
	r.HandleFunc("/cities/{id:[0-9]+}", h.UpdateCity).Methods(http.MethodPatch)
	r.HandleFunc("/cities/{id:[0-9]+}", h.DeleteCity).Methods(http.MethodDelete)

	r.HandleFunc("/stores", h.ListStores).Methods(http.MethodGet)
	r.HandleFunc("/stores", h.CreateStore).Methods(http.MethodPost)
	r.HandleFunc("/stores/{id:[0-9]+}", h.GetStore).Methods(http.MethodGet)
	r.HandleFunc("/stores/{id:[0-9]+}", h.UpdateStore).Methods(http.MethodPatch)
	r.HandleFunc("/stores/{id:[0-9]+}", h.DeleteStore).Methods(http.MethodDelete)

	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", h.UpdateProduct).Methods(http.MethodPatch)
	r.HandleFunc("/products/{id:[0-9]+}", h.DeleteProduct).Methods(http.MethodDelete)
}

// --- helpers ---

type errorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	Timestamp string            `json:"timestamp"`
	Path      string            `json:"path"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr renders err as an error envelope. Errors outside the apperr
// taxonomy are logged and reported as a generic internal error.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.WithContext(r.Context()).WithError(err).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
		)
	}
	writeJSON(w, appErr.HTTPStatus, errorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidInput("invalid json").WithDetail("body", err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, apperr.InvalidInput("invalid path parameter").WithDetail(name, mux.Vars(r)[name])
	}
	return id, nil
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			h.log.WithContext(r.Context()).WithError(err).Warn("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
