package handler

import (
	"context"
	"net/http"

	"sales-management/service"
)

// Generic adapters for the catalog endpoints, one per verb.

func list[T any](h *Handler, fn func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context())
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func byID[T any](h *Handler, fn func(context.Context, int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		out, err := fn(r.Context(), id)
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func create[Req any](h *Handler, fn func(context.Context, Req) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if err := decodeJSON(r, &req); err != nil {
			h.writeErr(w, r, err)
			return
		}
		id, err := fn(r.Context(), req)
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, service.CreatedDTO{ID: id})
	}
}

func patch[Req, T any](h *Handler, fn func(context.Context, int64, Req) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		var req Req
		if err := decodeJSON(r, &req); err != nil {
			h.writeErr(w, r, err)
			return
		}
		out, err := fn(r.Context(), id, req)
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ListCities handles GET /cities
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	list(h, h.svc.ListCities)(w, r)
}

// GetCity handles GET /cities/{id}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) { byID(h, h.svc.GetCity)(w, r) }

// CreateCity handles POST /cities
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	create(h, h.svc.CreateCity)(w, r)
}

// UpdateCity handles PATCH /cities/{id}
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	patch(h, h.svc.UpdateCity)(w, r)
}

// DeleteCity handles DELETE /cities/{id}; the city's stores and their
// sales go with it.
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	byID(h, h.svc.DeleteCity)(w, r)
}

func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	list(h, h.svc.ListStores)(w, r)
}

func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) { byID(h, h.svc.GetStore)(w, r) }

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	create(h, h.svc.CreateStore)(w, r)
}

func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	patch(h, h.svc.UpdateStore)(w, r)
}

func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	byID(h, h.svc.DeleteStore)(w, r)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list(h, h.svc.ListProducts)(w, r)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	byID(h, h.svc.GetProduct)(w, r)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	create(h, h.svc.CreateProduct)(w, r)
}

// UpdateProduct handles PATCH /products/{id}. Existing line items keep
// their recorded prices.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	patch(h, h.svc.UpdateProduct)(w, r)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	byID(h, h.svc.DeleteProduct)(w, r)
}
