package handler

import (
	"net/http"

	"sales-management/service"
)

// ListSales handles GET /sales?city_id=&store_id=&product_id=&days=&min_amount=&max_amount=&min_quantity=&max_quantity=
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context(), r.URL.Query())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// CreateSale handles POST /sales
// body: { "store_id": 1, "products": [{ "product_id": 1, "quantity": 2 }] }
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	id, err := h.svc.CreateSale(r.Context(), req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, service.CreatedDTO{ID: id})
}

// GetSale handles GET /sales/{sale_id}
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sale_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	sale, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// UpdateSale handles PATCH /sales/{sale_id}
// body: { "store_id": 2 }
func (h *Handler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sale_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	var req service.UpdateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	sale, err := h.svc.UpdateSale(r.Context(), id, req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// DeleteSale handles DELETE /sales/{sale_id}
func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sale_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	sale, err := h.svc.DeleteSale(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// GetSaleProducts handles GET /sales/{sale_id}/products
func (h *Handler) GetSaleProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sale_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	detail, err := h.svc.GetSaleProducts(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// AddSaleProduct handles POST /sales/{sale_id}/products
// body: { "product_id": 3, "quantity": 1 }
func (h *Handler) AddSaleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sale_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	var req service.AddSaleProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	detail, err := h.svc.AddSaleProduct(r.Context(), id, req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// UpdateSaleProduct handles PATCH /sales/{sale_id}/products/{product_id}
// body: { "quantity": 5 }
func (h *Handler) UpdateSaleProduct(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathID(r, "sale_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	productID, err := pathID(r, "product_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	var req service.UpdateSaleProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	li, err := h.svc.UpdateSaleProduct(r.Context(), saleID, productID, req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, li)
}

// DeleteSaleProduct handles DELETE /sales/{sale_id}/products/{product_id}
func (h *Handler) DeleteSaleProduct(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathID(r, "sale_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	productID, err := pathID(r, "product_id")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	li, err := h.svc.DeleteSaleProduct(r.Context(), saleID, productID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, li)
}
