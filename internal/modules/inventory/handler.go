package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kobe-cb/retail/internal/modules/auth"
)

// Handler exposes inventory HTTP endpoints. Every route expects a session
// placed in the request context by auth.Middleware.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/stores/nearby", h.storesNearby)
	r.Get("/api/v1/stores/{store_id}/products", h.listProducts)
	r.Patch("/api/v1/stores/{store_id}/products/{name}", h.updateProduct)
	r.Get("/api/v1/product-updates/recent", h.recentUpdates)
	r.Get("/api/v1/reports/popular-products", h.popularProducts)
	r.Get("/api/v1/reports/popular-customers", h.popularCustomers)
	r.Post("/api/v1/supply-requests", h.placeSupplyRequest)
}

func (h *Handler) storesNearby(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.StoresWithinRange(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, stores)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.Atoi(chi.URLParam(r, "store_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "store_id must be an integer"})
		return
	}
	products, err := h.service.ListProducts(r.Context(), storeID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.Atoi(chi.URLParam(r, "store_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "store_id must be an integer"})
		return
	}
	var patch ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), auth.SessionFromContext(r.Context()), UpdateProductRequest{
		StoreID:     storeID,
		ProductName: chi.URLParam(r, "name"),
		Patch:       patch,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) recentUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.service.RecentUpdates(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, updates)
}

func (h *Handler) popularProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.PopularProducts(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) popularCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.PopularCustomers(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, customers)
}

func (h *Handler) placeSupplyRequest(w http.ResponseWriter, r *http.Request) {
	var req SupplyRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	receipt, err := h.service.PlaceSupplyRequest(r.Context(), auth.SessionFromContext(r.Context()), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, receipt)
}

func respondErr(w http.ResponseWriter, err error) {
	status := auth.StatusFor(err)
	if status == 0 {
		switch {
		case errors.Is(err, ErrStoreNotFound), errors.Is(err, ErrWarehouseNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrNoChanges), errors.Is(err, ErrInvalidPatch), errors.Is(err, ErrInvalidUnits):
			status = http.StatusBadRequest
		default:
			status = http.StatusInternalServerError
		}
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
