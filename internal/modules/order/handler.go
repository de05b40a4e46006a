package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/inventory"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)        // POST /api/v1/orders
		r.Get("/recent", h.recentOrders) // GET  /api/v1/orders/recent
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	receipt, err := h.service.PlaceOrder(r.Context(), auth.SessionFromContext(r.Context()), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, receipt)
}

func (h *Handler) recentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.RecentOrders(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func respondErr(w http.ResponseWriter, err error) {
	code := auth.StatusFor(err)
	if code == 0 {
		switch {
		case errors.Is(err, ErrInvalidUnits):
			code = http.StatusBadRequest
		case errors.Is(err, ErrInsufficientInventory):
			code = http.StatusConflict
		case errors.Is(err, ErrOutOfRange):
			code = http.StatusForbidden
		case errors.Is(err, inventory.ErrStoreNotFound):
			code = http.StatusNotFound
		default:
			code = http.StatusInternalServerError
		}
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
