package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/inventory"
	"github.com/kobe-cb/retail/internal/modules/user"
)

// Handler exposes admin HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Get("/users/{id}", h.viewUser)
		r.Patch("/users/{id}", h.updateUser)
		r.Get("/stores/{store_id}/products/{name}", h.viewProduct)
		r.Patch("/stores/{store_id}/products/{name}", h.updateProduct)
	})
}

func (h *Handler) viewUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "id must be an integer"})
		return
	}
	u, err := h.service.ViewUser(r.Context(), auth.SessionFromContext(r.Context()), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "id must be an integer"})
		return
	}
	var patch UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	u, err := h.service.UpdateUser(r.Context(), auth.SessionFromContext(r.Context()), id, patch)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) viewProduct(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.Atoi(chi.URLParam(r, "store_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "store_id must be an integer"})
		return
	}
	p, err := h.service.ViewProduct(r.Context(), auth.SessionFromContext(r.Context()), storeID, chi.URLParam(r, "name"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.Atoi(chi.URLParam(r, "store_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "store_id must be an integer"})
		return
	}
	var patch inventory.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), auth.SessionFromContext(r.Context()), storeID, chi.URLParam(r, "name"), patch)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func respondErr(w http.ResponseWriter, err error) {
	code := auth.StatusFor(err)
	if code == 0 {
		switch {
		case errors.Is(err, user.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, inventory.ErrNoChanges), errors.Is(err, inventory.ErrInvalidPatch),
			errors.Is(err, user.ErrUnknownRole), errors.Is(err, user.ErrInvalidSignUp):
			code = http.StatusBadRequest
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
