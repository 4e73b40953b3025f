package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// Handler exposes menu item HTTP endpoints.
type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log.WithComponent("catalog_handler")}
}

// RegisterRoutes mounts the item routes. Owner-only routes go through guard.
func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.listAvailable) // GET    /api/items
		r.Get("/all", h.listAll)    // GET    /api/items/all
		r.Get("/{id}", h.getItem)   // GET    /api/items/{id}
		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/", h.createItem)       // POST   /api/items
			r.Patch("/{id}", h.updateItem)  // PATCH  /api/items/{id}
			r.Delete("/{id}", h.deleteItem) // DELETE /api/items/{id}
		})
	})
}

func (h *Handler) listAvailable(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, availableOnly bool) {
	items, err := h.service.ListItems(r.Context(), availableOnly)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, it)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	it, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, it)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	it, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, it)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}
