package table

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// Handler exposes table HTTP endpoints.
type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log.WithComponent("table_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.list)                  // GET    /api/tables
		r.Get("/next-number", h.nextNumber) // GET    /api/tables/next-number
		r.Get("/{id}", h.get)               // GET    /api/tables/{id}
		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/", h.create)       // POST   /api/tables[?auto=true]
			r.Delete("/{id}", h.delete) // DELETE /api/tables/{id}
		})
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.ListTables(r.Context())
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, tables)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, t)
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.NextNumber(r.Context())
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"number": n})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	auto, _ := strconv.ParseBool(r.URL.Query().Get("auto"))
	t, err := h.service.CreateTable(r.Context(), req, auto)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTable(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}
