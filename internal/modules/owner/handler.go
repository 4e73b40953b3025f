package owner

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the owner account endpoints.
type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log.WithComponent("owner_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/owner", func(r chi.Router) {
		r.Post("/", h.create)                  // POST   /api/owner
		r.Post("/login", h.login)              // POST   /api/owner/login
		r.Get("/info", h.info)                 // GET    /api/owner/info
		r.With(guard).Put("/update", h.update) // PUT    /api/owner/update
	})
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOwnerRequest
	if err := decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	o, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Owner created", "owner": o})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Login successful", "token": token})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateOwnerRequest
	if err := decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	if _, err := h.service.Update(r.Context(), req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Owner updated successfully"})
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Info(r.Context())
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	if o == nil {
		httpx.Respond(w, http.StatusOK, map[string]bool{"exists": false})
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"exists": true, "owner": o})
}
