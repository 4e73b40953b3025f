package paymentqr

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// Handler exposes payment QR HTTP endpoints.
type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log.WithComponent("paymentqr_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/payment-qr", func(r chi.Router) {
		r.Get("/", h.current) // GET    /api/payment-qr
		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/", h.create)       // POST   /api/payment-qr
			r.Put("/{id}", h.replace)   // PUT    /api/payment-qr/{id}
			r.Delete("/{id}", h.delete) // DELETE /api/payment-qr/{id}
		})
	})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	qr, err := h.service.Current(r.Context())
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, qr)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	qr, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, qr)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	qr, err := h.service.Replace(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, qr)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "Deleted"})
}
