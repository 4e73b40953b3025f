package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the revenue report endpoints.
type Handler struct {
	service Service
	loc     *time.Location
	log     *logger.Logger
}

func NewHandler(service Service, loc *time.Location, log *logger.Logger) *Handler {
	return &Handler{service: service, loc: loc, log: log.WithComponent("report_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(guard)
		r.Get("/", h.report)           // GET    /api/reports?from=&to=
		r.Get("/export.csv", h.export) // GET    /api/reports/export.csv?from=&to=
	})
}

func (h *Handler) build(r *http.Request) (*Report, error) {
	q := r.URL.Query()
	return h.service.Report(r.Context(), ParseRange(q.Get("from"), q.Get("to"), h.loc))
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.build(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, rep)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	rep, err := h.build(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	name := fmt.Sprintf("reports-%s.csv", time.Now().In(h.location()).Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := WriteCSV(w, rep); err != nil {
		h.log.Warn("csv export interrupted", "error", err)
	}
}

func (h *Handler) location() *time.Location {
	if h.loc == nil {
		return time.Local
	}
	return h.loc
}
