package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/events"
	"github.com/georgemunganga/canteen-backend/internal/modules/media"
	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// Subscriber hands out live order event feeds.
type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

// Handler exposes order HTTP endpoints.
type Handler struct {
	service   Service
	feed      Subscriber
	maxUpload int64
	heartbeat time.Duration
	log       *logger.Logger
}

func NewHandler(service Service, feed Subscriber, maxUpload int64, log *logger.Logger) *Handler {
	return &Handler{
		service:   service,
		feed:      feed,
		maxUpload: maxUpload,
		heartbeat: 25 * time.Second,
		log:       log.WithComponent("order_handler"),
	}
}

// RegisterRoutes mounts the order routes. Checkout stays public.
func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)   // GET    /api/orders?limit=&status=
		r.Get("/stream", h.stream) // GET    /api/orders/stream
		r.Get("/{id}", h.getOrder) // GET    /api/orders/{id}
		r.Post("/", h.createOrder) // POST   /api/orders
		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Put("/{id}", h.updateOrder)    // PUT    /api/orders/{id}
			r.Delete("/{id}", h.deleteOrder) // DELETE /api/orders/{id}
		})
	})
}

// ParseLimit reads the limit query value: default when absent or
// unparseable, otherwise clamped.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	return ClampLimit(n)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{Limit: ParseLimit(q.Get("limit"))}
	if raw := q.Get("status"); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			httpx.Error(w, r, h.log, err)
			return
		}
		f.Status = st
	}

	orders, err := h.service.ListOrders(r.Context(), f)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	if err := media.ParseForm(w, r, h.maxUpload); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	in := CreateOrderInput{TableID: r.FormValue("tableId")}
	items, err := ParseItems([]byte(r.FormValue("items")))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	in.Items = items
	if raw := r.FormValue("total"); raw != "" {
		total, err := ParseTotal(raw)
		if err != nil {
			httpx.Error(w, r, h.log, err)
			return
		}
		in.Total = total
	}

	file, _, err := media.FormFile(r, "screenshot")
	switch {
	case err == nil:
		defer file.Close()
		in.Screenshot = file
	case !errors.Is(err, http.ErrMissingFile):
		httpx.Error(w, r, h.log, apperr.Validation("invalid screenshot part"))
		return
	}

	o, err := h.service.CreateOrder(r.Context(), in)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid body"))
		return
	}
	patch, err := DecodePatch(body)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	o, err := h.service.UpdateOrder(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "Deleted", "id": id})
}

// stream writes order events as server-sent events until the client leaves.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Long-lived: lift the server's write timeout for this response.
	_ = rc.SetWriteDeadline(time.Time{})

	feed, cancel := h.feed.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		h.log.Warn("streaming unsupported", "error", err)
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
		case ev, ok := <-feed:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Warn("event not encodable", "type", ev.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
