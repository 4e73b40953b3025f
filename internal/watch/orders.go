// Package watch polls the API on a fixed interval for the console views.
package watch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/modules/order"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
)

const (
	DefaultOrderInterval = 5 * time.Second
	DefaultOrderLimit    = 20
	DefaultHighlight     = 8 * time.Second
)

// OrderSource lists the newest orders.
type OrderSource interface {
	ListOrders(ctx context.Context, limit int, status string) ([]order.Order, error)
}

// Entry is an order as shown in the queue.
type Entry struct {
	order.Order
	Highlighted bool
}

type OrderOptions struct {
	Interval  time.Duration
	Limit     int
	Highlight time.Duration
	// Status filters the fetch; empty fetches every status.
	Status string
	// OnUpdate is called after a poll that changed the queue.
	OnUpdate func([]Entry)
}

// OrderWatcher keeps the owner's order queue. The first poll fills the
// queue silently; orders seen after that are highlighted for a while.
type OrderWatcher struct {
	src  OrderSource
	opts OrderOptions
	log  *logger.Logger
	now  func() time.Time

	mu     sync.Mutex
	primed bool
	known  map[string]order.Order
	until  map[string]time.Time
}

func NewOrderWatcher(src OrderSource, opts OrderOptions, log *logger.Logger) *OrderWatcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultOrderInterval
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultOrderLimit
	}
	if opts.Highlight <= 0 {
		opts.Highlight = DefaultHighlight
	}
	return &OrderWatcher{
		src:   src,
		opts:  opts,
		log:   log.WithComponent("order_watcher"),
		now:   time.Now,
		known: map[string]order.Order{},
		until: map[string]time.Time{},
	}
}

// Run polls immediately and then on every tick until ctx is cancelled.
// Failed polls are logged and retried on the next tick.
func (w *OrderWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := w.Poll(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn("order poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll fetches once and returns the number of newly seen orders. The
// queue is replaced by the fetch, so orders that left the window or the
// status filter drop out and status changes show up.
func (w *OrderWatcher) Poll(ctx context.Context) (int, error) {
	recent, err := w.src.ListOrders(ctx, w.opts.Limit, w.opts.Status)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	now := w.now()
	latest := make(map[string]order.Order, len(recent))
	fresh := 0
	changed := len(recent) != len(w.known)
	for _, o := range recent {
		id := o.ID.String()
		prev, ok := w.known[id]
		if !ok {
			fresh++
			changed = true
			if w.primed {
				w.until[id] = now.Add(w.opts.Highlight)
			}
		} else if prev.Status != o.Status {
			changed = true
		}
		latest[id] = o
	}
	w.known = latest
	for id, deadline := range w.until {
		if _, ok := latest[id]; !ok || !now.Before(deadline) {
			delete(w.until, id)
		}
	}
	first := !w.primed
	w.primed = true
	w.mu.Unlock()

	if fresh > 0 && !first {
		w.log.Info("new orders", "count", fresh)
	}
	if changed && w.opts.OnUpdate != nil {
		w.opts.OnUpdate(w.Snapshot())
	}
	return fresh, nil
}

// Snapshot returns every known order, oldest first.
func (w *OrderWatcher) Snapshot() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	out := make([]Entry, 0, len(w.known))
	for id, o := range w.known {
		deadline, ok := w.until[id]
		out = append(out, Entry{Order: o, Highlighted: ok && now.Before(deadline)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
