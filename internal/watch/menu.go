package watch

import (
	"context"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/cart"
	"github.com/georgemunganga/canteen-backend/internal/modules/catalog"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
)

const DefaultMenuInterval = 8 * time.Second

// ItemSource lists the available menu items.
type ItemSource interface {
	ListItems(ctx context.Context) ([]catalog.Item, error)
}

// Reconciler is implemented by *cart.Cart.
type Reconciler interface {
	Reconcile(items []catalog.Item) ([]cart.Line, error)
}

// MenuWatcher refetches the menu and drops cart lines that went
// unavailable. OnDropped receives the dropped lines.
type MenuWatcher struct {
	src       ItemSource
	cart      Reconciler
	interval  time.Duration
	log       *logger.Logger
	OnMenu    func([]catalog.Item)
	OnDropped func([]cart.Line)
}

func NewMenuWatcher(src ItemSource, c Reconciler, interval time.Duration, log *logger.Logger) *MenuWatcher {
	if interval <= 0 {
		interval = DefaultMenuInterval
	}
	return &MenuWatcher{src: src, cart: c, interval: interval, log: log.WithComponent("menu_watcher")}
}

func (w *MenuWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Poll(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn("menu poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll fetches the menu once, reconciles the cart and returns what it dropped.
func (w *MenuWatcher) Poll(ctx context.Context) ([]cart.Line, error) {
	items, err := w.src.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if w.OnMenu != nil {
		w.OnMenu(items)
	}
	dropped, err := w.cart.Reconcile(items)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		w.log.Info("cart lines dropped", "count", len(dropped))
		if w.OnDropped != nil {
			w.OnDropped(dropped)
		}
	}
	return dropped, nil
}
