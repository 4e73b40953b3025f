package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/cart"
	"github.com/georgemunganga/canteen-backend/internal/modules/catalog"
	"github.com/georgemunganga/canteen-backend/internal/modules/order"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	mu     sync.Mutex
	orders []order.Order
	err    error
	calls  int
	limit  int
}

func (f *fakeOrders) ListOrders(_ context.Context, limit int, _ string) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return append([]order.Order(nil), f.orders...), nil
}

func (f *fakeOrders) push(o order.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append([]order.Order{o}, f.orders...)
}

func (f *fakeOrders) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newOrder(minute int) order.Order {
	return order.Order{ID: uuid.New(), Status: order.StatusPending, CreatedAt: base.Add(time.Duration(minute) * time.Minute)}
}

func TestOrderWatcherHighlightsNewOrdersOnce(t *testing.T) {
	src := &fakeOrders{orders: []order.Order{newOrder(1), newOrder(0)}}
	w := NewOrderWatcher(src, OrderOptions{}, logger.Discard())
	clock := base
	w.now = func() time.Time { return clock }
	ctx := context.Background()

	n, err := w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, DefaultOrderLimit, src.limit)
	for _, e := range w.Snapshot() {
		assert.False(t, e.Highlighted)
	}

	fresh := newOrder(2)
	src.push(fresh)
	clock = clock.Add(5 * time.Second)
	n, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snap := w.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, fresh.ID, snap[2].ID)
	assert.True(t, snap[2].Highlighted)
	assert.False(t, snap[0].Highlighted)

	clock = clock.Add(5 * time.Second)
	n, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, w.Snapshot()[2].Highlighted)

	clock = clock.Add(3 * time.Second)
	assert.False(t, w.Snapshot()[2].Highlighted)
}

func TestOrderWatcherReplacesQueueOnPoll(t *testing.T) {
	kept, gone := newOrder(1), newOrder(0)
	src := &fakeOrders{orders: []order.Order{kept, gone}}
	var updates [][]Entry
	w := NewOrderWatcher(src, OrderOptions{OnUpdate: func(e []Entry) { updates = append(updates, e) }}, logger.Discard())
	ctx := context.Background()

	_, err := w.Poll(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 1)

	// Unchanged fetch: no redraw.
	_, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.Len(t, updates, 1)

	// Deleted upstream: drops out of the queue.
	src.mu.Lock()
	src.orders = []order.Order{kept}
	src.mu.Unlock()
	n, err := w.Poll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.Len(t, updates, 2)
	snap := w.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, kept.ID, snap[0].ID)

	// Completed elsewhere: same id, new status.
	done := kept
	done.Status = order.StatusCompleted
	src.mu.Lock()
	src.orders = []order.Order{done}
	src.mu.Unlock()
	n, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.Len(t, updates, 3)
	assert.Equal(t, order.StatusCompleted, updates[2][0].Status)
	assert.Equal(t, order.StatusCompleted, w.Snapshot()[0].Status)
}

func TestOrderWatcherKeepsStateOnError(t *testing.T) {
	src := &fakeOrders{orders: []order.Order{newOrder(0)}}
	w := NewOrderWatcher(src, OrderOptions{Limit: 5}, logger.Discard())
	_, err := w.Poll(context.Background())
	require.NoError(t, err)

	src.err = errors.New("offline")
	_, err = w.Poll(context.Background())
	assert.Error(t, err)
	assert.Len(t, w.Snapshot(), 1)
	assert.Equal(t, 5, src.limit)
}

func TestOrderWatcherRunStopsOnCancel(t *testing.T) {
	src := &fakeOrders{orders: []order.Order{newOrder(0)}}
	updates := make(chan []Entry, 4)
	w := NewOrderWatcher(src, OrderOptions{
		Interval: 10 * time.Millisecond,
		OnUpdate: func(e []Entry) { updates <- e },
	}, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case e := <-updates:
		assert.Len(t, e, 1)
	case <-time.After(time.Second):
		t.Fatal("no update from first poll")
	}
	assert.Eventually(t, func() bool { return src.callCount() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

type fakeItems struct {
	items []catalog.Item
	err   error
}

func (f *fakeItems) ListItems(context.Context) ([]catalog.Item, error) { return f.items, f.err }

func TestMenuWatcherReconcilesCart(t *testing.T) {
	c, err := cart.Open(t.TempDir())
	require.NoError(t, err)
	tea := catalog.Item{ID: uuid.New(), Name: "Tea", Price: 1, Available: true}
	pie := catalog.Item{ID: uuid.New(), Name: "Pie", Price: 2, Available: true}
	require.NoError(t, c.Add(tea, 1))
	require.NoError(t, c.Add(pie, 1))

	var notice []cart.Line
	src := &fakeItems{items: []catalog.Item{tea}}
	w := NewMenuWatcher(src, c, 0, logger.Discard())
	w.OnDropped = func(l []cart.Line) { notice = l }

	dropped, err := w.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, "Pie", notice[0].Name)
	assert.Len(t, c.Lines(), 1)

	src.err = errors.New("offline")
	_, err = w.Poll(context.Background())
	assert.Error(t, err)
	assert.Len(t, c.Lines(), 1)
}
