// Package cart keeps the customer's cart on disk between runs.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/georgemunganga/canteen-backend/internal/modules/catalog"
	"github.com/georgemunganga/canteen-backend/internal/modules/order"
	"github.com/shopspring/decimal"
)

// FileName is the cart file inside the cart directory.
const FileName = "cart.json"

// Line is one cart entry.
type Line struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
	// Seq keeps insertion order stable across saves.
	Seq int `json:"seq"`
}

// document is the on-disk layout: a single "cart" key.
type document struct {
	Cart []Line `json:"cart"`
}

// Cart is a set of lines keyed by item id.
type Cart struct {
	mu    sync.Mutex
	path  string
	lines map[string]*Line
	seq   int
}

// Open loads <dir>/cart.json, or starts empty when the file does not exist.
func Open(dir string) (*Cart, error) {
	c := &Cart{path: filepath.Join(dir, FileName), lines: map[string]*Line{}}
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", c.path, err)
	}
	for i := range doc.Cart {
		l := doc.Cart[i]
		if l.ItemID == "" || l.Qty <= 0 {
			continue
		}
		c.lines[l.ItemID] = &l
		if l.Seq > c.seq {
			c.seq = l.Seq
		}
	}
	return c, nil
}

// Add puts qty of item into the cart, merging with an existing line.
func (c *Cart) Add(item catalog.Item, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	if !item.Available {
		return fmt.Errorf("%s is not available", item.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := item.ID.String()
	l, ok := c.lines[id]
	if !ok {
		c.seq++
		l = &Line{ItemID: id, Seq: c.seq}
		c.lines[id] = l
	}
	l.Name, l.Price = item.Name, item.Price
	l.Qty += qty
	return c.saveLocked()
}

// SetQty sets a line's quantity; qty <= 0 removes the line.
func (c *Cart) SetQty(itemID string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lines[itemID]
	if !ok {
		return fmt.Errorf("item %s is not in the cart", itemID)
	}
	if qty <= 0 {
		delete(c.lines, itemID)
	} else {
		l.Qty = qty
	}
	return c.saveLocked()
}

func (c *Cart) Remove(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lines[itemID]; !ok {
		return nil
	}
	delete(c.lines, itemID)
	return c.saveLocked()
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = map[string]*Line{}
	return c.saveLocked()
}

// Lines returns a copy of the lines in the order they were added.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedLocked()
}

// Total is the sum of price*qty, rounded to cents.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	f, _ := sum.Round(2).Float64()
	return f
}

// OrderItems converts the cart into an order's line-item snapshot.
func (c *Cart) OrderItems() []order.LineItem {
	lines := c.Lines()
	items := make([]order.LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.LineItem{ItemID: l.ItemID, Name: l.Name, Price: l.Price, Qty: l.Qty})
	}
	return items
}

// Reconcile drops lines whose item is missing from items or unavailable,
// refreshes name and price of the rest, and returns the dropped lines.
func (c *Cart) Reconcile(items []catalog.Item) ([]Line, error) {
	byID := make(map[string]catalog.Item, len(items))
	for _, it := range items {
		byID[it.ID.String()] = it
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var dropped []Line
	changed := false
	for _, l := range c.sortedLocked() {
		it, ok := byID[l.ItemID]
		if !ok || !it.Available {
			dropped = append(dropped, l)
			delete(c.lines, l.ItemID)
			changed = true
			continue
		}
		if cur := c.lines[l.ItemID]; cur.Name != it.Name || cur.Price != it.Price {
			cur.Name, cur.Price = it.Name, it.Price
			changed = true
		}
	}
	if !changed {
		return nil, nil
	}
	return dropped, c.saveLocked()
}

func (c *Cart) sortedLocked() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// saveLocked writes the cart through a temp file and rename.
func (c *Cart) saveLocked() error {
	raw, err := json.MarshalIndent(document{Cart: c.sortedLocked()}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}
