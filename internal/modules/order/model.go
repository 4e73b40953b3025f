package order

import (
	"strings"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus normalises s and rejects anything but a known status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted:
		return st, nil
	default:
		return "", apperr.Validation("invalid status %q: must be pending or completed", s)
	}
}

// LineItem is a point-in-time copy of a menu item inside an order.
type LineItem struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
}

// Order represents a customer's canteen order.
type Order struct {
	ID            uuid.UUID  `json:"id"`
	TableID       string     `json:"tableId"`
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	ScreenshotURL string     `json:"screenshotUrl"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ListFilter narrows an order listing. An empty Status matches every order.
type ListFilter struct {
	Limit  int
	Status Status
}

// Patch holds the owner-editable fields; nil means "leave unchanged".
type Patch struct {
	Status        *Status
	TableID       *string
	Total         *float64
	Items         *[]LineItem
	ScreenshotURL *string
}

func (p Patch) Empty() bool {
	return p.Status == nil && p.TableID == nil && p.Total == nil && p.Items == nil && p.ScreenshotURL == nil
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ClampLimit bounds n to [1, MaxLimit].
func ClampLimit(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}
