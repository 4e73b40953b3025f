package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Range bounds a report by order creation time. Nil bounds are open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// CompletedOrder is the slice of an order the reports read.
type CompletedOrder struct {
	ID        uuid.UUID
	Total     float64
	Items     json.RawMessage
	CreatedAt time.Time
}

type line struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
}

// Report summarises completed orders.
type Report struct {
	TotalRevenue float64   `json:"totalRevenue"`
	OrdersCount  int       `json:"ordersCount"`
	ByDay        []DayRow  `json:"byDay"`
	ByItem       []ItemRow `json:"byItem"`
}

type DayRow struct {
	Day     string  `json:"_id"`
	Revenue float64 `json:"total"`
	Orders  int     `json:"orders"`
}

type ItemRow struct {
	ItemID  string  `json:"_id"`
	Name    string  `json:"name"`
	QtySold int     `json:"qtySold"`
	Revenue float64 `json:"revenue"`
}
