package report

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/shopspring/decimal"
)

// Service builds revenue reports.
type Service interface {
	Report(ctx context.Context, r Range) (*Report, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	log  *logger.Logger
}

// NewService groups days in loc; nil means time.Local.
func NewService(repo Repository, loc *time.Location, log *logger.Logger) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{repo: repo, loc: loc, log: log.WithComponent("report_service")}
}

// ParseRange reads YYYY-MM-DD or RFC3339 bounds in loc. "to" covers the
// whole of its day. Unparseable bounds are dropped.
func ParseRange(from, to string, loc *time.Location) Range {
	if loc == nil {
		loc = time.Local
	}
	var r Range
	if t, ok := parseDay(from, loc); ok {
		r.From = &t
	}
	if t, ok := parseDay(to, loc); ok {
		end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
		r.To = &end
	}
	return r
}

func parseDay(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

func (s *service) Report(ctx context.Context, r Range) (*Report, error) {
	orders, err := s.repo.ListCompleted(ctx, r)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	days := map[string]*dayAcc{}
	for _, o := range orders {
		amount := decimal.Zero
		if math.IsNaN(o.Total) || math.IsInf(o.Total, 0) {
			s.log.Warn("order total is not a finite number, counted as zero", "order_id", o.ID)
		} else {
			amount = decimal.NewFromFloat(o.Total)
		}
		total = total.Add(amount)

		key := o.CreatedAt.In(s.loc).Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &dayAcc{revenue: decimal.Zero}
			days[key] = d
		}
		d.revenue = d.revenue.Add(amount)
		d.orders++
	}

	byItem, err := itemBreakdown(orders)
	if err != nil {
		s.log.Warn("item breakdown skipped", "error", err)
		byItem = []ItemRow{}
	}

	return &Report{
		TotalRevenue: total.Round(2).InexactFloat64(),
		OrdersCount:  len(orders),
		ByDay:        dayRows(days),
		ByItem:       byItem,
	}, nil
}

type dayAcc struct {
	revenue decimal.Decimal
	orders  int
}

func dayRows(days map[string]*dayAcc) []DayRow {
	rows := make([]DayRow, 0, len(days))
	for day, d := range days {
		rows = append(rows, DayRow{Day: day, Revenue: d.revenue.Round(2).InexactFloat64(), Orders: d.orders})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day < rows[j].Day })
	return rows
}

type itemAcc struct {
	name    string
	qty     int
	revenue decimal.Decimal
}

// itemBreakdown sums quantity and price*qty per item id. Lines without an
// id or with a non-positive quantity are skipped.
func itemBreakdown(orders []CompletedOrder) ([]ItemRow, error) {
	acc := map[string]*itemAcc{}
	for _, o := range orders {
		if len(o.Items) == 0 {
			continue
		}
		var lines []line
		if err := json.Unmarshal(o.Items, &lines); err != nil {
			return nil, fmt.Errorf("order %s: unexpected item shape: %w", o.ID, err)
		}
		for _, l := range lines {
			if l.ItemID == "" || l.Qty <= 0 {
				continue
			}
			a, ok := acc[l.ItemID]
			if !ok {
				a = &itemAcc{name: l.Name, revenue: decimal.Zero}
				acc[l.ItemID] = a
			}
			a.qty += l.Qty
			a.revenue = a.revenue.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Qty))))
		}
	}

	rows := make([]ItemRow, 0, len(acc))
	for id, a := range acc {
		rows = append(rows, ItemRow{ItemID: id, Name: a.name, QtySold: a.qty, Revenue: a.revenue.Round(2).InexactFloat64()})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].ItemID < rows[j].ItemID
	})
	return rows, nil
}
