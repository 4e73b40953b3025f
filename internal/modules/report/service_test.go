package report

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedOrder struct {
	status string
	CompletedOrder
}

// memRepo applies the same filter the SQL query does.
type memRepo struct{ orders []storedOrder }

func (m *memRepo) add(status string, total float64, at time.Time, items string) {
	m.orders = append(m.orders, storedOrder{status, CompletedOrder{
		ID: uuid.New(), Total: total, Items: json.RawMessage(items), CreatedAt: at,
	}})
}

func (m *memRepo) ListCompleted(_ context.Context, r Range) ([]CompletedOrder, error) {
	var out []CompletedOrder
	for _, o := range m.orders {
		if o.status != "completed" {
			continue
		}
		if r.From != nil && o.CreatedAt.Before(*r.From) {
			continue
		}
		if r.To != nil && o.CreatedAt.After(*r.To) {
			continue
		}
		out = append(out, o.CompletedOrder)
	}
	return out, nil
}

func TestReportCountsOnlyCompleted(t *testing.T) {
	day := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	repo.add("completed", 100, day, `[{"itemId":"tea","name":"Tea","price":25,"qty":4}]`)
	repo.add("completed", 50, day.Add(time.Hour), `[{"itemId":"samosa","name":"Samosa","price":25,"qty":2}]`)
	repo.add("pending", 9999, day, `[{"itemId":"feast","name":"Feast","price":9999,"qty":1}]`)

	rep, err := NewService(repo, time.UTC, logger.Discard()).Report(context.Background(), Range{})
	require.NoError(t, err)

	assert.Equal(t, 150.0, rep.TotalRevenue)
	assert.Equal(t, 2, rep.OrdersCount)
	assert.Equal(t, []DayRow{{Day: "2025-01-15", Revenue: 150, Orders: 2}}, rep.ByDay)
	assert.Equal(t, []ItemRow{
		{ItemID: "tea", Name: "Tea", QtySold: 4, Revenue: 100},
		{ItemID: "samosa", Name: "Samosa", QtySold: 2, Revenue: 50},
	}, rep.ByItem)
}

func TestReportSurvivesNonFiniteTotal(t *testing.T) {
	day := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	repo.add("completed", math.NaN(), day, `[]`)
	repo.add("completed", 20, day, `[]`)

	rep, err := NewService(repo, time.UTC, logger.Discard()).Report(context.Background(), Range{})
	require.NoError(t, err)
	assert.Equal(t, 20.0, rep.TotalRevenue)
	assert.Equal(t, 2, rep.OrdersCount)
}

func TestReportEndOfDayInclusive(t *testing.T) {
	loc := time.FixedZone("CAT", 2*60*60)
	repo := &memRepo{}
	repo.add("completed", 30, time.Date(2025, 1, 31, 23, 50, 0, 0, loc), `[]`)
	svc := NewService(repo, loc, logger.Discard())

	rep, err := svc.Report(context.Background(), ParseRange("", "2025-01-31", loc))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.OrdersCount)

	rep, err = svc.Report(context.Background(), ParseRange("", "2025-01-30", loc))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.OrdersCount)
	assert.Empty(t, rep.ByDay)
	assert.NotNil(t, rep.ByItem)
}

func TestReportByDayAscending(t *testing.T) {
	repo := &memRepo{}
	repo.add("completed", 10, time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC), `[]`)
	repo.add("completed", 5.25, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), `[]`)
	repo.add("completed", 4.75, time.Date(2025, 2, 1, 18, 0, 0, 0, time.UTC), `[]`)

	rep, err := NewService(repo, time.UTC, logger.Discard()).Report(context.Background(), Range{})
	require.NoError(t, err)
	require.Len(t, rep.ByDay, 2)
	assert.Equal(t, DayRow{Day: "2025-02-01", Revenue: 10, Orders: 2}, rep.ByDay[0])
	assert.Equal(t, "2025-02-02", rep.ByDay[1].Day)
	assert.Equal(t, 20.0, rep.TotalRevenue)
}

func TestReportItemBreakdownDegrades(t *testing.T) {
	repo := &memRepo{}
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.add("completed", 10, at, `[{"itemId":"tea","price":5,"qty":2}]`)
	repo.add("completed", 10, at, `{"unexpected":"shape"}`)

	rep, err := NewService(repo, time.UTC, logger.Discard()).Report(context.Background(), Range{})
	require.NoError(t, err)
	assert.Equal(t, 20.0, rep.TotalRevenue)
	assert.Equal(t, []ItemRow{}, rep.ByItem)
}

func TestReportSkipsMalformedLines(t *testing.T) {
	repo := &memRepo{}
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.add("completed", 10, at, `[{"itemId":"","price":5,"qty":2},{"itemId":"tea","price":5,"qty":0},{"itemId":"b","price":1,"qty":1},{"itemId":"a","price":1,"qty":1}]`)

	rep, err := NewService(repo, time.UTC, logger.Discard()).Report(context.Background(), Range{})
	require.NoError(t, err)
	require.Len(t, rep.ByItem, 2)
	assert.Equal(t, "a", rep.ByItem[0].ItemID)
}

func TestParseRange(t *testing.T) {
	loc := time.UTC
	r := ParseRange("2025-01-01", "2025-01-31", loc)
	require.NotNil(t, r.From)
	require.NotNil(t, r.To)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), *r.From)
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 999000000, loc), *r.To)

	r = ParseRange("yesterday", "31/01/2025", loc)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)

	r = ParseRange("2025-01-01T10:00:00Z", "2025-01-02T03:00:00Z", loc)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, loc), *r.From)
	assert.Equal(t, time.Date(2025, 1, 2, 23, 59, 59, 999000000, loc), *r.To)
}
