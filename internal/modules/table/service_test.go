package table

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu     sync.Mutex
	tables map[string]*Table
	clock  time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{tables: map[string]*Table{}, clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memRepo) Create(_ context.Context, t *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	t.CreatedAt, t.UpdatedAt = m.clock, m.clock
	cp := *t
	m.tables[t.ID.String()] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, errTableNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) List(_ context.Context) ([]*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Table{}
	for _, t := range m.tables {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) Numbers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, t := range m.tables {
		out = append(out, t.Number)
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[id]; !ok {
		return errTableNotFound
	}
	delete(m.tables, id)
	return nil
}

func newTestService() Service {
	return NewService(newMemRepo(), "https://canteen.test", "", logger.Discard())
}

func TestCreateTableRequiresNumber(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateTable(context.Background(), CreateTableRequest{Number: "  "}, false)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.CreateTable(context.Background(), CreateTableRequest{Number: true}, false)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreateTableComputesLinks(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	v, err := svc.CreateTable(ctx, CreateTableRequest{Number: float64(3)}, false)
	require.NoError(t, err)
	assert.Equal(t, "3", v.Number)
	assert.Equal(t, "https://canteen.test/order/3", v.Outgoing)
	assert.Contains(t, v.QR, "data=https%3A%2F%2Fcanteen.test%2Forder%2F3")

	v, err = svc.CreateTable(ctx, CreateTableRequest{Number: " 7 ", Link: "https://x.test/{table}"}, false)
	require.NoError(t, err)
	assert.Equal(t, "7", v.Number)
	assert.Equal(t, "https://x.test/7", v.Outgoing)

	got, err := svc.GetTable(ctx, v.ID.String())
	require.NoError(t, err)
	assert.Equal(t, v.Outgoing, got.Outgoing)
}

func TestAutoNumbering(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	n, err := svc.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", n)

	for _, num := range []string{"2", "5", "abc"} {
		_, err := svc.CreateTable(ctx, CreateTableRequest{Number: num}, false)
		require.NoError(t, err)
	}
	v, err := svc.CreateTable(ctx, CreateTableRequest{}, true)
	require.NoError(t, err)
	assert.Equal(t, "6", v.Number)

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 4)
	assert.Equal(t, "6", tables[0].Number)
}

func TestDeleteTable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	v, err := svc.CreateTable(ctx, CreateTableRequest{Number: "1"}, false)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTable(ctx, v.ID.String()))
	assert.True(t, apperr.Is(svc.DeleteTable(ctx, v.ID.String()), apperr.KindNotFound))
}
