package order

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rowColumns = []string{"id", "table_id", "items", "total", "screenshot_url", "status", "created_at", "updated_at"}

func TestPostgresCreateOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	o := &Order{ID: uuid.New(), TableID: "3", Items: []LineItem{{ItemID: "tea", Name: "Tea", Price: 15, Qty: 2}}, Total: 30, Status: StatusPending}
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(o.ID, "3", `[{"itemId":"tea","name":"Tea","price":15,"qty":2}]`, 30.0, "", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, NewPostgresRepository(db).Create(context.Background(), o))
	assert.Equal(t, now, o.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE status=$1 ORDER BY created_at DESC, id DESC LIMIT $2")).
		WithArgs("completed", 20).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(uuid.NewString(), "1", []byte(`[{"itemId":"tea","name":"Tea","price":15,"qty":1}]`), 15.0, "", "completed", now, now))

	orders, err := repo.List(context.Background(), ListFilter{Limit: 20, Status: StatusCompleted})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, StatusCompleted, orders[0].Status)
	assert.Equal(t, "tea", orders[0].Items[0].ItemID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders ORDER BY created_at DESC, id DESC LIMIT $1")).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(uuid.NewString(), "", []byte(`null`), 0.0, "", "pending", now, now))

	orders, err = repo.List(context.Background(), ListFilter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, []LineItem{}, orders[0].Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("UPDATE orders").
		WillReturnRows(sqlmock.NewRows(rowColumns))

	completed := StatusCompleted
	_, err = NewPostgresRepository(db).Update(context.Background(), uuid.NewString(), Patch{Status: &completed})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = NewPostgresRepository(db).Update(context.Background(), "not-a-uuid", Patch{Status: &completed})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPostgresUpdateWritesOnlyPatchedColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING id,table_id,")).
		WithArgs("completed", id).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(id.String(), "4", []byte(`[]`), 12.5, "", "completed", now, now))

	completed := StatusCompleted
	o, err := repo.Update(context.Background(), id.String(), Patch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Equal(t, "4", o.TableID)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET table_id=$1, items=$2, updated_at=NOW() WHERE id=$3 RETURNING")).
		WithArgs("7", `[{"itemId":"tea","name":"Tea","price":15,"qty":1}]`, id).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(id.String(), "7", []byte(`[{"itemId":"tea","name":"Tea","price":15,"qty":1}]`), 12.5, "", "completed", now, now))

	table := "7"
	items := []LineItem{{ItemID: "tea", Name: "Tea", Price: 15, Qty: 1}}
	o, err = repo.Update(context.Background(), id.String(), Patch{TableID: &table, Items: &items})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetInvalidID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgresRepository(db).GetByID(context.Background(), "64f0c0ffee")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
