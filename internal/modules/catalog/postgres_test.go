package catalog

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

var itemColumns = []string{"id", "name", "price", "description", "image_url", "available", "created_at", "updated_at"}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	it := &Item{ID: uuid.New(), Name: "Tea", Price: 15, Available: true}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items")).
		WithArgs(it.ID, "Tea", 15.0, "", nil, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, NewPostgresRepository(db).Create(context.Background(), it))
	assert.Equal(t, now, it.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListAvailableOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(itemColumns).
		AddRow(uuid.NewString(), "Tea", 15.0, "", nil, true, now, now).
		AddRow(uuid.NewString(), "Vada", 20.0, "crispy", "https://img/vada.png", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM items WHERE available=true ORDER BY created_at DESC")).WillReturnRows(rows)

	items, err := NewPostgresRepository(db).List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].ImageURL)
	require.NotNil(t, items[1].ImageURL)
	assert.Equal(t, "https://img/vada.png", *items[1].ImageURL)
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	id := uuid.New()
	mock.ExpectQuery("FROM items WHERE id").WithArgs(id).WillReturnRows(sqlmock.NewRows(itemColumns))
	_, err = repo.GetByID(context.Background(), id.String())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPostgresDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	id := uuid.New()
	mock.ExpectExec("DELETE FROM items").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), id.String()))

	mock.ExpectExec("DELETE FROM items").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, apperr.Is(repo.Delete(context.Background(), id.String()), apperr.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
