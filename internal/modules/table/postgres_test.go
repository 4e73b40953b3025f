package table

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresListAndNumbers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT id,number,link,created_at,updated_at FROM tables ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "link", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), "5", "", now, now).
			AddRow(uuid.NewString(), "2", "/vip", now.Add(-time.Hour), now))

	tables, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "/vip", tables[1].Link)

	mock.ExpectQuery("SELECT number FROM tables").
		WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow("5").AddRow("abc"))
	numbers, err := repo.Numbers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "abc"}, numbers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetInvalidID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgresRepository(db).GetByID(context.Background(), "12")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
