package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/google/uuid"
)

var errTableNotFound = apperr.NotFound("not found")

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, t *Table) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tables (id, number, link) VALUES ($1,$2,$3)
		RETURNING created_at, updated_at`,
		t.ID, t.Number, t.Link,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTable(row rowScanner) (*Table, error) {
	t := &Table{}
	if err := row.Scan(&t.ID, &t.Number, &t.Link, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Table, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errTableNotFound
	}
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT id,number,link,created_at,updated_at FROM tables WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	return t, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id,number,link,created_at,updated_at FROM tables ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := []*Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *postgresRepo) Numbers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT number FROM tables`)
	if err != nil {
		return nil, fmt.Errorf("list table numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan table number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errTableNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id=$1`, uid)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errTableNotFound
	}
	return nil
}
