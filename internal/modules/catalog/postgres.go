package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/google/uuid"
)

var errItemNotFound = apperr.NotFound("item not found")

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectItem = `SELECT id,name,price,description,image_url,available,created_at,updated_at FROM items`

func (r *postgresRepo) Create(ctx context.Context, it *Item) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO items (id, name, price, description, image_url, available)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		it.ID, it.Name, it.Price, it.Description, it.ImageURL, it.Available,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*Item, error) {
	it := &Item{}
	var image sql.NullString
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Description, &image,
		&it.Available, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	if image.Valid {
		it.ImageURL = &image.String
	}
	return it, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errItemNotFound
	}
	it, err := scanItem(r.db.QueryRowContext(ctx, selectItem+` WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (r *postgresRepo) List(ctx context.Context, availableOnly bool) ([]*Item, error) {
	query := selectItem
	if availableOnly {
		query += ` WHERE available=true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, it *Item) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE items
		SET name=$1, price=$2, description=$3, image_url=$4, available=$5, updated_at=NOW()
		WHERE id=$6
		RETURNING updated_at`,
		it.Name, it.Price, it.Description, it.ImageURL, it.Available, it.ID,
	).Scan(&it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errItemNotFound
	}
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errItemNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id=$1`, uid)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errItemNotFound
	}
	return nil
}
