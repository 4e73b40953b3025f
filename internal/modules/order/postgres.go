package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/google/uuid"
)

var errOrderNotFound = apperr.NotFound("Order not found")

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const (
	orderColumns = `id,table_id,items,total,screenshot_url,status,created_at,updated_at`
	selectOrder  = `SELECT ` + orderColumns + ` FROM orders`
)

func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO orders (id, table_id, items, total, screenshot_url, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		o.ID, o.TableID, string(items), o.Total, o.ScreenshotURL, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	var items []byte
	if err := row.Scan(&o.ID, &o.TableID, &items, &o.Total, &o.ScreenshotURL,
		&o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if o.Items == nil {
		o.Items = []LineItem{}
	}
	return o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errOrderNotFound
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	query := selectOrder
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += ` WHERE status=$1`
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, id string, p Patch) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errOrderNotFound
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if p.Status != nil {
		set("status", *p.Status)
	}
	if p.TableID != nil {
		set("table_id", *p.TableID)
	}
	if p.Total != nil {
		set("total", *p.Total)
	}
	if p.Items != nil {
		items, err := json.Marshal(*p.Items)
		if err != nil {
			return nil, fmt.Errorf("encode order items: %w", err)
		}
		set("items", string(items))
	}
	if p.ScreenshotURL != nil {
		set("screenshot_url", *p.ScreenshotURL)
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, uid)

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), orderColumns)
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errOrderNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, uid)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errOrderNotFound
	}
	return nil
}
