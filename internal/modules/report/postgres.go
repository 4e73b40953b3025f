package report

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListCompleted(ctx context.Context, rg Range) ([]CompletedOrder, error) {
	query := `SELECT id,total,items,created_at FROM orders WHERE status='completed'`
	args := []interface{}{}
	if rg.From != nil {
		args = append(args, *rg.From)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if rg.To != nil {
		args = append(args, *rg.To)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completed orders: %w", err)
	}
	defer rows.Close()

	var orders []CompletedOrder
	for rows.Next() {
		var o CompletedOrder
		var items []byte
		if err := rows.Scan(&o.ID, &o.Total, &items, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan completed order: %w", err)
		}
		o.Items = items
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
