package paymentqr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/google/uuid"
)

var (
	errNotFound    = apperr.NotFound("not found")
	errNoCurrentQR = apperr.NotFound("no payment QR found")
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectQR = `SELECT id,url,provider_meta,created_at,updated_at FROM payment_qrs`

func (r *postgresRepo) Create(ctx context.Context, qr *PaymentQR) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payment_qrs (id, url, provider_meta)
		VALUES ($1,$2,$3)
		RETURNING created_at, updated_at`,
		qr.ID, qr.URL, string(qr.ProviderMeta),
	).Scan(&qr.CreatedAt, &qr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment qr: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payment_qr_current (slot, qr_id) VALUES (1,$1)
		ON CONFLICT (slot) DO UPDATE SET qr_id = EXCLUDED.qr_id`, qr.ID)
	if err != nil {
		return fmt.Errorf("move current pointer: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQR(row rowScanner) (*PaymentQR, error) {
	qr := &PaymentQR{}
	var meta []byte
	if err := row.Scan(&qr.ID, &qr.URL, &meta, &qr.CreatedAt, &qr.UpdatedAt); err != nil {
		return nil, err
	}
	qr.ProviderMeta = meta
	return qr, nil
}

func (r *postgresRepo) Current(ctx context.Context) (*PaymentQR, error) {
	// The pointed-at row sorts first; without a pointer the newest row wins.
	qr, err := scanQR(r.db.QueryRowContext(ctx, selectQR+`
		ORDER BY (id = (SELECT qr_id FROM payment_qr_current WHERE slot=1)) IS TRUE DESC,
			created_at DESC, id DESC
		LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNoCurrentQR
	}
	if err != nil {
		return nil, fmt.Errorf("get current payment qr: %w", err)
	}
	return qr, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*PaymentQR, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errNotFound
	}
	qr, err := scanQR(r.db.QueryRowContext(ctx, selectQR+` WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment qr: %w", err)
	}
	return qr, nil
}

func (r *postgresRepo) Update(ctx context.Context, qr *PaymentQR) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE payment_qrs SET url=$1, provider_meta=$2, updated_at=NOW()
		WHERE id=$3
		RETURNING updated_at`,
		qr.URL, string(qr.ProviderMeta), qr.ID,
	).Scan(&qr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}
	if err != nil {
		return fmt.Errorf("update payment qr: %w", err)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_qrs WHERE id=$1`, uid)
	if err != nil {
		return fmt.Errorf("delete payment qr: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNotFound
	}
	return nil
}
