package owner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/database"
)

var (
	errOwnerNotFound = apperr.NotFound("Owner not found")
	errOwnerExists   = apperr.Conflict("Owner already exists")
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, o *Owner) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO owners (id, username, password_hash, age)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		o.ID, o.Username, o.PasswordHash, nullableAge(o.Age),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return errOwnerExists
	}
	if err != nil {
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*Owner, error) {
	o := &Owner{}
	var age sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id,username,password_hash,age,created_at,updated_at
		FROM owners WHERE username=$1`, username,
	).Scan(&o.ID, &o.Username, &o.PasswordHash, &age, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if age.Valid {
		v := int(age.Int64)
		o.Age = &v
	}
	return o, nil
}

func (r *postgresRepo) Update(ctx context.Context, o *Owner) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE owners SET password_hash=$1, age=$2, updated_at=NOW()
		WHERE id=$3
		RETURNING updated_at`,
		o.PasswordHash, nullableAge(o.Age), o.ID,
	).Scan(&o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errOwnerNotFound
	}
	if err != nil {
		return fmt.Errorf("update owner: %w", err)
	}
	return nil
}

func nullableAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}
