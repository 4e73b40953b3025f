package table

import "context"

// Repository defines the interface for table storage.
type Repository interface {
	Create(ctx context.Context, t *Table) error
	GetByID(ctx context.Context, id string) (*Table, error)
	// List returns tables newest first.
	List(ctx context.Context) ([]*Table, error)
	Numbers(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
