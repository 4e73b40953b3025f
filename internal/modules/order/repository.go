package order

import "context"

// Repository defines the interface for order storage.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// List returns orders newest first, at most f.Limit of them.
	List(ctx context.Context, f ListFilter) ([]*Order, error)
	// Update writes only the fields set in p and returns the stored order.
	Update(ctx context.Context, id string, p Patch) (*Order, error)
	Delete(ctx context.Context, id string) error
}
