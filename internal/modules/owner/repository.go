package owner

import "context"

// Repository defines the interface for owner account storage.
type Repository interface {
	Create(ctx context.Context, o *Owner) error
	GetByUsername(ctx context.Context, username string) (*Owner, error)
	Update(ctx context.Context, o *Owner) error
}
