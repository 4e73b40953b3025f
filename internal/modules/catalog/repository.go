package catalog

import "context"

// Repository defines the interface for menu item storage.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	// List returns items newest first; availableOnly hides unavailable items.
	List(ctx context.Context, availableOnly bool) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}
