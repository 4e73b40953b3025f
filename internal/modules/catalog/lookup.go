package catalog

import (
	"context"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
)

// Lookup answers live price and availability queries for order placement.
type Lookup struct{ repo Repository }

func NewLookup(repo Repository) *Lookup { return &Lookup{repo: repo} }

// ItemPrice returns the current name, price and availability of an item.
// An unknown id reports available=false with no error.
func (l *Lookup) ItemPrice(ctx context.Context, id string) (name string, price float64, available bool, err error) {
	it, err := l.repo.GetByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return it.Name, it.Price, it.Available, nil
}
