package report

import "context"

// Repository reads the orders a report covers.
type Repository interface {
	// ListCompleted returns orders whose status is exactly "completed",
	// oldest first, within r.
	ListCompleted(ctx context.Context, r Range) ([]CompletedOrder, error)
}
