package paymentqr

import "context"

// Repository defines the interface for payment QR storage.
type Repository interface {
	// Create stores qr and makes it the current record.
	Create(ctx context.Context, qr *PaymentQR) error
	// Current returns the record named by the current pointer, falling back
	// to the newest record when the pointer is empty.
	Current(ctx context.Context) (*PaymentQR, error)
	GetByID(ctx context.Context, id string) (*PaymentQR, error)
	Update(ctx context.Context, qr *PaymentQR) error
	Delete(ctx context.Context, id string) error
}
