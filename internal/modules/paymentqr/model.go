package paymentqr

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PaymentQR is a payment QR image shown to customers at checkout.
type PaymentQR struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
	// ProviderMeta is the image host's upload response, kept for its public_id.
	ProviderMeta json.RawMessage `json:"providerMeta"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SaveRequest is the body of both create and replace.
type SaveRequest struct {
	URL          string          `json:"url"`
	ProviderMeta json.RawMessage `json:"providerMeta,omitempty"`
}
