package table

import (
	"time"

	"github.com/google/uuid"
)

// Table is a physical table customers order from.
type Table struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
	// Link is an optional custom redirect; "{table}" is replaced with Number.
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View is a table with its computed ordering link and QR image URL.
type View struct {
	*Table
	Outgoing string `json:"outgoing"`
	QR       string `json:"qr"`
}

// CreateTableRequest accepts number as a JSON string or number.
type CreateTableRequest struct {
	Number interface{} `json:"number"`
	Link   string      `json:"link"`
}
