package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item is a menu entry offered to customers.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateItemRequest is the payload for adding a menu item. Price accepts a
// JSON number or a numeric string. Image is the legacy name of ImageURL.
type CreateItemRequest struct {
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"imageUrl"`
	Image       *string         `json:"image"`
	Available   *bool           `json:"available"`
}

// UpdateItemRequest is a partial update; nil fields are left unchanged.
type UpdateItemRequest struct {
	Name        *string         `json:"name"`
	Price       json.RawMessage `json:"price"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl"`
	Image       *string         `json:"image"`
	Available   *bool           `json:"available"`
}
