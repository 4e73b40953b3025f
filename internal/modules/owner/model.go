package owner

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultUsername is the account login and update act on.
const DefaultUsername = "owner"

// Owner is the canteen owner's account.
type Owner struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Age          *int      `json:"age,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateOwnerRequest creates the account. Age here and in the other
// requests accepts a JSON number or a numeric string.
type CreateOwnerRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Age      json.RawMessage `json:"age,omitempty"`
}

type LoginRequest struct {
	Age      json.RawMessage `json:"age,omitempty"`
	Password string          `json:"password"`
}

type UpdateOwnerRequest struct {
	Age      json.RawMessage `json:"age,omitempty"`
	Password string          `json:"password,omitempty"`
}
