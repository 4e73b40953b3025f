package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
)

// Asset is an image stored by the hosting provider.
type Asset struct {
	URL      string          `json:"url"`
	PublicID string          `json:"public_id"`
	Raw      json.RawMessage `json:"raw"`
}

// Provider is the provider-agnostic interface every image host adapter implements.
type Provider interface {
	// Upload stores the image under folder and returns its public URL and id.
	Upload(ctx context.Context, folder string, r io.Reader) (*Asset, error)
	// Destroy removes a previously uploaded asset.
	Destroy(ctx context.Context, publicID string) error
}

// ErrNotConfigured is returned by the provider used when no credentials are set.
var ErrNotConfigured = errors.New("image provider is not configured")

type unconfigured struct{}

// Unconfigured returns a Provider whose calls always fail with ErrNotConfigured.
func Unconfigured() Provider { return unconfigured{} }

func (unconfigured) Upload(context.Context, string, io.Reader) (*Asset, error) {
	return nil, ErrNotConfigured
}

func (unconfigured) Destroy(context.Context, string) error { return ErrNotConfigured }

// PublicIDFromMeta extracts the provider asset id from stored provider metadata.
func PublicIDFromMeta(meta json.RawMessage) string {
	if len(meta) == 0 {
		return ""
	}
	var m struct {
		PublicID string `json:"public_id"`
	}
	if err := json.Unmarshal(meta, &m); err != nil {
		return ""
	}
	return m.PublicID
}
