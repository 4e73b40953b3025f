package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Memory is an in-process Provider. It backs tests and local runs without
// provider credentials.
type Memory struct {
	mu        sync.Mutex
	seq       int
	assets    map[string][]byte
	destroyed []string

	// UploadErr and DestroyErr, when set, are returned by the matching call.
	UploadErr  error
	DestroyErr error
}

func NewMemory() *Memory {
	return &Memory{assets: make(map[string][]byte)}
}

func (m *Memory) Upload(ctx context.Context, folder string, r io.Reader) (*Asset, error) {
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("%s/asset_%d", folder, m.seq)
	m.assets[id] = data

	url := "https://media.local/" + id
	raw, _ := json.Marshal(map[string]any{"public_id": id, "secure_url": url, "bytes": len(data)})
	return &Asset{URL: url, PublicID: id, Raw: raw}, nil
}

func (m *Memory) Destroy(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = append(m.destroyed, publicID)
	if m.DestroyErr != nil {
		return m.DestroyErr
	}
	delete(m.assets, publicID)
	return nil
}

// Destroyed lists every id passed to Destroy, in call order.
func (m *Memory) Destroyed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.destroyed...)
}

// Stored reports how many assets are currently held.
func (m *Memory) Stored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assets)
}
