package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadWithinLimit(t *testing.T) {
	mem := NewMemory()
	u := NewUploader(mem, logger.Discard())

	asset, err := u.Upload(context.Background(), "canteen_items", strings.NewReader("png-bytes"), 16)
	require.NoError(t, err)
	assert.Equal(t, "canteen_items/asset_1", asset.PublicID)
	assert.Contains(t, asset.URL, "canteen_items/asset_1")
	assert.Equal(t, asset.PublicID, PublicIDFromMeta(asset.Raw))
	assert.Equal(t, 1, mem.Stored())
}

func TestUploadRejectsOversize(t *testing.T) {
	mem := NewMemory()
	u := NewUploader(mem, logger.Discard())

	_, err := u.Upload(context.Background(), "canteen_items", strings.NewReader(strings.Repeat("x", 17)), 16)
	assert.True(t, apperr.Is(err, apperr.KindTooLarge))
	assert.Zero(t, mem.Stored())

	_, err = u.Upload(context.Background(), "canteen_items", strings.NewReader(strings.Repeat("x", 16)), 16)
	assert.NoError(t, err)
}

func TestUploadEmpty(t *testing.T) {
	u := NewUploader(NewMemory(), logger.Discard())
	_, err := u.Upload(context.Background(), "f", strings.NewReader(""), 16)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUploadProviderFailure(t *testing.T) {
	mem := NewMemory()
	mem.UploadErr = errors.New("invalid signature")
	u := NewUploader(mem, logger.Discard())

	_, err := u.Upload(context.Background(), "f", strings.NewReader("data"), 16)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Equal(t, "upload failed", apperr.Message(err))
	assert.ErrorIs(t, err, mem.UploadErr)
}

func TestUnconfiguredProvider(t *testing.T) {
	u := NewUploader(Unconfigured(), logger.Discard())
	_, err := u.Upload(context.Background(), "f", strings.NewReader("data"), 16)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPublicIDFromMeta(t *testing.T) {
	assert.Equal(t, "canteen_orders/x", PublicIDFromMeta([]byte(`{"public_id":"canteen_orders/x","bytes":3}`)))
	assert.Empty(t, PublicIDFromMeta(nil))
	assert.Empty(t, PublicIDFromMeta([]byte(`not json`)))
	assert.Empty(t, PublicIDFromMeta([]byte(`{"url":"u"}`)))
}
