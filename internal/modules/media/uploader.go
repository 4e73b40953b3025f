package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
)

// Uploader forwards size-limited blobs to the Provider.
type Uploader struct {
	provider Provider
	log      *logger.Logger
}

func NewUploader(provider Provider, log *logger.Logger) *Uploader {
	return &Uploader{provider: provider, log: log.WithComponent("media_uploader")}
}

// Upload reads at most limit bytes from r and stores them under folder.
// Larger blobs are rejected, never truncated.
func (u *Uploader) Upload(ctx context.Context, folder string, r io.Reader, limit int64) (*Asset, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, apperr.TooLarge("file too large (max %d bytes)", limit)
	}
	if len(data) == 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}

	asset, err := u.provider.Upload(ctx, folder, bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Upstream("upload failed", err)
	}
	u.log.Info("asset uploaded", "folder", folder, "public_id", asset.PublicID, "bytes", len(data))
	return asset, nil
}

// multipartOverhead is the slack allowed on top of the file limit for the
// other form fields and part headers.
const multipartOverhead = 1 << 20

// ParseForm parses a multipart request whose file part may be up to limit bytes.
func ParseForm(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.TooLarge("file too large (max %d bytes)", limit)
		}
		return apperr.Validation("invalid multipart form")
	}
	return nil
}

// FormFile returns the first file found under any of the given field names,
// or http.ErrMissingFile.
func FormFile(r *http.Request, fields ...string) (multipart.File, *multipart.FileHeader, error) {
	for _, f := range fields {
		file, hdr, err := r.FormFile(f)
		if err == nil {
			return file, hdr, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, nil, err
		}
	}
	return nil, nil, http.ErrMissingFile
}
