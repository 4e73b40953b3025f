package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/georgemunganga/canteen-backend/internal/config"
)

type cloudinaryProvider struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary builds a Cloudinary-backed Provider from CLOUDINARY_URL or
// the cloud name / key / secret triple.
func NewCloudinary(cfg config.CloudinaryConfig) (Provider, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &cloudinaryProvider{cld: cld}, nil
}

func (p *cloudinaryProvider) Upload(ctx context.Context, folder string, r io.Reader) (*Asset, error) {
	res, err := p.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}

	var raw json.RawMessage
	if res.Response != nil {
		raw, err = json.Marshal(res.Response)
	} else {
		raw, err = json.Marshal(res)
	}
	if err != nil {
		return nil, fmt.Errorf("encode provider response: %w", err)
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	return &Asset{URL: url, PublicID: res.PublicID, Raw: raw}, nil
}

func (p *cloudinaryProvider) Destroy(ctx context.Context, publicID string) error {
	res, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result != "ok" {
		return fmt.Errorf("destroy %s: %s", publicID, res.Result)
	}
	return nil
}
