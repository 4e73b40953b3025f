package paymentqr

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/modules/media"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
)

// AssetCleaner removes provider assets without blocking the caller.
type AssetCleaner interface {
	Schedule(publicID, reason string)
}

// Service defines payment QR business logic.
type Service interface {
	Current(ctx context.Context) (*PaymentQR, error)
	Create(ctx context.Context, req SaveRequest) (*PaymentQR, error)
	Replace(ctx context.Context, id string, req SaveRequest) (*PaymentQR, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	cleaner AssetCleaner
	log     *logger.Logger
}

func NewService(repo Repository, cleaner AssetCleaner, log *logger.Logger) Service {
	return &service{repo: repo, cleaner: cleaner, log: log.WithComponent("paymentqr_service")}
}

func (s *service) Current(ctx context.Context) (*PaymentQR, error) {
	return s.repo.Current(ctx)
}

func (s *service) Create(ctx context.Context, req SaveRequest) (*PaymentQR, error) {
	url, err := requireURL(req.URL)
	if err != nil {
		return nil, err
	}
	qr := &PaymentQR{ID: uuid.New(), URL: url, ProviderMeta: normalizeMeta(req.ProviderMeta)}
	if err := s.repo.Create(ctx, qr); err != nil {
		return nil, err
	}
	s.log.Info("payment qr created", "qr_id", qr.ID, "public_id", media.PublicIDFromMeta(qr.ProviderMeta))
	return qr, nil
}

func (s *service) Replace(ctx context.Context, id string, req SaveRequest) (*PaymentQR, error) {
	url, err := requireURL(req.URL)
	if err != nil {
		return nil, err
	}
	qr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldAsset := media.PublicIDFromMeta(qr.ProviderMeta)
	qr.URL = url
	qr.ProviderMeta = normalizeMeta(req.ProviderMeta)
	newAsset := media.PublicIDFromMeta(qr.ProviderMeta)

	if err := s.repo.Update(ctx, qr); err != nil {
		return nil, err
	}
	if oldAsset != "" && oldAsset != newAsset {
		s.cleaner.Schedule(oldAsset, "payment qr replaced")
	}
	s.log.Info("payment qr replaced", "qr_id", qr.ID, "old_public_id", oldAsset, "public_id", newAsset)
	return qr, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	qr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cleaner.Schedule(media.PublicIDFromMeta(qr.ProviderMeta), "payment qr deleted")
	s.log.Info("payment qr deleted", "qr_id", qr.ID)
	return nil
}

func requireURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", apperr.Validation("url is required")
	}
	return url, nil
}

func normalizeMeta(meta json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(meta)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(`{}`)
	}
	return trimmed
}
