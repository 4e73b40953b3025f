package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
)

// Service defines menu item business logic.
type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	// ListItems returns the customer menu when availableOnly is set, otherwise every item.
	ListItems(ctx context.Context, availableOnly bool) ([]*Item, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log.WithComponent("catalog_service")}
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || isAbsent(req.Price) {
		return nil, apperr.Validation("name and price are required")
	}
	price, err := ParsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	it := &Item{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		Description: req.Description,
		ImageURL:    pickImage(req.ImageURL, req.Image),
		Available:   available,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	s.log.Info("item created", "item_id", it.ID, "name", it.Name, "price", it.Price)
	return it, nil
}

func (s *service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListItems(ctx context.Context, availableOnly bool) ([]*Item, error) {
	return s.repo.List(ctx, availableOnly)
}

func (s *service) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAbsent(req.Price) {
		price, err := ParsePrice(req.Price)
		if err != nil {
			return nil, apperr.Validation("invalid price")
		}
		it.Price = price
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		it.Name = name
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if img := pickImage(req.ImageURL, req.Image); img != nil {
		if *img == "" {
			it.ImageURL = nil
		} else {
			it.ImageURL = img
		}
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	s.log.Info("item updated", "item_id", it.ID, "available", it.Available)
	return it, nil
}

func (s *service) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("item deleted", "item_id", id)
	return nil
}

// ParsePrice coerces a JSON number or numeric string into a non-negative price.
func ParsePrice(raw json.RawMessage) (float64, error) {
	var v float64
	var s string
	switch {
	case json.Unmarshal(raw, &v) == nil:
	case json.Unmarshal(raw, &s) == nil:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, apperr.Validation("price must be a non-negative number")
		}
		v = parsed
	default:
		return 0, apperr.Validation("price must be a non-negative number")
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.Validation("price must be a non-negative number")
	}
	return v, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func pickImage(primary, legacy *string) *string {
	if primary != nil {
		return primary
	}
	return legacy
}
