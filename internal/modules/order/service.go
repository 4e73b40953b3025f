package order

import (
	"context"
	"io"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/events"
	"github.com/georgemunganga/canteen-backend/internal/modules/media"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceLookup resolves live catalog data for a menu item. A missing item
// reports available=false without an error.
type PriceLookup interface {
	ItemPrice(ctx context.Context, id string) (name string, price float64, available bool, err error)
}

// Uploader stores the payment screenshot with the image host.
type Uploader interface {
	Upload(ctx context.Context, folder string, r io.Reader, limit int64) (*media.Asset, error)
}

// Options tunes order creation.
type Options struct {
	RequireScreenshot  bool
	RecomputeTotal     bool
	ScreenshotFolder   string
	ScreenshotMaxBytes int64
}

// CreateOrderInput is a checkout request. Screenshot is nil when no file was sent.
type CreateOrderInput struct {
	TableID    string
	Items      []LineItem
	Total      float64
	Screenshot io.Reader
}

// Service defines the order lifecycle.
type Service interface {
	// CreateOrder uploads the screenshot, then stores a pending order.
	CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]*Order, error)
	// UpdateOrder applies an owner patch; an empty patch is rejected.
	UpdateOrder(ctx context.Context, id string, p Patch) (*Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	prices    PriceLookup
	uploader  Uploader
	publisher events.Publisher
	opts      Options
	log       *logger.Logger
}

func NewService(repo Repository, prices PriceLookup, uploader Uploader, publisher events.Publisher, opts Options, log *logger.Logger) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:      repo,
		prices:    prices,
		uploader:  uploader,
		publisher: publisher,
		opts:      opts,
		log:       log.WithComponent("order_service"),
	}
}

func (s *service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	if in.Screenshot == nil && s.opts.RequireScreenshot {
		return nil, apperr.Validation("payment screenshot is required")
	}

	items := append([]LineItem(nil), in.Items...)
	total := in.Total
	if s.opts.RecomputeTotal {
		var err error
		if total, err = s.reprice(ctx, items); err != nil {
			return nil, err
		}
	} else if !validAmount(total) {
		return nil, apperr.Validation("total must be a non-negative number")
	}

	// ── Upload first; the store write only follows a successful upload ──────
	var asset *media.Asset
	if in.Screenshot != nil {
		var err error
		asset, err = s.uploader.Upload(ctx, s.opts.ScreenshotFolder, in.Screenshot, s.opts.ScreenshotMaxBytes)
		if err != nil {
			return nil, err
		}
	}

	o := &Order{
		ID:      uuid.New(),
		TableID: strings.TrimSpace(in.TableID),
		Items:   items,
		Total:   total,
		Status:  StatusPending,
	}
	if asset != nil {
		o.ScreenshotURL = asset.URL
	}

	if err := s.repo.Create(ctx, o); err != nil {
		if asset != nil {
			s.log.Error("order not stored after screenshot upload", "public_id", asset.PublicID, "error", err)
		}
		return nil, err
	}

	s.log.Info("order created", "order_id", o.ID, "table_id", o.TableID, "items", len(o.Items), "total", o.Total)
	s.publish(ctx, events.OrderCreated, o.ID.String(), o)
	return o, nil
}

// reprice refreshes each line from the catalog and returns the server total.
func (s *service) reprice(ctx context.Context, items []LineItem) (float64, error) {
	total := decimal.Zero
	for i := range items {
		name, price, available, err := s.prices.ItemPrice(ctx, items[i].ItemID)
		if err != nil {
			return 0, err
		}
		if !available {
			return 0, apperr.Validation("item %s is not available", items[i].ItemID)
		}
		items[i].Name = name
		items[i].Price = price
		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(items[i].Qty))))
	}
	return total.Round(2).InexactFloat64(), nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, f ListFilter) ([]*Order, error) {
	f.Limit = ClampLimit(f.Limit)
	return s.repo.List(ctx, f)
}

func (s *service) UpdateOrder(ctx context.Context, id string, p Patch) (*Order, error) {
	if p.Empty() {
		return nil, apperr.Validation("No updatable fields provided")
	}
	if p.Items != nil {
		if err := validateItems(*p.Items); err != nil {
			return nil, err
		}
	}
	if p.Total != nil && !validAmount(*p.Total) {
		return nil, apperr.Validation("total must be a non-negative number")
	}
	if p.TableID != nil {
		trimmed := strings.TrimSpace(*p.TableID)
		p.TableID = &trimmed
	}

	o, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.log.Info("order updated", "order_id", o.ID, "status", o.Status)
	s.publish(ctx, events.OrderUpdated, o.ID.String(), o)
	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", "order_id", id)
	s.publish(ctx, events.OrderDeleted, id, nil)
	return nil
}

func (s *service) publish(ctx context.Context, typ events.Type, id string, o *Order) {
	ev := events.Event{Type: typ, OrderID: id}
	if o != nil {
		ev.Status = string(o.Status)
		ev.Order = o
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("order event not published", "type", typ, "order_id", id, "error", err)
	}
}

func validateItems(items []LineItem) error {
	if len(items) == 0 {
		return apperr.Validation("order must contain at least one item")
	}
	for _, it := range items {
		if strings.TrimSpace(it.ItemID) == "" {
			return apperr.Validation("every item needs an itemId")
		}
		if it.Qty <= 0 {
			return apperr.Validation("quantity must be > 0 for item %s", it.ItemID)
		}
		if !validAmount(it.Price) {
			return apperr.Validation("price must be a non-negative number for item %s", it.ItemID)
		}
	}
	return nil
}
