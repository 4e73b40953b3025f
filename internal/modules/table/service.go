package table

import (
	"context"
	"strconv"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
)

// Service defines table business logic.
type Service interface {
	// CreateTable stores a table. With auto set, a missing number is assigned.
	CreateTable(ctx context.Context, req CreateTableRequest, auto bool) (*View, error)
	GetTable(ctx context.Context, id string) (*View, error)
	ListTables(ctx context.Context) ([]*View, error)
	NextNumber(ctx context.Context) (string, error)
	DeleteTable(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	baseURL    string
	qrTemplate string
	log        *logger.Logger
}

func NewService(repo Repository, baseURL, qrTemplate string, log *logger.Logger) Service {
	return &service{
		repo:       repo,
		baseURL:    baseURL,
		qrTemplate: qrTemplate,
		log:        log.WithComponent("table_service"),
	}
}

func (s *service) CreateTable(ctx context.Context, req CreateTableRequest, auto bool) (*View, error) {
	number, ok := numberString(req.Number)
	if !ok {
		return nil, apperr.Validation("table number must be a string or number")
	}
	if number == "" {
		if !auto {
			return nil, apperr.Validation("Table number required")
		}
		next, err := s.NextNumber(ctx)
		if err != nil {
			return nil, err
		}
		number = next
	}

	t := &Table{ID: uuid.New(), Number: number, Link: strings.TrimSpace(req.Link)}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("table created", "table_id", t.ID, "number", t.Number)
	return s.view(t), nil
}

func (s *service) GetTable(ctx context.Context, id string) (*View, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(t), nil
}

func (s *service) ListTables(ctx context.Context) ([]*View, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*View, 0, len(tables))
	for _, t := range tables {
		views = append(views, s.view(t))
	}
	return views, nil
}

func (s *service) NextNumber(ctx context.Context) (string, error) {
	numbers, err := s.repo.Numbers(ctx)
	if err != nil {
		return "", err
	}
	return NextNumber(numbers), nil
}

func (s *service) DeleteTable(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("table deleted", "table_id", id)
	return nil
}

func (s *service) view(t *Table) *View {
	outgoing := Link(t.Link, t.Number, s.baseURL)
	return &View{Table: t, Outgoing: outgoing, QR: QRImageURL(s.qrTemplate, outgoing)}
}

func numberString(v interface{}) (string, bool) {
	switch n := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(n), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
}
