package owner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service defines owner account logic.
type Service interface {
	Create(ctx context.Context, req CreateOwnerRequest) (*Owner, error)
	// Login checks age (when the account has one) and password, and
	// returns a session token.
	Login(ctx context.Context, req LoginRequest) (string, error)
	Update(ctx context.Context, req UpdateOwnerRequest) (*Owner, error)
	// Info returns the account, or nil when none exists yet.
	Info(ctx context.Context) (*Owner, error)
}

type service struct {
	repo   Repository
	tokens *Tokens
	log    *logger.Logger
}

func NewService(repo Repository, tokens *Tokens, log *logger.Logger) Service {
	return &service{repo: repo, tokens: tokens, log: log.WithComponent("owner_service")}
}

func (s *service) Create(ctx context.Context, req CreateOwnerRequest) (*Owner, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = DefaultUsername
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, errOwnerExists
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	if req.Password == "" {
		return nil, apperr.Validation("password is required")
	}
	age, err := parseAge(req.Age)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	o := &Owner{ID: uuid.New(), Username: username, PasswordHash: string(hashed), Age: age}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("owner account created", "owner_id", o.ID, "username", o.Username)
	return o, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (string, error) {
	o, err := s.repo.GetByUsername(ctx, DefaultUsername)
	if err != nil {
		return "", err
	}
	if o.Age != nil {
		age, err := parseAge(req.Age)
		if err != nil || age == nil || *age != *o.Age {
			return "", apperr.Unauthorized("Age does not match")
		}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", apperr.Unauthorized("Incorrect password")
		}
		return "", err
	}

	token, err := s.tokens.Issue(o)
	if err != nil {
		return "", err
	}
	s.log.Info("owner logged in", "owner_id", o.ID)
	return token, nil
}

func (s *service) Update(ctx context.Context, req UpdateOwnerRequest) (*Owner, error) {
	o, err := s.repo.GetByUsername(ctx, DefaultUsername)
	if err != nil {
		return nil, err
	}
	age, err := parseAge(req.Age)
	if err != nil {
		return nil, err
	}
	if age != nil {
		o.Age = age
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		o.PasswordHash = string(hashed)
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("owner account updated", "owner_id", o.ID, "password_changed", req.Password != "")
	return o, nil
}

func (s *service) Info(ctx context.Context) (*Owner, error) {
	o, err := s.repo.GetByUsername(ctx, DefaultUsername)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	return o, err
}

// parseAge returns nil for an absent, null or empty age.
func parseAge(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return nil, apperr.Validation("age must be a non-negative whole number")
	}
	return &v, nil
}
