// Package store persists tenants, clients and orders. Every client and order
// operation is scoped by the tenant id passed by the caller; records owned by
// another tenant behave exactly like missing ones.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suteetoe/cakeorders/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store groups the tenant, client and order stores over one database handle
type Store struct {
	db  *gorm.DB
	now func() time.Time
	log *zap.Logger

	Tenants *TenantStore
	Clients *ClientStore
	Orders  *OrderStore
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for created/paid/delivered timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for bootstrap notices.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New builds a Store on top of an open gorm connection
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Tenants = &TenantStore{db: db, now: s.now}
	s.Clients = &ClientStore{db: db, now: s.now}
	s.Orders = &OrderStore{db: db, now: s.now}
	return s
}

// Migrate creates or updates the tenants, clients and orders tables
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.Tenant{}, &model.Client{}, &model.Order{}); err != nil {
		return storageError("migrate", err)
	}
	return nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// optional trims s and turns blank input into nil
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
