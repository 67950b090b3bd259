// Package auth verifies tenant credentials and manages password changes.
package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/suteetoe/cakeorders/internal/model"
	"github.com/suteetoe/cakeorders/internal/store"
	"github.com/suteetoe/cakeorders/prometheus"
	"go.uber.org/zap"
)

// MinPasswordLength is the shortest password ChangePassword accepts
const MinPasswordLength = 6

// ErrInvalidCredentials is returned for an unknown username and for a wrong password alike
var ErrInvalidCredentials = errors.New("invalid username or password")

// TenantRepository is the part of the tenant store the service needs
type TenantRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Tenant, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Create(ctx context.Context, in store.NewTenant) (uint, error)
}

// Service authenticates tenants against the tenant store
type Service struct {
	tenants TenantRepository
	hasher  Hasher
	log     *zap.Logger
}

// NewService creates an auth service; a nil logger disables logging
func NewService(tenants TenantRepository, hasher Hasher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{tenants: tenants, hasher: hasher, log: log}
}

// Hasher returns the hasher the service verifies with
func (s *Service) Hasher() Hasher {
	return s.hasher
}

// Authenticate checks username and password and returns the matching tenant
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.Tenant, error) {
	prometheus.LoginCounter.Inc()

	tenant, err := s.tenants.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			prometheus.RecordAuthError("invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, tenant.PasswordHash) {
		prometheus.RecordAuthError("invalid_credentials")
		s.log.Debug("Password mismatch", zap.Uint("tenant_id", tenant.ID))
		return nil, ErrInvalidCredentials
	}
	return tenant, nil
}

// Identity builds the request identity for an authenticated tenant
func (s *Service) Identity(t *model.Tenant) Identity {
	return Identity{TenantID: t.ID, Username: t.Username, IsSuperuser: t.IsSuperuser}
}

// ChangePassword replaces the password of tenantID after checking length and confirmation
func (s *Service) ChangePassword(ctx context.Context, tenantID uint, password, confirm string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &store.ValidationError{Field: "password", Message: "password must have at least 6 characters"}
	}
	if password != confirm {
		return &store.ValidationError{Field: "confirm", Message: "passwords do not match"}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.tenants.UpdatePassword(ctx, tenantID, hash); err != nil {
		return err
	}
	s.log.Info("Password changed", zap.Uint("tenant_id", tenantID))
	return nil
}

// CreateTenant hashes password and stores a new tenant
func (s *Service) CreateTenant(ctx context.Context, in NewTenantAccount) (uint, error) {
	if strings.TrimSpace(in.Password) == "" {
		return 0, &store.ValidationError{Field: "password", Message: "password is required"}
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, err
	}
	return s.tenants.Create(ctx, store.NewTenant{
		Username:     in.Username,
		PasswordHash: hash,
		BakeryName:   in.BakeryName,
		Email:        in.Email,
		IsSuperuser:  in.IsSuperuser,
	})
}

// NewTenantAccount is a tenant to create from a plain password
type NewTenantAccount struct {
	Username    string
	Password    string
	BakeryName  *string
	Email       *string
	IsSuperuser bool
}
