package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suteetoe/cakeorders/internal/model"
	"github.com/suteetoe/cakeorders/prometheus"
	"gorm.io/gorm"
)

// NewTenant carries the fields accepted when creating a tenant
type NewTenant struct {
	Username     string
	PasswordHash string
	BakeryName   *string
	Email        *string
	IsSuperuser  bool
}

// TenantStore manages bakery accounts
type TenantStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Create inserts a tenant and returns its id.
// Returns ErrDuplicateUsername when the username is already taken.
func (s *TenantStore) Create(ctx context.Context, in NewTenant) (uint, error) {
	defer prometheus.TrackDBOperation("tenants.create")()

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return 0, newValidationError("username", "username is required")
	}
	if in.PasswordHash == "" {
		return 0, newValidationError("password", "password hash is required")
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Tenant{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return 0, storageError("tenants.create", err)
	}
	if count > 0 {
		return 0, ErrDuplicateUsername
	}

	tenant := model.Tenant{
		Username:     username,
		PasswordHash: in.PasswordHash,
		BakeryName:   optional(in.BakeryName),
		Email:        optional(in.Email),
		IsSuperuser:  in.IsSuperuser,
		CreatedAt:    s.now(),
	}
	if err := db.Create(&tenant).Error; err != nil {
		// lost a race against a concurrent insert of the same username
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateUsername
		}
		return 0, storageError("tenants.create", err)
	}
	return tenant.ID, nil
}

// GetByUsername returns the tenant with the given username or ErrNotFound
func (s *TenantStore) GetByUsername(ctx context.Context, username string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("tenants.get")()

	var tenant model.Tenant
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&tenant).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("tenants.get_by_username", err)
	}
	return &tenant, nil
}

// GetByID returns the tenant with the given id or ErrNotFound
func (s *TenantStore) GetByID(ctx context.Context, id uint) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("tenants.get")()

	var tenant model.Tenant
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("tenants.get_by_id", err)
	}
	return &tenant, nil
}

// List returns all tenants, most recently created first
func (s *TenantStore) List(ctx context.Context) ([]model.Tenant, error) {
	defer prometheus.TrackDBOperation("tenants.list")()

	tenants := []model.Tenant{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&tenants).Error; err != nil {
		return nil, storageError("tenants.list", err)
	}
	return tenants, nil
}

// UpdatePassword overwrites the stored password hash. Repeating the call is harmless.
func (s *TenantStore) UpdatePassword(ctx context.Context, id uint, newHash string) error {
	defer prometheus.TrackDBOperation("tenants.update_password")()

	if newHash == "" {
		return newValidationError("password", "password hash is required")
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&model.Tenant{}).Where("id = ?", id).Update("password_hash", newHash)
	if result.Error != nil {
		return storageError("tenants.update_password", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// some drivers report zero affected rows when the value did not change
	var count int64
	if err := db.Model(&model.Tenant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return storageError("tenants.update_password", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of tenants
func (s *TenantStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Tenant{}).Count(&count).Error; err != nil {
		return 0, storageError("tenants.count", err)
	}
	return count, nil
}
