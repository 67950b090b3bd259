package store

import (
	"context"
	"strings"
	"time"

	"github.com/suteetoe/cakeorders/internal/model"
	"github.com/suteetoe/cakeorders/prometheus"
	"gorm.io/gorm"
)

// NewClient carries the fields accepted when creating a client
type NewClient struct {
	Name  string
	Phone *string
	Notes *string
}

// ClientStore manages the clients of each tenant
type ClientStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Create registers a client for tenantID and returns its id
func (s *ClientStore) Create(ctx context.Context, tenantID uint, in NewClient) (uint, error) {
	defer prometheus.TrackDBOperation("clients.create")()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return 0, newValidationError("name", "name is required")
	}

	client := model.Client{
		TenantID:  tenantID,
		Name:      name,
		Phone:     optional(in.Phone),
		Notes:     optional(in.Notes),
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return 0, storageError("clients.create", err)
	}
	return client.ID, nil
}

// List returns the tenant's clients ordered by name
func (s *ClientStore) List(ctx context.Context, tenantID uint) ([]model.Client, error) {
	defer prometheus.TrackDBOperation("clients.list")()

	clients := []model.Client{}
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC, id ASC").
		Find(&clients).Error
	if err != nil {
		return nil, storageError("clients.list", err)
	}
	return clients, nil
}

// Get returns a single client of the tenant or ErrNotFound
func (s *ClientStore) Get(ctx context.Context, tenantID, clientID uint) (*model.Client, error) {
	defer prometheus.TrackDBOperation("clients.get")()

	var client model.Client
	err := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, clientID).First(&client).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("clients.get", err)
	}
	return &client, nil
}

// Delete removes the client and all of its orders in one transaction.
// Nothing is removed when any step fails.
func (s *ClientStore) Delete(ctx context.Context, tenantID, clientID uint) error {
	defer prometheus.TrackDBOperation("clients.delete")()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return storageError("clients.delete", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var count int64
	if err := tx.Model(&model.Client{}).Where("tenant_id = ? AND id = ?", tenantID, clientID).Count(&count).Error; err != nil {
		tx.Rollback()
		return storageError("clients.delete", err)
	}
	if count == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Where("tenant_id = ? AND client_id = ?", tenantID, clientID).Delete(&model.Order{}).Error; err != nil {
		tx.Rollback()
		return storageError("clients.delete_orders", err)
	}

	if err := tx.Where("tenant_id = ? AND id = ?", tenantID, clientID).Delete(&model.Client{}).Error; err != nil {
		tx.Rollback()
		return storageError("clients.delete", err)
	}

	if err := tx.Commit().Error; err != nil {
		return storageError("clients.delete_commit", err)
	}
	return nil
}
