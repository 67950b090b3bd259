package store

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/suteetoe/cakeorders/internal/model"
	"github.com/suteetoe/cakeorders/prometheus"
	"gorm.io/gorm"
)

// NewOrder carries the fields accepted when creating an order.
// An empty Status means Pending.
type NewOrder struct {
	ClientID uint
	Flavor   string
	Size     *string
	Price    *float64
	DueDate  time.Time
	Status   model.OrderStatus
	Notes    *string
}

// OrderStore manages orders and their status lifecycle
type OrderStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Create validates and stores a new order for one of the tenant's clients
func (s *OrderStore) Create(ctx context.Context, tenantID uint, in NewOrder) (uint, error) {
	defer prometheus.TrackDBOperation("orders.create")()

	flavor := strings.TrimSpace(in.Flavor)
	if flavor == "" {
		return 0, newValidationError("flavor", "flavor is required")
	}
	if in.Price != nil && (*in.Price < 0 || math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0)) {
		return 0, newValidationError("price", "price must be a non-negative number")
	}
	if in.DueDate.IsZero() {
		return 0, newValidationError("due_date", "due date is required")
	}
	status := in.Status
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return 0, newValidationError("status", "unknown status "+string(status))
	}

	now := s.now()
	order := model.Order{
		TenantID:  tenantID,
		ClientID:  in.ClientID,
		Flavor:    flavor,
		Size:      optional(in.Size),
		Price:     in.Price,
		DueDate:   dateOnly(in.DueDate),
		Status:    status,
		Notes:     optional(in.Notes),
		CreatedAt: now,
	}
	stampTimestamps(&order, status, now)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&model.Client{}).Where("tenant_id = ? AND id = ?", tenantID, in.ClientID).Count(&owned).Error; err != nil {
			return storageError("orders.create", err)
		}
		if owned == 0 {
			return newValidationError("client_id", "client does not exist")
		}
		if err := tx.Create(&order).Error; err != nil {
			return storageError("orders.create", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// List returns every order of the tenant with its client name,
// by due date and then newest first.
func (s *OrderStore) List(ctx context.Context, tenantID uint) ([]model.OrderView, error) {
	defer prometheus.TrackDBOperation("orders.list")()
	return s.find("orders.list", s.viewQuery(ctx, tenantID))
}

// ListByClient returns the orders of a single client
func (s *OrderStore) ListByClient(ctx context.Context, tenantID, clientID uint) ([]model.OrderView, error) {
	defer prometheus.TrackDBOperation("orders.list_by_client")()
	return s.find("orders.list_by_client", s.viewQuery(ctx, tenantID).Where("orders.client_id = ?", clientID))
}

// ListByStatus returns the tenant's orders currently in status
func (s *OrderStore) ListByStatus(ctx context.Context, tenantID uint, status model.OrderStatus) ([]model.OrderView, error) {
	defer prometheus.TrackDBOperation("orders.list_by_status")()
	if !status.Valid() {
		return nil, newValidationError("status", "unknown status "+string(status))
	}
	return s.find("orders.list_by_status", s.viewQuery(ctx, tenantID).Where("orders.status = ?", status))
}

// Get returns one order of the tenant or ErrNotFound
func (s *OrderStore) Get(ctx context.Context, tenantID, orderID uint) (*model.OrderView, error) {
	defer prometheus.TrackDBOperation("orders.get")()

	views, err := s.find("orders.get", s.viewQuery(ctx, tenantID).Where("orders.id = ?", orderID))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// UpdateStatus moves an order to status. Entering Paid stamps PaidAt and entering
// Delivered stamps DeliveredAt; Pending and unchanged statuses touch no timestamp.
// Orders of other tenants are reported as ErrNotFound.
func (s *OrderStore) UpdateStatus(ctx context.Context, tenantID, orderID uint, status model.OrderStatus) error {
	defer prometheus.TrackDBOperation("orders.update_status")()

	if !status.Valid() {
		return newValidationError("status", "unknown status "+string(status))
	}

	var previous model.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, orderID).First(&order).Error; err != nil {
			if isRecordNotFound(err) {
				return ErrNotFound
			}
			return storageError("orders.update_status", err)
		}
		previous = order.Status
		if !order.Status.CanTransitionTo(status) {
			return newValidationError("status", "cannot move from "+string(order.Status)+" to "+string(status))
		}
		if order.Status == status {
			return nil
		}

		updates := map[string]interface{}{"status": status}
		switch status {
		case model.StatusPaid:
			updates["paid_at"] = s.now()
		case model.StatusDelivered:
			updates["delivered_at"] = s.now()
		}
		err := tx.Model(&model.Order{}).
			Where("tenant_id = ? AND id = ?", tenantID, orderID).
			Updates(updates).Error
		if err != nil {
			return storageError("orders.update_status", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if previous != status {
		prometheus.RecordOrderTransition(string(previous), string(status))
	}
	return nil
}

// Delete removes a single order
func (s *OrderStore) Delete(ctx context.Context, tenantID, orderID uint) error {
	defer prometheus.TrackDBOperation("orders.delete")()

	result := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, orderID).Delete(&model.Order{})
	if result.Error != nil {
		return storageError("orders.delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsCounts returns the number of orders per status. Every status is present.
func (s *OrderStore) StatsCounts(ctx context.Context, tenantID uint) (map[model.OrderStatus]int64, error) {
	defer prometheus.TrackDBOperation("orders.stats")()

	var rows []statusCount
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, storageError("orders.stats", err)
	}

	counts := make(map[model.OrderStatus]int64, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		if row.Status.Valid() {
			counts[row.Status] = row.Count
		}
	}
	return counts, nil
}

type statusCount struct {
	Status model.OrderStatus
	Count  int64
}

func (s *OrderStore) viewQuery(ctx context.Context, tenantID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, clients.name AS client_name").
		Joins("JOIN clients ON clients.id = orders.client_id AND clients.tenant_id = orders.tenant_id").
		Where("orders.tenant_id = ?", tenantID)
}

func (s *OrderStore) find(op string, query *gorm.DB) ([]model.OrderView, error) {
	views := []model.OrderView{}
	err := query.
		Order("orders.due_date ASC, orders.created_at DESC, orders.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, storageError(op, err)
	}
	return views, nil
}

// stampTimestamps sets the timestamp that belongs to entering status
func stampTimestamps(order *model.Order, status model.OrderStatus, now time.Time) {
	switch status {
	case model.StatusPaid:
		order.PaidAt = &now
	case model.StatusDelivered:
		order.DeliveredAt = &now
	}
}

// dateOnly drops the clock part of t, keeping its calendar date
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
