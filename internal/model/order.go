package model

import "time"

// Order is a cake order placed by a client of a tenant
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	TenantID    uint        `json:"tenant_id" gorm:"index:idx_orders_tenant_client;index:idx_orders_tenant_status;not null"`
	ClientID    uint        `json:"client_id" gorm:"index:idx_orders_tenant_client;not null"`
	Flavor      string      `json:"flavor" gorm:"type:varchar(255);not null"`
	Size        *string     `json:"size,omitempty" gorm:"type:varchar(100)"`
	Price       *float64    `json:"price,omitempty"`
	DueDate     time.Time   `json:"due_date" gorm:"type:date;not null"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);index:idx_orders_tenant_status;not null;default:'Pending'"`
	Notes       *string     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time   `json:"created_at" gorm:"not null"`
	PaidAt      *time.Time  `json:"paid_at,omitempty"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`
}

// OrderView is an order row joined with the name of its client
type OrderView struct {
	Order
	ClientName string `json:"client_name"`
}
