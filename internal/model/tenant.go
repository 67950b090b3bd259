package model

import "time"

// Tenant represents a bakery account. Every client and order belongs to exactly one tenant.
type Tenant struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	BakeryName   *string   `json:"bakery_name,omitempty" gorm:"type:varchar(255)"`
	Email        *string   `json:"email,omitempty" gorm:"type:varchar(255)"`
	IsSuperuser  bool      `json:"is_superuser" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;index"`
}
