package store

import (
	"context"
	"fmt"

	"github.com/suteetoe/cakeorders/internal/model"
	"github.com/suteetoe/cakeorders/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PasswordHasher turns a plain password into the value stored in PasswordHash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SeedTenant describes the superuser created in an empty database
type SeedTenant struct {
	Username   string
	Password   string
	BakeryName string
	Email      string
}

// DefaultSeed holds the well-known bootstrap credentials. Operators must change
// the password right after the first login.
var DefaultSeed = SeedTenant{
	Username:   "admin",
	Password:   "admin123",
	BakeryName: "Admin",
	Email:      "admin@example.com",
}

// Bootstrap migrates the schema and, when no tenant exists yet, seeds exactly one
// superuser. It reports whether a tenant was seeded; later calls are no-ops.
func (s *Store) Bootstrap(ctx context.Context, hasher PasswordHasher, seed SeedTenant) (bool, error) {
	if err := s.Migrate(ctx); err != nil {
		return false, err
	}
	if seed.Username == "" || seed.Password == "" {
		return false, newValidationError("bootstrap", "seed username and password are required")
	}

	seeded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Tenant{}).Count(&count).Error; err != nil {
			return storageError("bootstrap.count", err)
		}
		if count > 0 {
			return nil
		}

		hash, err := hasher.Hash(seed.Password)
		if err != nil {
			return fmt.Errorf("bootstrap: hash seed password: %w", err)
		}
		admin := model.Tenant{
			Username:     seed.Username,
			PasswordHash: hash,
			BakeryName:   optional(&seed.BakeryName),
			Email:        optional(&seed.Email),
			IsSuperuser:  true,
			CreatedAt:    s.now(),
		}
		if err := tx.Create(&admin).Error; err != nil {
			return storageError("bootstrap.create", err)
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		prometheus.TenantBootstrapCounter.Inc()
		log := s.log.With(zap.String("username", seed.Username))
		if seed.Password == DefaultSeed.Password {
			log.Warn("Seeded superuser with the default password; change it immediately")
		} else {
			log.Info("Seeded superuser")
		}
	}
	return seeded, nil
}
