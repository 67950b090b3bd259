package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/suteetoe/cakeorders/pkg/config"
	"github.com/suteetoe/cakeorders/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeHasher is a deterministic stand-in for the auth hashers
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte("test:" + password))
	return hex.EncodeToString(sum[:]), nil
}

// steppingClock returns a clock that advances one second per call,
// so creation order is always observable in timestamps.
func steppingClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     ":memory:",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(openTestDB(t), WithClock(steppingClock()))
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// createTenant adds a plain tenant and returns its id
func createTenant(t *testing.T, s *Store, username string) uint {
	t.Helper()
	hash, _ := fakeHasher{}.Hash("secret")
	id, err := s.Tenants.Create(context.Background(), NewTenant{Username: username, PasswordHash: hash})
	require.NoError(t, err)
	return id
}

func createClient(t *testing.T, s *Store, tenantID uint, name string) uint {
	t.Helper()
	id, err := s.Clients.Create(context.Background(), tenantID, NewClient{Name: name})
	require.NoError(t, err)
	return id
}

func createOrder(t *testing.T, s *Store, tenantID, clientID uint, flavor string, due time.Time) uint {
	t.Helper()
	id, err := s.Orders.Create(context.Background(), tenantID, NewOrder{
		ClientID: clientID,
		Flavor:   flavor,
		DueDate:  due,
	})
	require.NoError(t, err)
	return id
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
