package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/cakeorders/internal/store"
	"github.com/suteetoe/cakeorders/pkg/config"
	"github.com/suteetoe/cakeorders/pkg/database"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	db, err := database.Open(&config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:", LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	s := store.New(db)
	hasher := NewHMACHasher("test-secret")
	_, err = s.Bootstrap(context.Background(), hasher, store.DefaultSeed)
	require.NoError(t, err)
	return NewService(s.Tenants, hasher, nil), s
}

func TestAuthenticateSeededAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	tenant, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", tenant.Username)

	id := svc.Identity(tenant)
	assert.Equal(t, tenant.ID, id.TenantID)
	assert.True(t, id.IsSuperuser)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, unknown := svc.Authenticate(ctx, "nobody", "admin123")
	_, wrong := svc.Authenticate(ctx, "admin", "wrong")

	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.ErrorIs(t, wrong, ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestChangePassword(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	admin, err := s.Tenants.GetByUsername(ctx, "admin")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, admin.ID, "short", "short")
	assert.ErrorIs(t, err, store.ErrValidation)

	err = svc.ChangePassword(ctx, admin.ID, "longer-pass", "longer-pazz")
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "confirm", verr.Field)

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "bolo-de-cenoura", "bolo-de-cenoura"))

	_, err = svc.Authenticate(ctx, "admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "admin", "bolo-de-cenoura")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, 9999, "bolo-de-cenoura", "bolo-de-cenoura"), store.ErrNotFound)
}

func TestCreateTenant(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	bakery := "Doce Lar"

	id, err := svc.CreateTenant(ctx, NewTenantAccount{Username: "docelar", Password: "abcdef", BakeryName: &bakery})
	require.NoError(t, err)

	tenant, err := svc.Authenticate(ctx, "docelar", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, id, tenant.ID)
	assert.False(t, tenant.IsSuperuser)

	_, err = svc.CreateTenant(ctx, NewTenantAccount{Username: "docelar", Password: "abcdef"})
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	_, err = svc.CreateTenant(ctx, NewTenantAccount{Username: "empty"})
	assert.ErrorIs(t, err, store.ErrValidation)

	count, err := s.Tenants.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{TenantID: 7, Username: "maria"})
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(7), id.TenantID)
}
