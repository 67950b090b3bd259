package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/cakeorders/internal/model"
)

func day(d int) time.Time {
	return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestOrderCreateDefaultsToPending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	client := createClient(t, s, tenant, "Maria")

	id, err := s.Orders.Create(ctx, tenant, NewOrder{
		ClientID: client,
		Flavor:   " Red Velvet ",
		Size:     strPtr("2kg"),
		Price:    floatPtr(120.5),
		DueDate:  time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC),
		Notes:    strPtr("no nuts"),
	})
	require.NoError(t, err)

	got, err := s.Orders.Get(ctx, tenant, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "Red Velvet", got.Flavor)
	assert.Equal(t, "Maria", got.ClientName)
	assert.Nil(t, got.PaidAt)
	assert.Nil(t, got.DeliveredAt)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 120.5, *got.Price, 0.0001)
	assert.Equal(t, "2026-05-20", got.DueDate.Format("2006-01-02"))
}

func TestOrderCreateValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bakeryA := createTenant(t, s, "a")
	bakeryB := createTenant(t, s, "b")
	client := createClient(t, s, bakeryA, "Maria")

	cases := map[string]NewOrder{
		"empty flavor":    {ClientID: client, Flavor: "  ", DueDate: day(1)},
		"negative price":  {ClientID: client, Flavor: "Lemon", Price: floatPtr(-1), DueDate: day(1)},
		"missing due":     {ClientID: client, Flavor: "Lemon"},
		"unknown status":  {ClientID: client, Flavor: "Lemon", DueDate: day(1), Status: "Cancelled"},
		"unknown client":  {ClientID: 9999, Flavor: "Lemon", DueDate: day(1)},
		"client of other": {ClientID: client, Flavor: "Lemon", DueDate: day(1)},
	}
	for name, in := range cases {
		tenant := bakeryA
		if name == "client of other" {
			tenant = bakeryB
		}
		_, err := s.Orders.Create(ctx, tenant, in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}

	orders, err := s.Orders.List(ctx, bakeryA)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = s.Orders.Create(ctx, bakeryA, NewOrder{ClientID: client, Flavor: "Free sample", Price: floatPtr(0), DueDate: day(1)})
	assert.NoError(t, err)
}

func TestOrderListOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	client := createClient(t, s, tenant, "Maria")

	late := createOrder(t, s, tenant, client, "late", day(9))
	firstOnThird := createOrder(t, s, tenant, client, "first-on-3", day(3))
	early := createOrder(t, s, tenant, client, "early", day(1))
	secondOnThird := createOrder(t, s, tenant, client, "second-on-3", day(3))

	orders, err := s.Orders.List(ctx, tenant)
	require.NoError(t, err)
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		assert.Equal(t, "Maria", o.ClientName)
	}
	assert.Equal(t, []uint{early, secondOnThird, firstOnThird, late}, ids)

	byClient, err := s.Orders.ListByClient(ctx, tenant, client)
	require.NoError(t, err)
	require.Len(t, byClient, 4)
	assert.Equal(t, early, byClient[0].ID)
}

func TestOrderListByClientFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	maria := createClient(t, s, tenant, "Maria")
	joao := createClient(t, s, tenant, "Joao")
	createOrder(t, s, tenant, maria, "Chocolate", day(2))
	joaoOrder := createOrder(t, s, tenant, joao, "Carrot", day(2))

	orders, err := s.Orders.ListByClient(ctx, tenant, joao)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, joaoOrder, orders[0].ID)
	assert.Equal(t, "Joao", orders[0].ClientName)
}

func TestOrderTenantIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bakeryA := createTenant(t, s, "a")
	bakeryB := createTenant(t, s, "b")
	orderA := createOrder(t, s, bakeryA, createClient(t, s, bakeryA, "Maria"), "Chocolate", day(2))
	orderB := createOrder(t, s, bakeryB, createClient(t, s, bakeryB, "Maria"), "Chocolate", day(2))

	listA, err := s.Orders.List(ctx, bakeryA)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, orderA, listA[0].ID)

	assert.ErrorIs(t, s.Orders.UpdateStatus(ctx, bakeryA, orderB, model.StatusPaid), ErrNotFound)
	assert.ErrorIs(t, s.Orders.Delete(ctx, bakeryA, orderB), ErrNotFound)
	_, err = s.Orders.Get(ctx, bakeryA, orderB)
	assert.ErrorIs(t, err, ErrNotFound)

	untouched, err := s.Orders.Get(ctx, bakeryB, orderB)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, untouched.Status)
	assert.Nil(t, untouched.PaidAt)

	// a missing id reads exactly like a foreign one
	assert.ErrorIs(t, s.Orders.UpdateStatus(ctx, bakeryA, 424242, model.StatusPaid), ErrNotFound)
}

func TestOrderStatusTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	client := createClient(t, s, tenant, "Maria")

	fresh := createOrder(t, s, tenant, client, "Chocolate", day(2))
	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, fresh, model.StatusPending))
	got, err := s.Orders.Get(ctx, tenant, fresh)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.PaidAt)
	assert.Nil(t, got.DeliveredAt)

	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, fresh, model.StatusPaid))
	paid, err := s.Orders.Get(ctx, tenant, fresh)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Nil(t, paid.DeliveredAt)
	paidAt := *paid.PaidAt

	// re-setting the same status leaves the timestamp alone
	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, fresh, model.StatusPaid))
	again, err := s.Orders.Get(ctx, tenant, fresh)
	require.NoError(t, err)
	assert.True(t, paidAt.Equal(*again.PaidAt))

	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, fresh, model.StatusDelivered))
	delivered, err := s.Orders.Get(ctx, tenant, fresh)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
	require.NotNil(t, delivered.PaidAt)
	assert.True(t, paidAt.Equal(*delivered.PaidAt))

	// backward corrections are allowed and keep existing timestamps
	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, fresh, model.StatusPending))
	back, err := s.Orders.Get(ctx, tenant, fresh)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, back.Status)
	assert.NotNil(t, back.DeliveredAt)

	// paying again overwrites the previous paid timestamp
	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, fresh, model.StatusPaid))
	repaid, err := s.Orders.Get(ctx, tenant, fresh)
	require.NoError(t, err)
	assert.True(t, repaid.PaidAt.After(paidAt))

	assert.ErrorIs(t, s.Orders.UpdateStatus(ctx, tenant, fresh, "Burnt"), ErrValidation)
}

func TestOrderCreateWithInitialStatusStampsTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	client := createClient(t, s, tenant, "Maria")

	id, err := s.Orders.Create(ctx, tenant, NewOrder{ClientID: client, Flavor: "Lemon", DueDate: day(4), Status: model.StatusPaid})
	require.NoError(t, err)

	got, err := s.Orders.Get(ctx, tenant, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.Status)
	assert.NotNil(t, got.PaidAt)
	assert.Nil(t, got.DeliveredAt)
}

func TestOrderDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	client := createClient(t, s, tenant, "Maria")
	id := createOrder(t, s, tenant, client, "Chocolate", day(2))

	require.NoError(t, s.Orders.Delete(ctx, tenant, id))
	assert.ErrorIs(t, s.Orders.Delete(ctx, tenant, id), ErrNotFound)

	// the client survives its orders
	_, err := s.Clients.Get(ctx, tenant, client)
	assert.NoError(t, err)
}

func TestOrderStatsCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	other := createTenant(t, s, "b")
	client := createClient(t, s, tenant, "Maria")

	empty, err := s.Orders.StatsCounts(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, map[model.OrderStatus]int64{
		model.StatusPending:   0,
		model.StatusPaid:      0,
		model.StatusDelivered: 0,
	}, empty)

	createOrder(t, s, tenant, client, "one", day(1))
	createOrder(t, s, tenant, client, "two", day(2))
	paid := createOrder(t, s, tenant, client, "three", day(3))
	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, paid, model.StatusPaid))
	createOrder(t, s, other, createClient(t, s, other, "Ana"), "foreign", day(1))

	counts, err := s.Orders.StatsCounts(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, map[model.OrderStatus]int64{
		model.StatusPending:   2,
		model.StatusPaid:      1,
		model.StatusDelivered: 0,
	}, counts)
}

func TestOrderListByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenant := createTenant(t, s, "a")
	client := createClient(t, s, tenant, "Maria")
	createOrder(t, s, tenant, client, "one", day(1))
	paid := createOrder(t, s, tenant, client, "two", day(2))
	require.NoError(t, s.Orders.UpdateStatus(ctx, tenant, paid, model.StatusPaid))

	preparing, err := s.Orders.ListByStatus(ctx, tenant, model.StatusPaid)
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, paid, preparing[0].ID)

	_, err = s.Orders.ListByStatus(ctx, tenant, "nope")
	assert.ErrorIs(t, err, ErrValidation)
}
