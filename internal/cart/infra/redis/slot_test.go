package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb, err := Connect(ctx, mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	slot := NewSlot(rdb, "cart")

	_, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	svc := app.NewService(slot)
	require.NoError(t, svc.Load(ctx))
	require.NoError(t, svc.AddItem(ctx, domain.Product{ID: 1, Name: "Lamp", Price: decimal.RequireFromString("19.99")}))

	stored, err := mr.Get("cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Lamp","description":"","price":19.99,"image":"","quantity":1}]`, stored)

	restored := app.NewService(slot)
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, 1, restored.ItemCount())
	assert.Equal(t, "21.99", restored.Total().StringFixed(2))
}

func TestSlotUnavailable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb, err := Connect(ctx, mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	slot := NewSlot(rdb, "cart")
	mr.Close()

	err = slot.Set(ctx, "[]")
	assert.Error(t, err)
}

func TestConnectFails(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
