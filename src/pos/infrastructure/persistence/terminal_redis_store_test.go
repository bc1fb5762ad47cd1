package persistence

import (
	"context"
	"testing"
	"time"

	"pos/src/pos/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *TerminalRedisStore) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return server, NewTerminalRedisStore(client, ttl).(*TerminalRedisStore)
}

func TestTerminalRedisStore_Lifecycle(t *testing.T) {
	server, store := newRedisStore(t, 12*time.Hour)
	ctx := context.Background()

	missing, err := store.Load(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, missing)

	selection := &entity.TerminalSelection{
		OperatorID: "7",
		Customer:   &entity.Customer{ID: "42", FirstName: "Ana"},
		Coupon:     &entity.Coupon{Code: "PROMO", Kind: entity.CouponPercentage, Value: decimal.NewFromInt(10), CustomerID: "42", Status: entity.CouponActive},
		UpdatedAt:  time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, selection))

	assert.True(t, server.Exists("pos:terminal:7"))
	assert.Equal(t, 12*time.Hour, server.TTL("pos:terminal:7"))

	loaded, err := store.Load(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "42", loaded.Customer.ID)
	assert.Equal(t, "PROMO", loaded.Coupon.Code)
	assert.True(t, loaded.Coupon.Value.Equal(decimal.NewFromInt(10)))
	assert.True(t, selection.UpdatedAt.Equal(loaded.UpdatedAt))

	require.NoError(t, store.Delete(ctx, "7"))
	assert.False(t, server.Exists("pos:terminal:7"))
}

func TestTerminalRedisStore_SelectionExpires(t *testing.T) {
	server, store := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &entity.TerminalSelection{OperatorID: "7", Customer: &entity.Customer{ID: "42"}}))
	server.FastForward(2 * time.Hour)

	loaded, err := store.Load(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestTerminalRedisStore_WithoutTTLNeverExpires(t *testing.T) {
	server, store := newRedisStore(t, 0)

	require.NoError(t, store.Save(context.Background(), &entity.TerminalSelection{OperatorID: "7"}))
	assert.Zero(t, server.TTL("pos:terminal:7"))
}

func TestTerminalRedisStore_Errors(t *testing.T) {
	server, store := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, server.Set("pos:terminal:9", "{not json"))
	_, err := store.Load(ctx, "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding terminal 9")

	server.Close()
	loaded, err := store.Load(ctx, "7")
	require.Error(t, err)
	assert.Nil(t, loaded)
}
