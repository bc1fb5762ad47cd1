package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pos/src/pos/application/usecase"
	"pos/src/pos/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		err  error
	}{
		{raw: "3", want: 3},
		{raw: " 0 ", want: 0},
		{raw: "-5", err: entity.ErrQuantityNegative},
		{raw: "abc", err: entity.ErrQuantityNotNumeric},
		{raw: "2.5", err: entity.ErrQuantityNotNumeric},
		{raw: "", err: entity.ErrQuantityNotNumeric},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := usecase.ParseQuantity(tc.raw)
			if tc.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.err))
				assert.True(t, entity.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCartStore_AddItemReconcilesServerCart(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)

	cart := f.terminal.Cart.Current()
	assert.Len(t, cart.Items, 2)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 3, cart.ItemCount)
}

func TestCartStore_AddItemRejectedWhileRegisterClosed(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.terminal.Cart.AddItem(context.Background(), "p1", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrRegisterClosed))
	assert.Zero(t, f.backend.Calls("AddItem"))
}

func TestCartStore_AddItemValidatesInput(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t)

	_, _, err := f.terminal.Cart.AddItem(context.Background(), "p1", 0)
	assert.True(t, errors.Is(err, entity.ErrInvalidQuantity))

	_, _, err = f.terminal.Cart.AddItem(context.Background(), " ", 1)
	assert.True(t, errors.Is(err, entity.ErrProductIDRequired))

	assert.Zero(t, f.backend.Calls("AddItem"))
}

func TestCartStore_StockWarning(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t)

	_, notice, err := f.terminal.Cart.AddItem(context.Background(), "p2", 3)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, entity.NoticeWarning, notice.Level)
	assert.Contains(t, notice.Message, "Azúcar")
}

// Cantidad negativa: se rechaza sin red y sin tocar el carrito
func TestCartStore_UpdateQuantityNegativeRejectedLocally(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	before := f.backend.TotalCalls()
	item := f.terminal.Cart.Current().Items[0]

	cart, _, err := f.terminal.Cart.UpdateQuantity(context.Background(), item.ID, "-5")
	require.Error(t, err)

	notice := entity.NoticeFromError(err)
	assert.Equal(t, entity.NoticeWarning, notice.Level)
	assert.Equal(t, before, f.backend.TotalCalls())

	same, ok := cart.Item(item.ID)
	require.True(t, ok)
	assert.Equal(t, item.Quantity, same.Quantity)
}

func TestCartStore_UpdateQuantityZeroRemovesOnServer(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	item := f.terminal.Cart.Current().Items[1]

	cart, _, err := f.terminal.Cart.UpdateQuantity(context.Background(), item.ID, "0")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 1, f.backend.Calls("UpdateItem"))
}

func TestCartStore_FailedMutationRefetches(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	f.backend.Fail("AddItem", &entity.RemoteError{Status: 409, Message: "insufficient stock"})
	getsBefore := f.backend.Calls("GetCart")

	_, _, err := f.terminal.Cart.AddItem(context.Background(), "p1", 50)
	require.Error(t, err)

	remote, ok := entity.AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, "insufficient stock", remote.UserMessage())
	assert.Equal(t, getsBefore+1, f.backend.Calls("GetCart"))
	assert.False(t, f.terminal.Cart.Loading())
}

func TestCartStore_RemoveAndClear(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	item := f.terminal.Cart.Current().Items[0]

	cart, _, err := f.terminal.Cart.RemoveItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	cart, _, err = f.terminal.Cart.Clear(context.Background())
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Subtotal.IsZero())
}

func TestCartStore_ReconcileRecomputesSubtotal(t *testing.T) {
	f := newFixture(t, nil)

	f.terminal.Cart.Reconcile(entity.Cart{
		Subtotal: decimal.NewFromInt(9999),
		Items: []entity.CartItem{
			{ID: "i1", ProductID: "p1", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
		},
	})

	cart := f.terminal.Cart.Current()
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "7", cart.OperatorID)
}
