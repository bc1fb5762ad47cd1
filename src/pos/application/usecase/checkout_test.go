package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pos/src/pos/application/usecase"
	"pos/src/pos/domain/entity"
	"pos/src/pos/infrastructure/persistence"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ana = entity.Customer{ID: "42", FirstName: "Ana", LastName: "Pérez", Document: "30111222"}

func (f *fixture) withCoupon(code string, kind entity.CouponKind, value int64, categoryID, customerID string) *fixture {
	f.backend.Coupons[code] = entity.Coupon{
		Code:       code,
		Kind:       kind,
		Value:      decimal.NewFromInt(value),
		CategoryID: categoryID,
		Status:     entity.CouponActive,
		CustomerID: customerID,
	}
	return f
}

func TestCheckout_PhaseTransitions(t *testing.T) {
	f := newFixture(t, nil)
	checkout := f.terminal.Checkout
	ctx := context.Background()

	assert.Equal(t, entity.PhaseIdle, checkout.Phase())

	f.withOpenRegister(t).withSampleCart(t)
	assert.Equal(t, entity.PhaseIdle, checkout.Phase())

	_, err := checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseReady, checkout.Phase())

	_, err = checkout.Finalize(ctx, entity.TenderCash)
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseCompleted, checkout.Phase())
}

// Caja cerrada: rechazo local, sin llamada remota, estado intacto
func TestCheckout_FinalizeWithClosedRegister(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	ctx := context.Background()
	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)

	f.backend.Register.Status = entity.RegisterClosed
	_, err = f.terminal.Register.CheckOpen(ctx)
	require.NoError(t, err)
	phaseBefore := f.terminal.Checkout.Phase()

	_, err = f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
	require.Error(t, err)
	assert.Equal(t, "open your register first", err.Error())
	assert.Equal(t, entity.NoticeWarning, entity.NoticeFromError(err).Level)
	assert.Zero(t, f.backend.Calls("FinalizeSale"))
	assert.Equal(t, phaseBefore, f.terminal.Checkout.Phase())
	assert.NotNil(t, f.terminal.Checkout.Customer())
}

func TestCheckout_FinalizeValidationOrder(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, nil).withOpenRegister(t)
	_, err := f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
	assert.True(t, errors.Is(err, entity.ErrCartEmpty))

	f.withSampleCart(t)
	_, err = f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
	assert.True(t, errors.Is(err, entity.ErrCustomerRequired))

	assert.Zero(t, f.backend.Calls("FinalizeSale"))
}

func TestCheckout_FinalizeSuccessResetsTerminal(t *testing.T) {
	store := persistence.NewTerminalMemoryStore()
	f := newFixture(t, store).withOpenRegister(t).withSampleCart(t)
	f.withCoupon("FIX30", entity.CouponFixed, 30, "", "42")
	ctx := context.Background()

	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)
	_, _, err = f.terminal.Checkout.ApplyCoupon(ctx, "FIX30")
	require.NoError(t, err)

	result, err := f.terminal.Checkout.Finalize(ctx, entity.TenderDebit)
	require.NoError(t, err)

	assert.Equal(t, "sale-1", result.Receipt.SaleID)
	assert.True(t, result.Charged.FinalTotal.Equal(decimal.NewFromInt(220)))
	assert.Equal(t, entity.NoticeSuccess, result.Notice.Level)
	assert.Contains(t, result.Notice.Message, "emailed")

	state := f.terminal.Checkout.State()
	assert.True(t, state.Cart.IsEmpty())
	assert.Nil(t, state.Customer)
	assert.Nil(t, state.Coupon)
	assert.Nil(t, state.Loyalty)
	require.NotNil(t, state.LastReceipt)
	assert.Equal(t, "sale-1", state.LastReceipt.SaleID)

	require.Equal(t, 1, f.journal.Len())
	record := f.journal.Records[0]
	assert.Equal(t, "FIX30", record.CouponCode)
	assert.Equal(t, entity.TenderDebit, record.Tender)
	assert.True(t, record.Discount.Equal(decimal.NewFromInt(30)))
	assert.Len(t, record.Items, 2)

	saved, err := store.Load(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestCheckout_CartFrozenWhileSubmitting(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	ctx := context.Background()
	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)

	entered, release := f.backend.Hold("FinalizeSale")
	defer release()

	done := make(chan *usecase.FinalizeResult, 1)
	go func() {
		result, err := f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
		assert.NoError(t, err)
		done <- result
	}()
	<-entered

	assert.Equal(t, entity.PhaseSubmitting, f.terminal.Checkout.Phase())
	assert.True(t, f.terminal.Checkout.Submitting())

	addsBefore := f.backend.Calls("AddItem")
	_, _, err = f.terminal.Cart.AddItem(ctx, "p1", 5)
	assert.True(t, errors.Is(err, entity.ErrCheckoutInProgress))
	_, _, err = f.terminal.Cart.Clear(ctx)
	assert.True(t, errors.Is(err, entity.ErrCheckoutInProgress))
	assert.Equal(t, addsBefore, f.backend.Calls("AddItem"))
	assert.Zero(t, f.backend.Calls("ClearCart"))

	release()
	result := <-done
	require.NotNil(t, result)
	assert.True(t, result.Charged.FinalTotal.Equal(decimal.NewFromInt(250)))

	require.Equal(t, 1, f.journal.Len())
	record := f.journal.Records[0]
	assert.Len(t, record.Items, 2)
	assert.Equal(t, 2, record.Items[0].Quantity)
}

func TestCheckout_FinalizeWaitsForCartMutation(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	ctx := context.Background()
	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)

	entered, release := f.backend.Hold("AddItem")
	defer release()

	done := make(chan error, 1)
	go func() {
		_, _, err := f.terminal.Cart.AddItem(ctx, "p1", 1)
		done <- err
	}()
	<-entered

	_, err = f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
	assert.True(t, errors.Is(err, entity.ErrCartBusy))
	assert.Zero(t, f.backend.Calls("FinalizeSale"))
	assert.False(t, f.terminal.Checkout.Submitting())

	release()
	require.NoError(t, <-done)

	result, err := f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
	require.NoError(t, err)
	assert.True(t, result.Charged.FinalTotal.Equal(decimal.NewFromInt(350)))
}

func TestCheckout_FinalizeFailureRefetchesAndKeepsSelection(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	ctx := context.Background()
	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)

	f.backend.Fail("FinalizeSale", &entity.RemoteError{Status: 409, Message: "insufficient stock for Yerba"})
	getsBefore := f.backend.Calls("GetCart")

	_, err = f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
	require.Error(t, err)

	assert.Equal(t, "insufficient stock for Yerba", entity.NoticeFromError(err).Message)
	assert.Equal(t, getsBefore+1, f.backend.Calls("GetCart"))
	assert.Equal(t, entity.PhaseReady, f.terminal.Checkout.Phase())
	assert.NotNil(t, f.terminal.Checkout.Customer())
	assert.Zero(t, f.journal.Len())
}

func TestCheckout_JournalFailureDoesNotFailSale(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
	f.journal.Err = errors.New("db down")
	ctx := context.Background()
	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)

	result, err := f.terminal.Checkout.Finalize(ctx, entity.TenderCash)
	require.NoError(t, err)
	assert.Equal(t, "sale-1", result.Receipt.SaleID)
}

func TestCheckout_DiscountScenarios(t *testing.T) {
	cases := []struct {
		name     string
		kind     entity.CouponKind
		value    int64
		category string
		discount int64
		final    int64
	}{
		{name: "fixed", kind: entity.CouponFixed, value: 30, discount: 30, final: 220},
		{name: "percentage", kind: entity.CouponPercentage, value: 10, discount: 25, final: 225},
		{name: "percentage by category", kind: entity.CouponPercentage, value: 10, category: "1", discount: 20, final: 230},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)
			f.withCoupon("C", tc.kind, tc.value, tc.category, "42")
			ctx := context.Background()

			_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
			require.NoError(t, err)

			discount, notice, err := f.terminal.Checkout.ApplyCoupon(ctx, "C")
			require.NoError(t, err)
			assert.Equal(t, entity.NoticeSuccess, notice.Level)
			assert.True(t, discount.DiscountAmount.Equal(decimal.NewFromInt(tc.discount)))
			assert.True(t, discount.FinalTotal.Equal(decimal.NewFromInt(tc.final)))
		})
	}
}

func TestCheckout_ApplyCouponRequiresCustomer(t *testing.T) {
	f := newFixture(t, nil)
	f.withCoupon("C", entity.CouponFixed, 10, "", "42")

	_, _, err := f.terminal.Checkout.ApplyCoupon(context.Background(), "C")
	assert.True(t, errors.Is(err, entity.ErrCustomerRequired))
	assert.Zero(t, f.backend.Calls("ValidateCoupon"))
}

func TestCheckout_ApplyCouponOfAnotherCustomer(t *testing.T) {
	f := newFixture(t, nil)
	f.withCoupon("C", entity.CouponFixed, 10, "", "99")
	ctx := context.Background()
	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)

	_, _, err = f.terminal.Checkout.ApplyCoupon(ctx, "C")
	require.Error(t, err)
	assert.Equal(t, entity.NoticeDanger, entity.NoticeFromError(err).Level)
	assert.Nil(t, f.terminal.Checkout.Coupon())
}

func TestCheckout_RemoveCouponIsIdempotent(t *testing.T) {
	f := newFixture(t, nil).withOpenRegister(t).withSampleCart(t)

	discount := f.terminal.Checkout.RemoveCoupon(context.Background())
	assert.True(t, discount.DiscountAmount.IsZero())
	assert.True(t, discount.FinalTotal.Equal(discount.Subtotal))

	discount = f.terminal.Checkout.RemoveCoupon(context.Background())
	assert.True(t, discount.DiscountAmount.IsZero())
}

func TestCheckout_ChangingCustomerDropsForeignCoupon(t *testing.T) {
	f := newFixture(t, nil)
	f.withCoupon("C", entity.CouponFixed, 10, "", "42")
	ctx := context.Background()

	_, err := f.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)
	_, _, err = f.terminal.Checkout.ApplyCoupon(ctx, "C")
	require.NoError(t, err)

	_, err = f.terminal.Checkout.SelectCustomer(ctx, entity.Customer{ID: "43", FirstName: "Luis"})
	require.NoError(t, err)
	assert.Nil(t, f.terminal.Checkout.Coupon())
}

func TestCheckout_RestoreFromStore(t *testing.T) {
	store := persistence.NewTerminalMemoryStore()
	ctx := context.Background()

	first := newFixture(t, store)
	first.withCoupon("C", entity.CouponFixed, 10, "", "42")
	_, err := first.terminal.Checkout.SelectCustomer(ctx, ana)
	require.NoError(t, err)
	_, _, err = first.terminal.Checkout.ApplyCoupon(ctx, "C")
	require.NoError(t, err)

	second := newFixture(t, store)
	second.terminal.Checkout.Restore(ctx)

	require.NotNil(t, second.terminal.Checkout.Customer())
	assert.Equal(t, "42", second.terminal.Checkout.Customer().ID)
	require.NotNil(t, second.terminal.Checkout.Coupon())
	assert.Equal(t, "C", second.terminal.Checkout.Coupon().Code)
	assert.Equal(t, 1, second.backend.Calls("GetSnapshot"))
}
