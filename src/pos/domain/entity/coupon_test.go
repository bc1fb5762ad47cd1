package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCouponKind(t *testing.T) {
	kind, err := ParseCouponKind(" percentage ")
	assert.NoError(t, err)
	assert.Equal(t, CouponPercentage, kind)

	_, err = ParseCouponKind("BOGO")
	assert.ErrorIs(t, err, ErrInvalidCouponKind)
}

func TestParseCouponStatus(t *testing.T) {
	assert.Equal(t, CouponActive, ParseCouponStatus("active"))
	assert.Equal(t, CouponUsed, ParseCouponStatus("USED"))
	assert.Equal(t, CouponExpired, ParseCouponStatus("whatever"))
}

func TestCoupon_UsableBy(t *testing.T) {
	coupon := Coupon{Code: "C", CustomerID: "42", Status: CouponActive}

	assert.True(t, coupon.UsableBy("42"))
	assert.False(t, coupon.UsableBy("43"))
	assert.False(t, coupon.UsableBy(""))

	coupon.Status = CouponUsed
	assert.False(t, coupon.UsableBy("42"))
}

func TestLoyaltySnapshot_UsableCoupons(t *testing.T) {
	snapshot := LoyaltySnapshot{
		CustomerID: "42",
		Coupons: []Coupon{
			{Code: "A", CustomerID: "42", Status: CouponActive},
			{Code: "B", CustomerID: "42", Status: CouponExpired},
			{Code: "C", CustomerID: "99", Status: CouponActive},
		},
	}

	usable := snapshot.UsableCoupons()
	if assert.Len(t, usable, 1) {
		assert.Equal(t, "A", usable[0].Code)
	}
}
