package entity

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountResult resultado derivado del cálculo de descuento (no se persiste)
type DiscountResult struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}

// ComputeDiscount calcula el total a pagar para mostrar, sin tocar el carrito del servidor.
// FIXED no se limita al subtotal; el total final nunca baja de 0.
func ComputeDiscount(cart Cart, coupon *Coupon) DiscountResult {
	result := DiscountResult{
		Subtotal:       cart.Subtotal,
		DiscountAmount: decimal.Zero,
		FinalTotal:     cart.Subtotal,
	}
	if coupon == nil {
		return result
	}

	switch coupon.Kind {
	case CouponFixed:
		result.DiscountAmount = coupon.Value
	case CouponPercentage:
		base := cart.Subtotal
		if coupon.IsCategorized() {
			base = cart.SubtotalForCategory(coupon.CategoryID)
		}
		result.DiscountAmount = base.Mul(coupon.Value).Div(hundred)
	}

	final := cart.Subtotal.Sub(result.DiscountAmount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	result.FinalTotal = final

	return result
}
