package controller

import (
	"net/http"

	"pos/src/pos/application/request"
	"pos/src/pos/domain/entity"

	"github.com/gin-gonic/gin"
)

// SelectCustomer elige el cliente de la venta
func (c *PosController) SelectCustomer(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.SelectCustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	customer := entity.Customer{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Document:  req.Document,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	loyalty, err := terminal.Checkout.SelectCustomer(ctx.Request.Context(), customer)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"customer": terminal.Checkout.Customer(),
		"coupon":   terminal.Checkout.Coupon(),
		"loyalty":  loyalty,
		"discount": terminal.Checkout.Discount(),
	})
}

// DeselectCustomer limpia el cliente seleccionado
func (c *PosController) DeselectCustomer(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	terminal.Checkout.DeselectCustomer(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{"discount": terminal.Checkout.Discount()})
}

// GetLoyalty fidelidad del cliente seleccionado
func (c *PosController) GetLoyalty(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	snapshot := terminal.Loyalty.Snapshot()
	if snapshot == nil {
		if customer := terminal.Checkout.Customer(); customer != nil {
			snapshot = terminal.Loyalty.Load(ctx.Request.Context(), customer.ID)
		}
	}

	var usable []entity.Coupon
	if snapshot != nil {
		usable = snapshot.UsableCoupons()
	}
	ctx.JSON(http.StatusOK, gin.H{
		"available":      snapshot != nil,
		"loyalty":        snapshot,
		"usable_coupons": usable,
	})
}

// RedeemReward canjea una recompensa (requiere confirmed=true)
func (c *PosController) RedeemReward(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.RedeemRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	coupon, notice, err := terminal.Loyalty.RedeemReward(ctx.Request.Context(), req.CustomerID, ctx.Param("reward_id"), req.Confirmed)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"coupon":  coupon,
		"loyalty": terminal.Loyalty.Snapshot(),
		"notice":  notice,
	})
}

// ApplyCoupon valida y aplica un cupón
func (c *PosController) ApplyCoupon(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.ApplyCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	discount, notice, err := terminal.Checkout.ApplyCoupon(ctx.Request.Context(), req.Code)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"coupon":   terminal.Checkout.Coupon(),
		"discount": discount,
		"notice":   notice,
	})
}

// RemoveCoupon quita el cupón (idempotente)
func (c *PosController) RemoveCoupon(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"discount": terminal.Checkout.RemoveCoupon(ctx.Request.Context())})
}

// GetDiscount total a pagar
func (c *PosController) GetDiscount(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"coupon":   terminal.Checkout.Coupon(),
		"discount": terminal.Checkout.Discount(),
	})
}

// GetRegister estado de la caja según el backend
func (c *PosController) GetRegister(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	register, err := terminal.Register.CheckOpen(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}

	resp := gin.H{"open": register != nil, "register": register}
	if register == nil {
		resp["notice"] = entity.NewNotice(entity.NoticeInfo, entity.ErrRegisterClosed.Error())
	}
	ctx.JSON(http.StatusOK, resp)
}

// OpenRegister abre la caja
func (c *PosController) OpenRegister(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.OpenRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	register, notice, err := terminal.Register.Open(ctx.Request.Context(), *req.OpeningAmount)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"register": register, "notice": notice})
}

// CloseRegister cierra la caja con arqueo
func (c *PosController) CloseRegister(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.CloseRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindFail(ctx, err)
		return
	}

	result, err := terminal.Register.Close(ctx.Request.Context(), *req.DeclaredAmount)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetCheckoutState vista consolidada de la terminal
func (c *PosController) GetCheckoutState(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, terminal.Checkout.State())
}

// Finalize cobra la venta
func (c *PosController) Finalize(ctx *gin.Context) {
	terminal, ok := c.terminal(ctx)
	if !ok {
		return
	}

	var req request.FinalizeRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			bindFail(ctx, err)
			return
		}
	}

	tender, err := entity.ParseTender(req.PaymentMethod)
	if err != nil {
		fail(ctx, entity.NewValidationError(err))
		return
	}

	result, err := terminal.Checkout.Finalize(ctx.Request.Context(), tender)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}
