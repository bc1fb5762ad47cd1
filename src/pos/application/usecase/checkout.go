package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"
	"pos/src/shared/infrastructure/metrics"

	"github.com/google/uuid"
)

// CheckoutState vista completa de la terminal para la UI
type CheckoutState struct {
	Phase        entity.CheckoutPhase    `json:"phase"`
	Cart         entity.Cart             `json:"cart"`
	Customer     *entity.Customer        `json:"customer,omitempty"`
	Coupon       *entity.Coupon          `json:"coupon,omitempty"`
	Discount     entity.DiscountResult   `json:"discount"`
	RegisterOpen bool                    `json:"register_open"`
	Loyalty      *entity.LoyaltySnapshot `json:"loyalty,omitempty"`
	LastReceipt  *entity.SaleReceipt     `json:"last_receipt,omitempty"`
}

// FinalizeResult venta confirmada por el backend
type FinalizeResult struct {
	Receipt  entity.SaleReceipt     `json:"receipt"`
	Charged  entity.DiscountResult  `json:"charged"`
	Notice   *entity.Notice         `json:"notice"`
	Checkout *entity.CheckoutRecord `json:"-"`
}

// Checkout orquesta cliente, cupón, caja y carrito hasta finalizar la venta
type Checkout struct {
	sess    *session.Session
	cart    *CartStore
	guard   *RegisterGuard
	loyalty *LoyaltyPanel
	coupons port.CouponGateway
	sales   port.SaleGateway
	journal port.CheckoutJournal // Opcional
	store   port.TerminalStore   // Opcional

	mu          sync.RWMutex
	customer    *entity.Customer
	coupon      *entity.Coupon
	completed   bool
	lastReceipt *entity.SaleReceipt
	busy        atomic.Bool
}

// NewCheckout crea el orquestador de una terminal
func NewCheckout(
	sess *session.Session,
	cart *CartStore,
	guard *RegisterGuard,
	loyalty *LoyaltyPanel,
	coupons port.CouponGateway,
	sales port.SaleGateway,
	journal port.CheckoutJournal,
	store port.TerminalStore,
) *Checkout {
	return &Checkout{
		sess:    sess,
		cart:    cart,
		guard:   guard,
		loyalty: loyalty,
		coupons: coupons,
		sales:   sales,
		journal: journal,
		store:   store,
	}
}

// SelectCustomer elige el cliente de la venta y recarga su fidelidad.
// Un cupón aplicado de otro cliente se descarta.
func (c *Checkout) SelectCustomer(ctx context.Context, customer entity.Customer) (*entity.LoyaltySnapshot, error) {
	customer.ID = strings.TrimSpace(customer.ID)
	if customer.ID == "" {
		return nil, entity.NewValidationError(entity.ErrCustomerIDRequired)
	}

	c.mu.Lock()
	c.customer = &customer
	if c.coupon != nil && c.coupon.CustomerID != customer.ID {
		log.Printf("🔄 Coupon %s dropped: customer changed to %s", c.coupon.Code, customer.ID)
		c.coupon = nil
	}
	c.completed = false
	c.mu.Unlock()

	c.persist(ctx)
	return c.loyalty.Load(ctx, customer.ID), nil
}

// DeselectCustomer limpia cliente, cupón y fidelidad
func (c *Checkout) DeselectCustomer(ctx context.Context) {
	c.mu.Lock()
	c.customer = nil
	c.coupon = nil
	c.mu.Unlock()

	c.loyalty.Clear()
	c.persist(ctx)
}

// Customer cliente seleccionado
func (c *Checkout) Customer() *entity.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.customer == nil {
		return nil
	}
	customer := *c.customer
	return &customer
}

// Coupon cupón aplicado
func (c *Checkout) Coupon() *entity.Coupon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.coupon == nil {
		return nil
	}
	coupon := *c.coupon
	return &coupon
}

// ApplyCoupon valida el cupón en el backend y lo aplica solo si pertenece al cliente seleccionado
func (c *Checkout) ApplyCoupon(ctx context.Context, code string) (entity.DiscountResult, *entity.Notice, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return c.Discount(), nil, entity.NewValidationError(entity.ErrCouponCodeRequired)
	}

	customer := c.Customer()
	if customer == nil {
		return c.Discount(), nil, entity.NewValidationError(entity.ErrCustomerRequired)
	}

	coupon, err := c.coupons.ValidateCoupon(ctx, c.sess, code, customer.ID)
	if err != nil {
		log.Printf("❌ Coupon %s rejected for customer %s: %v", code, customer.ID, err)
		return c.Discount(), nil, err
	}
	if !coupon.UsableBy(customer.ID) {
		return c.Discount(), nil, entity.NewValidationError(entity.ErrCouponNotApplicable)
	}

	c.mu.Lock()
	if c.customer == nil || c.customer.ID != customer.ID {
		c.mu.Unlock()
		return c.Discount(), nil, entity.NewValidationError(entity.ErrCouponNotApplicable)
	}
	c.coupon = coupon
	c.mu.Unlock()

	c.persist(ctx)
	return c.Discount(), entity.NewNotice(entity.NoticeSuccess, fmt.Sprintf("coupon %s applied", coupon.Code)), nil
}

// RemoveCoupon idempotente: sin cupón no hace nada
func (c *Checkout) RemoveCoupon(ctx context.Context) entity.DiscountResult {
	c.mu.Lock()
	hadCoupon := c.coupon != nil
	c.coupon = nil
	c.mu.Unlock()

	if hadCoupon {
		c.persist(ctx)
	}
	return c.Discount()
}

// Discount total a pagar según el carrito actual y el cupón aplicado
func (c *Checkout) Discount() entity.DiscountResult {
	return entity.ComputeDiscount(c.cart.Current(), c.Coupon())
}

// Submitting indica si hay una venta en envío al backend
func (c *Checkout) Submitting() bool {
	return c.busy.Load()
}

// Phase fase actual de la terminal
func (c *Checkout) Phase() entity.CheckoutPhase {
	if c.Submitting() {
		return entity.PhaseSubmitting
	}

	c.mu.RLock()
	hasCustomer := c.customer != nil
	completed := c.completed
	c.mu.RUnlock()

	if hasCustomer && !c.cart.Current().IsEmpty() && c.guard.IsOpen() {
		return entity.PhaseReady
	}
	if completed {
		return entity.PhaseCompleted
	}
	return entity.PhaseIdle
}

// State vista consolidada
func (c *Checkout) State() CheckoutState {
	c.mu.RLock()
	var receipt *entity.SaleReceipt
	if c.lastReceipt != nil {
		r := *c.lastReceipt
		receipt = &r
	}
	c.mu.RUnlock()

	coupon := c.Coupon()
	cart := c.cart.Current()
	return CheckoutState{
		Phase:        c.Phase(),
		Cart:         cart,
		Customer:     c.Customer(),
		Coupon:       coupon,
		Discount:     entity.ComputeDiscount(cart, coupon),
		RegisterOpen: c.guard.IsOpen(),
		Loyalty:      c.loyalty.Snapshot(),
		LastReceipt:  receipt,
	}
}

// Finalize convierte el carrito en una venta
func (c *Checkout) Finalize(ctx context.Context, tender entity.Tender) (*FinalizeResult, error) {
	// ========================================================================
	// PASO 1: VALIDACIONES LOCALES (sin red)
	// ========================================================================
	register := c.guard.Current()
	if register == nil || !register.IsOpen() {
		metrics.ObserveCheckout(metrics.OutcomeRejected)
		return nil, entity.NewValidationError(entity.ErrRegisterClosed)
	}

	if c.cart.Current().IsEmpty() {
		metrics.ObserveCheckout(metrics.OutcomeRejected)
		return nil, entity.NewValidationError(entity.ErrCartEmpty)
	}

	customer := c.Customer()
	if customer == nil {
		metrics.ObserveCheckout(metrics.OutcomeRejected)
		return nil, entity.NewValidationError(entity.ErrCustomerRequired)
	}

	coupon := c.Coupon()
	if coupon != nil && !coupon.UsableBy(customer.ID) {
		metrics.ObserveCheckout(metrics.OutcomeRejected)
		return nil, entity.NewValidationError(entity.ErrCouponNotApplied)
	}

	if !c.busy.CompareAndSwap(false, true) {
		metrics.ObserveCheckout(metrics.OutcomeRejected)
		return nil, entity.NewValidationError(entity.ErrCheckoutInProgress)
	}
	defer c.busy.Store(false)

	// Con el flag tomado ninguna mutación nueva arranca; solo queda esperar a la que ya corre
	if c.cart.Loading() {
		metrics.ObserveCheckout(metrics.OutcomeRejected)
		return nil, entity.NewValidationError(entity.ErrCartBusy)
	}

	// El carrito queda congelado hasta el final del envío
	cart := c.cart.Current()
	if cart.IsEmpty() {
		metrics.ObserveCheckout(metrics.OutcomeRejected)
		return nil, entity.NewValidationError(entity.ErrCartEmpty)
	}

	if tender == "" {
		tender = entity.TenderCash
	}

	// ========================================================================
	// PASO 2: ENVIAR AL BACKEND
	// ========================================================================
	cmd := entity.FinalizeCommand{
		Reference:  uuid.NewString(),
		OperatorID: c.sess.OperatorID(),
		RegisterID: register.ID,
		CustomerID: customer.ID,
		Tender:     tender,
	}
	if coupon != nil {
		cmd.CouponCode = coupon.Code
	}
	charged := entity.ComputeDiscount(cart, coupon)

	log.Printf("🧾 Finalizing sale ref=%s operator=%s customer=%s total=%s",
		cmd.Reference, cmd.OperatorID, cmd.CustomerID, charged.FinalTotal.StringFixed(2))

	receipt, err := c.sales.FinalizeSale(ctx, c.sess, cmd)
	if err != nil {
		log.Printf("❌ Sale ref=%s failed: %v", cmd.Reference, err)
		metrics.ObserveCheckout(metrics.OutcomeFailed)
		c.cart.refetch(ctx)
		return nil, err
	}

	// ========================================================================
	// PASO 3: LIMPIAR ESTADO LOCAL
	// ========================================================================
	c.cart.Reconcile(entity.EmptyCart(c.sess.OperatorID()))

	c.mu.Lock()
	c.customer = nil
	c.coupon = nil
	c.completed = true
	c.lastReceipt = receipt
	c.mu.Unlock()

	c.loyalty.Clear()
	c.persist(ctx)

	// ========================================================================
	// PASO 4: AUDITORÍA LOCAL (best-effort)
	// ========================================================================
	record, err := entity.NewCheckoutRecord(*receipt, cmd, cart, charged)
	if err != nil {
		log.Printf("⚠️  Could not build checkout record for sale %s: %v", receipt.SaleID, err)
	} else if c.journal != nil {
		if err := c.journal.Create(ctx, record); err != nil {
			log.Printf("⚠️  Checkout journal write failed for sale %s: %v", receipt.SaleID, err)
		}
	}

	metrics.ObserveCheckout(metrics.OutcomeCompleted)
	log.Printf("✅ Sale %s completed (receipt emailed: %t)", receipt.SaleID, receipt.ReceiptEmailed)

	return &FinalizeResult{
		Receipt:  *receipt,
		Charged:  charged,
		Notice:   saleNotice(*receipt),
		Checkout: record,
	}, nil
}

func saleNotice(receipt entity.SaleReceipt) *entity.Notice {
	if receipt.ReceiptEmailed {
		return entity.NewNotice(entity.NoticeSuccess, fmt.Sprintf("sale %s completed, the receipt was emailed to the customer", receipt.SaleID))
	}
	return entity.NewNotice(entity.NoticeSuccess, fmt.Sprintf("sale %s completed, the receipt could not be emailed", receipt.SaleID))
}

// Restore recupera la selección guardada de la terminal
func (c *Checkout) Restore(ctx context.Context) {
	if c.store == nil {
		return
	}

	selection, err := c.store.Load(ctx, c.sess.OperatorID())
	if err != nil {
		log.Printf("⚠️  Could not restore terminal %s: %v", c.sess.OperatorID(), err)
		return
	}
	if selection == nil || selection.Customer == nil {
		return
	}

	c.mu.Lock()
	c.customer = selection.Customer
	c.coupon = nil
	if selection.Coupon != nil && selection.Coupon.UsableBy(selection.Customer.ID) {
		c.coupon = selection.Coupon
	}
	c.mu.Unlock()

	log.Printf("🔄 Terminal %s restored with customer %s", c.sess.OperatorID(), selection.Customer.ID)
	c.loyalty.Load(ctx, selection.Customer.ID)
}

// persist guarda la selección actual; sin cliente se borra
func (c *Checkout) persist(ctx context.Context) {
	if c.store == nil {
		return
	}

	operatorID := c.sess.OperatorID()
	customer := c.Customer()

	var err error
	if customer == nil {
		err = c.store.Delete(ctx, operatorID)
	} else {
		err = c.store.Save(ctx, &entity.TerminalSelection{
			OperatorID: operatorID,
			Customer:   customer,
			Coupon:     c.Coupon(),
			UpdatedAt:  time.Now(),
		})
	}
	if err != nil {
		log.Printf("⚠️  Could not persist terminal %s: %v", operatorID, err)
	}
}
