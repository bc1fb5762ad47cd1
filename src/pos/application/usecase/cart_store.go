package usecase

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"
)

// SubmitGate indica si hay una venta en envío; mientras tanto el carrito no se toca
type SubmitGate interface {
	Submitting() bool
}

// CartStore copia local del carrito; el servidor es la fuente de verdad.
// Toda respuesta del backend reemplaza el estado local vía Reconcile.
type CartStore struct {
	gateway port.CartGateway
	guard   RegisterChecker
	sess    *session.Session
	gate    SubmitGate

	mu      sync.RWMutex
	cart    entity.Cart
	loading atomic.Bool
}

// NewCartStore crea el store del carrito de una terminal
func NewCartStore(gateway port.CartGateway, guard RegisterChecker, sess *session.Session) *CartStore {
	return &CartStore{
		gateway: gateway,
		guard:   guard,
		sess:    sess,
		cart:    entity.EmptyCart(sess.OperatorID()),
	}
}

// AttachGate conecta el checkout que congela el carrito durante el envío
func (s *CartStore) AttachGate(gate SubmitGate) {
	s.gate = gate
}

// ParseQuantity interpreta la cantidad tipeada en la vista
func ParseQuantity(raw string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, entity.NewValidationError(entity.ErrQuantityNotNumeric)
	}
	if quantity < 0 {
		return 0, entity.NewValidationError(entity.ErrQuantityNegative)
	}
	return quantity, nil
}

// Load trae el carrito del backend (reintentable)
func (s *CartStore) Load(ctx context.Context) (entity.Cart, error) {
	cart, err := s.gateway.GetCart(ctx, s.sess)
	if err != nil {
		return s.Current(), err
	}
	s.Reconcile(*cart)
	return s.Current(), nil
}

// AddItem agrega un producto al carrito
func (s *CartStore) AddItem(ctx context.Context, productID string, quantity int) (entity.Cart, *entity.Notice, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return s.Current(), nil, entity.NewValidationError(entity.ErrProductIDRequired)
	}
	if quantity < 1 {
		return s.Current(), nil, entity.NewValidationError(entity.ErrInvalidQuantity)
	}

	return s.mutate(ctx, "add", func() (*entity.Cart, error) {
		return s.gateway.AddItem(ctx, s.sess, productID, quantity)
	})
}

// UpdateQuantity cambia la cantidad de una línea; 0 la elimina en el backend
func (s *CartStore) UpdateQuantity(ctx context.Context, itemID, rawQuantity string) (entity.Cart, *entity.Notice, error) {
	if strings.TrimSpace(itemID) == "" {
		return s.Current(), nil, entity.NewValidationError(entity.ErrItemIDRequired)
	}
	quantity, err := ParseQuantity(rawQuantity)
	if err != nil {
		return s.Current(), nil, err
	}

	return s.mutate(ctx, "update", func() (*entity.Cart, error) {
		return s.gateway.UpdateItem(ctx, s.sess, itemID, quantity)
	})
}

// RemoveItem elimina una línea
func (s *CartStore) RemoveItem(ctx context.Context, itemID string) (entity.Cart, *entity.Notice, error) {
	if strings.TrimSpace(itemID) == "" {
		return s.Current(), nil, entity.NewValidationError(entity.ErrItemIDRequired)
	}

	return s.mutate(ctx, "remove", func() (*entity.Cart, error) {
		return s.gateway.RemoveItem(ctx, s.sess, itemID)
	})
}

// Clear vacía el carrito
func (s *CartStore) Clear(ctx context.Context) (entity.Cart, *entity.Notice, error) {
	return s.mutate(ctx, "clear", func() (*entity.Cart, error) {
		return s.gateway.ClearCart(ctx, s.sess)
	})
}

// mutate aplica la secuencia común: caja abierta → flag de carga → sin venta en curso → backend → reconcile
func (s *CartStore) mutate(ctx context.Context, action string, call func() (*entity.Cart, error)) (entity.Cart, *entity.Notice, error) {
	if err := s.guard.RequireOpen(); err != nil {
		return s.Current(), nil, err
	}
	if !s.loading.CompareAndSwap(false, true) {
		return s.Current(), nil, entity.NewValidationError(entity.ErrCartBusy)
	}
	defer s.loading.Store(false)

	// Checkout toma su flag antes de mirar Loading; con ambos flags atómicos uno de los dos cede
	if s.gate != nil && s.gate.Submitting() {
		return s.Current(), nil, entity.NewValidationError(entity.ErrCheckoutInProgress)
	}

	cart, err := call()
	if err != nil {
		log.Printf("❌ Cart %s failed for operator %s: %v", action, s.sess.OperatorID(), err)
		s.refetch(ctx)
		return s.Current(), nil, err
	}

	s.Reconcile(*cart)
	current := s.Current()
	return current, entity.StockWarning(current), nil
}

// refetch resincroniza con el servidor después de un error
func (s *CartStore) refetch(ctx context.Context) {
	if _, err := s.Load(ctx); err != nil {
		log.Printf("⚠️  Cart reconciliation failed for operator %s: %v", s.sess.OperatorID(), err)
	}
}

// Reconcile único camino para reemplazar el estado local
func (s *CartStore) Reconcile(snapshot entity.Cart) {
	operatorID := snapshot.OperatorID
	if operatorID == "" {
		operatorID = s.sess.OperatorID()
	}
	cart := entity.NewCart(operatorID, snapshot.Items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
}

// Current snapshot del carrito local
func (s *CartStore) Current() entity.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart := s.cart
	cart.Items = make([]entity.CartItem, len(s.cart.Items))
	copy(cart.Items, s.cart.Items)
	return cart
}

// Loading indica si hay una mutación en curso
func (s *CartStore) Loading() bool {
	return s.loading.Load()
}
