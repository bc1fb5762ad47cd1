package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"
)

// TerminalDeps dependencias compartidas por todas las terminales
type TerminalDeps struct {
	Cart      port.CartGateway
	Catalog   port.CatalogGateway
	Directory port.DirectoryGateway
	Roles     port.RoleResolver
	Coupons   port.CouponGateway
	Loyalty   port.LoyaltyGateway
	Registers port.RegisterGateway
	Sales     port.SaleGateway
	Journal   port.CheckoutJournal // nil = sin auditoría local
	Store     port.TerminalStore   // nil = sin persistencia de selección

	SearchPageSize int
	DebounceWindow time.Duration
	CustomerRole   string
}

// Terminal estado de punto de venta de un operador
type Terminal struct {
	Session   *session.Session
	Register  *RegisterGuard
	Cart      *CartStore
	Catalog   *CatalogLookup
	Customers *CustomerLookup
	Loyalty   *LoyaltyPanel
	Checkout  *Checkout

	boot sync.Once
}

// NewTerminal arma los componentes de una terminal sobre la sesión del operador
func NewTerminal(deps TerminalDeps, sess *session.Session) *Terminal {
	guard := NewRegisterGuard(deps.Registers, sess)
	cart := NewCartStore(deps.Cart, guard, sess)
	loyalty := NewLoyaltyPanel(deps.Loyalty, sess)
	checkout := NewCheckout(sess, cart, guard, loyalty, deps.Coupons, deps.Sales, deps.Journal, deps.Store)
	cart.AttachGate(checkout)

	return &Terminal{
		Session:   sess,
		Register:  guard,
		Cart:      cart,
		Catalog:   NewCatalogLookup(deps.Catalog, cart, sess, deps.SearchPageSize, deps.DebounceWindow),
		Customers: NewCustomerLookup(deps.Directory, deps.Roles, sess, deps.CustomerRole, deps.SearchPageSize, deps.DebounceWindow),
		Loyalty:   loyalty,
		Checkout:  checkout,
	}
}

// Bootstrap carga caja, selección guardada y carrito; los fallos no impiden operar
func (t *Terminal) Bootstrap(ctx context.Context) {
	if _, err := t.Register.CheckOpen(ctx); err != nil {
		log.Printf("⚠️  Register status unknown for operator %s: %v", t.Session.OperatorID(), err)
	}
	t.Checkout.Restore(ctx)
	if _, err := t.Cart.Load(ctx); err != nil {
		log.Printf("⚠️  Cart not loaded for operator %s: %v", t.Session.OperatorID(), err)
	}
}

// ready corre Bootstrap una sola vez; las llamadas concurrentes esperan a que termine
func (t *Terminal) ready(ctx context.Context) {
	t.boot.Do(func() { t.Bootstrap(ctx) })
}

// Close detiene las búsquedas en curso
func (t *Terminal) Close() {
	t.Catalog.Close()
	t.Customers.Close()
}

// TerminalRegistry una terminal por operador, creada al primer uso
type TerminalRegistry struct {
	deps      TerminalDeps
	mu        sync.Mutex
	terminals map[string]*Terminal
}

func NewTerminalRegistry(deps TerminalDeps) *TerminalRegistry {
	return &TerminalRegistry{
		deps:      deps,
		terminals: make(map[string]*Terminal),
	}
}

// Acquire devuelve la terminal del operador; el token de la request reemplaza al anterior
func (r *TerminalRegistry) Acquire(ctx context.Context, sess *session.Session) (*Terminal, error) {
	operatorID := sess.OperatorID()
	if !sess.Authenticated() || operatorID == "" {
		return nil, entity.NewValidationError(entity.ErrOperatorRequired)
	}

	r.mu.Lock()
	terminal, ok := r.terminals[operatorID]
	if ok {
		r.mu.Unlock()
		if terminal.Session.Token() != sess.Token() {
			if err := terminal.Session.Refresh(sess.Token()); err != nil {
				return nil, err
			}
		}
		terminal.ready(ctx)
		return terminal, nil
	}

	terminal = NewTerminal(r.deps, sess)
	r.terminals[operatorID] = terminal
	r.mu.Unlock()

	log.Printf("🖥️  Terminal created for operator %s (%s)", operatorID, sess.Name())
	terminal.ready(ctx)
	return terminal, nil
}

// Release cierra la terminal del operador (logout)
func (r *TerminalRegistry) Release(operatorID string) bool {
	r.mu.Lock()
	terminal, ok := r.terminals[operatorID]
	delete(r.terminals, operatorID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	terminal.Close()
	terminal.Session.Clear()
	log.Printf("👋 Terminal released for operator %s", operatorID)
	return true
}

// Len cantidad de terminales activas
func (r *TerminalRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terminals)
}
