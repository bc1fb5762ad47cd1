// Package usecasetest provee un backend en memoria para probar los casos de uso sin red.
package usecasetest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/criteria"
	"pos/src/shared/domain/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// TestSecret secreto con el que se firman los tokens de prueba
const TestSecret = "test-secret"

// Verifier verificador configurado con TestSecret
func Verifier() *session.Verifier {
	return session.NewVerifier(TestSecret)
}

// Token firma un token de operador con la clave indicada
func Token(operatorID, name, secret string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": operatorID,
		"name":    name,
		"role":    "cashier",
	}).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return token
}

// NewSession crea una sesión con un token firmado para el operador
func NewSession(operatorID string) *session.Session {
	sess, err := Verifier().New(Token(operatorID, "Operator "+operatorID, TestSecret))
	if err != nil {
		panic(err)
	}
	return sess
}

// Backend implementa todos los gateways del backend en memoria.
// Cada llamada queda contada por nombre de operación.
type Backend struct {
	mu sync.Mutex

	Products  map[string]entity.Product
	Items     []entity.CartItem
	Customers []entity.Customer
	RoleIDs   map[string]string
	Coupons   map[string]entity.Coupon
	Loyalty   map[string]entity.LoyaltySnapshot
	Register  *entity.RegisterSession

	// Errores forzados por operación ("AddItem", "FinalizeSale", ...)
	Failures map[string]error

	calls  map[string]int
	holds  map[string]*hold
	nextID int
	sales  int
}

func NewBackend() *Backend {
	return &Backend{
		Products: make(map[string]entity.Product),
		RoleIDs:  map[string]string{"customer": "3"},
		Coupons:  make(map[string]entity.Coupon),
		Loyalty:  make(map[string]entity.LoyaltySnapshot),
		Failures: make(map[string]error),
		calls:    make(map[string]int),
		holds:    make(map[string]*hold),
	}
}

type hold struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// Hold retiene la operación (AddItem, FinalizeSale, CurrentRegister) hasta llamar a release.
// entered avisa cuando una llamada quedó retenida.
func (b *Backend) Hold(operation string) (entered <-chan struct{}, release func()) {
	h := &hold{entered: make(chan struct{}, 1), release: make(chan struct{})}
	b.mu.Lock()
	b.holds[operation] = h
	b.mu.Unlock()

	return h.entered, func() {
		h.once.Do(func() {
			b.mu.Lock()
			delete(b.holds, operation)
			b.mu.Unlock()
			close(h.release)
		})
	}
}

func (b *Backend) wait(operation string) {
	b.mu.Lock()
	h := b.holds[operation]
	b.mu.Unlock()
	if h == nil {
		return
	}
	select {
	case h.entered <- struct{}{}:
	default:
	}
	<-h.release
}

// Calls cantidad de invocaciones de una operación
func (b *Backend) Calls(operation string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[operation]
}

// TotalCalls cantidad total de invocaciones
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

// Fail fuerza un error para una operación (nil lo quita)
func (b *Backend) Fail(operation string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.Failures, operation)
		return
	}
	b.Failures[operation] = err
}

// OpenRegisterFor deja una caja abierta en el backend
func (b *Backend) OpenRegisterFor(operatorID string, opening int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Register = &entity.RegisterSession{
		ID:            "reg-1",
		OperatorID:    operatorID,
		OpeningAmount: decimal.NewFromInt(opening),
		SalesByTender: map[entity.Tender]decimal.Decimal{},
		Status:        entity.RegisterOpen,
	}
}

// AddProduct agrega un producto al catálogo
func (b *Backend) AddProduct(id, name, categoryID string, price int64, stock int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Products[id] = entity.Product{
		ID:         id,
		Code:       "SKU-" + id,
		Name:       name,
		Price:      decimal.NewFromInt(price),
		CategoryID: categoryID,
		Stock:      stock,
	}
}

func (b *Backend) enter(operation string) error {
	b.calls[operation]++
	return b.Failures[operation]
}

func (b *Backend) cart(sess *session.Session) *entity.Cart {
	cart := entity.NewCart(sess.OperatorID(), append([]entity.CartItem(nil), b.Items...))
	return &cart
}

// ---- CartGateway ----

func (b *Backend) GetCart(_ context.Context, sess *session.Session) (*entity.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("GetCart"); err != nil {
		return nil, err
	}
	return b.cart(sess), nil
}

func (b *Backend) AddItem(_ context.Context, sess *session.Session, productID string, quantity int) (*entity.Cart, error) {
	b.wait("AddItem")
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("AddItem"); err != nil {
		return nil, err
	}

	product, ok := b.Products[productID]
	if !ok {
		return nil, &entity.RemoteError{Status: 404, Message: "product not found"}
	}
	for i, item := range b.Items {
		if item.ProductID == productID {
			b.Items[i].Quantity += quantity
			return b.cart(sess), nil
		}
	}

	b.nextID++
	b.Items = append(b.Items, entity.CartItem{
		ID:          "item-" + strconv.Itoa(b.nextID),
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductCode: product.Code,
		CategoryID:  product.CategoryID,
		UnitPrice:   product.Price,
		Stock:       product.Stock,
		Quantity:    quantity,
	})
	return b.cart(sess), nil
}

func (b *Backend) UpdateItem(_ context.Context, sess *session.Session, itemID string, quantity int) (*entity.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("UpdateItem"); err != nil {
		return nil, err
	}
	for i, item := range b.Items {
		if item.ID == itemID {
			if quantity == 0 {
				b.Items = append(b.Items[:i], b.Items[i+1:]...)
			} else {
				b.Items[i].Quantity = quantity
			}
			return b.cart(sess), nil
		}
	}
	return nil, &entity.RemoteError{Status: 404, Message: "item not found"}
}

func (b *Backend) RemoveItem(_ context.Context, sess *session.Session, itemID string) (*entity.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("RemoveItem"); err != nil {
		return nil, err
	}
	for i, item := range b.Items {
		if item.ID == itemID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return b.cart(sess), nil
		}
	}
	return nil, &entity.RemoteError{Status: 404, Message: "item not found"}
}

func (b *Backend) ClearCart(_ context.Context, sess *session.Session) (*entity.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ClearCart"); err != nil {
		return nil, err
	}
	b.Items = nil
	return b.cart(sess), nil
}

// ---- CatalogGateway ----

func (b *Backend) SearchProducts(_ context.Context, _ *session.Session, query string, pageSize int) ([]entity.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("SearchProducts"); err != nil {
		return nil, err
	}

	var found []entity.Product
	for _, p := range b.Products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) || p.Code == query {
			found = append(found, p)
		}
		if len(found) == pageSize {
			break
		}
	}
	return found, nil
}

// ---- DirectoryGateway ----

func (b *Backend) FilterUsers(_ context.Context, _ *session.Session, query, roleID string, _ int) ([]entity.Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("FilterUsers"); err != nil {
		return nil, err
	}
	if roleID != b.RoleIDs["customer"] {
		return nil, nil
	}

	var found []entity.Customer
	for _, c := range b.Customers {
		if strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(query)) || c.Document == query {
			found = append(found, c)
		}
	}
	return found, nil
}

func (b *Backend) RoleIDByName(_ context.Context, _ *session.Session, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("RoleIDByName"); err != nil {
		return "", err
	}
	id, ok := b.RoleIDs[name]
	if !ok {
		return "", &entity.RemoteError{Status: 404, Message: "role not found"}
	}
	return id, nil
}

// ---- CouponGateway ----

func (b *Backend) ValidateCoupon(_ context.Context, _ *session.Session, code, customerID string) (*entity.Coupon, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ValidateCoupon"); err != nil {
		return nil, err
	}
	coupon, ok := b.Coupons[code]
	if !ok || coupon.CustomerID != customerID || coupon.Status != entity.CouponActive {
		return nil, &entity.RemoteError{Status: 422, Message: "coupon is not valid"}
	}
	return &coupon, nil
}

// ---- LoyaltyGateway ----

func (b *Backend) GetSnapshot(_ context.Context, _ *session.Session, customerID string) (*entity.LoyaltySnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("GetSnapshot"); err != nil {
		return nil, err
	}
	snapshot, ok := b.Loyalty[customerID]
	if !ok {
		snapshot = entity.LoyaltySnapshot{CustomerID: customerID}
	}
	return &snapshot, nil
}

func (b *Backend) RedeemReward(_ context.Context, _ *session.Session, customerID, rewardID string) (*entity.Coupon, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("RedeemReward"); err != nil {
		return nil, err
	}

	snapshot := b.Loyalty[customerID]
	for _, reward := range snapshot.Rewards {
		if reward.ID != rewardID {
			continue
		}
		if snapshot.Points < reward.PointsCost {
			return nil, &entity.RemoteError{Status: 409, Message: "insufficient points"}
		}
		snapshot.Points -= reward.PointsCost
		coupon := entity.Coupon{
			Code:       fmt.Sprintf("RW-%s-%s", customerID, rewardID),
			Kind:       entity.CouponFixed,
			Value:      decimal.NewFromInt(int64(reward.PointsCost) / 10),
			Status:     entity.CouponActive,
			CustomerID: customerID,
		}
		snapshot.Coupons = append(snapshot.Coupons, coupon)
		b.Loyalty[customerID] = snapshot
		b.Coupons[coupon.Code] = coupon
		return &coupon, nil
	}
	return nil, &entity.RemoteError{Status: 404, Message: "reward not found"}
}

// ---- RegisterGateway ----

func (b *Backend) CurrentRegister(_ context.Context, _ *session.Session) (*entity.RegisterSession, error) {
	b.wait("CurrentRegister")
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CurrentRegister"); err != nil {
		return nil, err
	}
	if b.Register == nil || !b.Register.IsOpen() {
		return nil, nil
	}
	register := *b.Register
	return &register, nil
}

func (b *Backend) OpenRegister(_ context.Context, sess *session.Session, openingAmount decimal.Decimal) (*entity.RegisterSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("OpenRegister"); err != nil {
		return nil, err
	}
	if b.Register != nil && b.Register.IsOpen() {
		return nil, &entity.RemoteError{Status: 409, Message: "register already open"}
	}
	b.Register = &entity.RegisterSession{
		ID:            "reg-1",
		OperatorID:    sess.OperatorID(),
		OpeningAmount: openingAmount,
		SalesByTender: map[entity.Tender]decimal.Decimal{},
		Status:        entity.RegisterOpen,
	}
	register := *b.Register
	return &register, nil
}

func (b *Backend) CloseRegister(_ context.Context, _ *session.Session, registerID string, declaredAmount decimal.Decimal) (*entity.RegisterSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CloseRegister"); err != nil {
		return nil, err
	}
	if b.Register == nil || b.Register.ID != registerID {
		return nil, &entity.RemoteError{Status: 404, Message: "register not found"}
	}
	expected := b.Register.Expected()
	difference := declaredAmount.Sub(expected)
	b.Register.Status = entity.RegisterClosed
	b.Register.ExpectedAmount = &expected
	b.Register.DeclaredAmount = &declaredAmount
	b.Register.Difference = &difference
	register := *b.Register
	return &register, nil
}

// ---- SaleGateway ----

func (b *Backend) FinalizeSale(_ context.Context, _ *session.Session, cmd entity.FinalizeCommand) (*entity.SaleReceipt, error) {
	b.wait("FinalizeSale")
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("FinalizeSale"); err != nil {
		return nil, err
	}
	if len(b.Items) == 0 {
		return nil, &entity.RemoteError{Status: 422, Message: "cart is empty"}
	}

	total := entity.NewCart(cmd.OperatorID, b.Items).Subtotal
	if b.Register != nil {
		b.Register.SalesByTender[cmd.Tender] = b.Register.SalesByTender[cmd.Tender].Add(total)
	}
	if cmd.CouponCode != "" {
		coupon := b.Coupons[cmd.CouponCode]
		coupon.Status = entity.CouponUsed
		b.Coupons[cmd.CouponCode] = coupon
	}

	b.Items = nil
	b.sales++
	return &entity.SaleReceipt{SaleID: "sale-" + strconv.Itoa(b.sales), ReceiptEmailed: true}, nil
}

// Journal journal en memoria
type Journal struct {
	mu      sync.Mutex
	Records []*entity.CheckoutRecord
	Err     error
}

func (j *Journal) Create(_ context.Context, record *entity.CheckoutRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	j.Records = append(j.Records, record)
	return nil
}

func (j *Journal) Search(_ context.Context, _ criteria.Criteria) ([]*entity.CheckoutRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*entity.CheckoutRecord(nil), j.Records...), j.Err
}

func (j *Journal) Count(_ context.Context, _ criteria.Criteria) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.Records), j.Err
}

// Len cantidad de registros
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.Records)
}
