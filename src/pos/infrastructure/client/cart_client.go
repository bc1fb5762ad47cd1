package client

import (
	"context"
	"net/http"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"

	"github.com/shopspring/decimal"
)

const resourceCart = "cart"

// CartItemResponse línea del carrito según el backend
type CartItemResponse struct {
	ID          flexibleID      `json:"id" validate:"required"`
	ProductID   flexibleID      `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	CategoryID  flexibleID      `json:"category_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Stock       int             `json:"stock"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

// CartResponse carrito completo según el backend
type CartResponse struct {
	OperatorID flexibleID         `json:"operator_id"`
	Items      []CartItemResponse `json:"items" validate:"dive"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
}

// AddCartItemRequest request para agregar un producto
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest request para cambiar la cantidad de una línea
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartClient recurso /api/v1/cart
type CartClient struct {
	*BackendClient
}

// NewCartClient crea el cliente del carrito
func NewCartClient(base *BackendClient) *CartClient {
	return &CartClient{BackendClient: base}
}

func (c *CartClient) GetCart(ctx context.Context, sess *session.Session) (*entity.Cart, error) {
	return c.send(ctx, sess, http.MethodGet, "/api/v1/cart", nil)
}

func (c *CartClient) AddItem(ctx context.Context, sess *session.Session, productID string, quantity int) (*entity.Cart, error) {
	return c.send(ctx, sess, http.MethodPost, "/api/v1/cart/items", AddCartItemRequest{ProductID: productID, Quantity: quantity})
}

func (c *CartClient) UpdateItem(ctx context.Context, sess *session.Session, itemID string, quantity int) (*entity.Cart, error) {
	return c.send(ctx, sess, http.MethodPut, "/api/v1/cart/items/"+pathEscape(itemID), UpdateCartItemRequest{Quantity: quantity})
}

func (c *CartClient) RemoveItem(ctx context.Context, sess *session.Session, itemID string) (*entity.Cart, error) {
	return c.send(ctx, sess, http.MethodDelete, "/api/v1/cart/items/"+pathEscape(itemID), nil)
}

func (c *CartClient) ClearCart(ctx context.Context, sess *session.Session) (*entity.Cart, error) {
	return c.send(ctx, sess, http.MethodDelete, "/api/v1/cart", nil)
}

// send todas las operaciones devuelven el carrito completo
func (c *CartClient) send(ctx context.Context, sess *session.Session, method, path string, body interface{}) (*entity.Cart, error) {
	var resp CartResponse
	if err := c.do(ctx, sess, resourceCart, method, path, nil, body, &resp); err != nil {
		return nil, err
	}
	cart := resp.toEntity(sess)
	return &cart, nil
}

func (r CartResponse) toEntity(sess *session.Session) entity.Cart {
	operatorID := string(r.OperatorID)
	if operatorID == "" && sess != nil {
		operatorID = sess.OperatorID()
	}

	items := make([]entity.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, entity.CartItem{
			ID:          string(item.ID),
			ProductID:   string(item.ProductID),
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			CategoryID:  string(item.CategoryID),
			UnitPrice:   item.UnitPrice,
			Stock:       item.Stock,
			Quantity:    item.Quantity,
		})
	}
	return entity.NewCart(operatorID, items)
}
