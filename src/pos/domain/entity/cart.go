package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CartItem representa una línea del carrito (Entity dentro del Aggregate)
// Los datos del producto vienen denormalizados desde el backend
type CartItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	CategoryID  string          `json:"category_id,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Stock       int             `json:"stock"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"` // unit_price × quantity
}

// Cart carrito del operador (Aggregate Root, el servidor es la fuente de verdad)
type Cart struct {
	OperatorID string          `json:"operator_id"`
	Items      []CartItem      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`   // Suma de subtotales
	ItemCount  int             `json:"item_count"` // Unidades totales
}

// NewCart arma el carrito recalculando los subtotales a partir de los items.
// Un subtotal informado por el servidor que no coincida se reemplaza.
func NewCart(operatorID string, items []CartItem) Cart {
	cart := Cart{
		OperatorID: operatorID,
		Items:      make([]CartItem, 0, len(items)),
		Subtotal:   decimal.Zero,
	}

	for _, item := range items {
		if item.UnitPrice.IsNegative() {
			item.UnitPrice = decimal.Zero
		}
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		cart.Subtotal = cart.Subtotal.Add(item.Subtotal)
		cart.ItemCount += item.Quantity
		cart.Items = append(cart.Items, item)
	}

	return cart
}

// EmptyCart carrito vacío para un operador
func EmptyCart(operatorID string) Cart {
	return NewCart(operatorID, nil)
}

// IsEmpty indica si el carrito no tiene items
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// QuantityOf retorna las unidades de un producto ya cargadas en el carrito
func (c Cart) QuantityOf(productID string) int {
	total := 0
	for _, item := range c.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// Item busca una línea por su ID
func (c Cart) Item(itemID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return CartItem{}, false
}

// SubtotalForCategory suma los subtotales de los items de una categoría
func (c Cart) SubtotalForCategory(categoryID string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		if item.CategoryID == categoryID {
			total = total.Add(item.Subtotal)
		}
	}
	return total
}

// StockWarning devuelve un aviso si alguna línea supera el stock informado.
// El backend es quien valida el stock; acá solo se advierte.
func StockWarning(c Cart) *Notice {
	var names []string
	for _, item := range c.Items {
		if item.Quantity > item.Stock {
			names = append(names, fmt.Sprintf("%s (stock %d)", item.ProductName, item.Stock))
		}
	}
	if len(names) == 0 {
		return nil
	}
	return NewNotice(NoticeWarning, "quantity above available stock: "+strings.Join(names, ", "))
}
