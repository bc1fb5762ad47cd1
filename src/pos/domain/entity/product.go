package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo tal como lo devuelve la búsqueda remota
type Product struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	CategoryID     string          `json:"category_id,omitempty"`
	Stock          int             `json:"stock"`           // Stock informado por el backend
	AvailableStock int             `json:"available_stock"` // Stock menos lo ya cargado en el carrito
}

// AnnotateAvailability descuenta del stock lo que ya está en el carrito (piso 0)
func AnnotateAvailability(products []Product, cart Cart) []Product {
	annotated := make([]Product, 0, len(products))
	for _, p := range products {
		available := p.Stock - cart.QuantityOf(p.ID)
		if available < 0 {
			available = 0
		}
		p.AvailableStock = available
		annotated = append(annotated, p)
	}
	return annotated
}
