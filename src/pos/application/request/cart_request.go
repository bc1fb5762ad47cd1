package request

import (
	"encoding/json"
	"strings"
)

// AddCartItemRequest producto a agregar al carrito
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest nueva cantidad tal como la tipeó el operador
type UpdateCartItemRequest struct {
	Quantity RawQuantity `json:"quantity"`
}

// RawQuantity conserva el texto original (número o string) para validarlo en el caso de uso
type RawQuantity string

func (q *RawQuantity) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*q = RawQuantity(text)
		return nil
	}
	*q = RawQuantity(strings.TrimSpace(string(data)))
	return nil
}
