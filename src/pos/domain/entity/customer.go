package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Customer cliente del directorio; el POS solo lo referencia por ID
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Document  string `json:"document,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Reward recompensa canjeable con puntos
type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PointsCost  int    `json:"points_cost"`
	Reachable   bool   `json:"reachable"`
}

// LoyaltySnapshot estado de fidelidad de un cliente
type LoyaltySnapshot struct {
	CustomerID    string          `json:"customer_id"`
	Points        int             `json:"points"`
	MonetaryValue decimal.Decimal `json:"monetary_value"`
	Coupons       []Coupon        `json:"coupons"`
	Rewards       []Reward        `json:"rewards"`
}

// UsableCoupons cupones que el cliente puede usar ahora
func (s LoyaltySnapshot) UsableCoupons() []Coupon {
	var usable []Coupon
	for _, c := range s.Coupons {
		if c.UsableBy(s.CustomerID) {
			usable = append(usable, c)
		}
	}
	return usable
}
