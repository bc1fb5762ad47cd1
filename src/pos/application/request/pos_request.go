package request

import "github.com/shopspring/decimal"

// SearchRequest texto de búsqueda para el stream con debounce
type SearchRequest struct {
	Query string `json:"q"`
}

// SelectCustomerRequest cliente elegido de los resultados de búsqueda
type SelectCustomerRequest struct {
	ID        string `json:"id" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Document  string `json:"document"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
}

// ApplyCouponRequest código de cupón
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// RedeemRewardRequest canje de recompensa; sin customer_id se usa el cliente seleccionado
type RedeemRewardRequest struct {
	CustomerID string `json:"customer_id"`
	Confirmed  bool   `json:"confirmed"`
}

// OpenRegisterRequest apertura de caja
type OpenRegisterRequest struct {
	OpeningAmount *decimal.Decimal `json:"opening_amount" binding:"required"`
}

// CloseRegisterRequest cierre de caja con el efectivo contado
type CloseRegisterRequest struct {
	DeclaredAmount *decimal.Decimal `json:"declared_amount" binding:"required"`
}

// FinalizeRequest medio de pago; vacío = efectivo
type FinalizeRequest struct {
	PaymentMethod string `json:"payment_method"`
}
