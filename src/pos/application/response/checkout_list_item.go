package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutListItem venta del journal para listados
type CheckoutListItem struct {
	ID             uuid.UUID       `json:"id"`
	SaleID         string          `json:"sale_id"`
	OperatorID     string          `json:"operator_id"`
	CustomerID     string          `json:"customer_id"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Final          decimal.Decimal `json:"final"`
	ItemCount      int             `json:"item_count"`
	ReceiptEmailed bool            `json:"receipt_emailed"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ListCheckoutsResponse respuesta paginada
type ListCheckoutsResponse struct {
	Data   []*CheckoutListItem `json:"data"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}
