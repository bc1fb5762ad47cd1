package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutPhase fase del intento de cobro
type CheckoutPhase string

const (
	PhaseIdle       CheckoutPhase = "IDLE"
	PhaseReady      CheckoutPhase = "READY"
	PhaseSubmitting CheckoutPhase = "SUBMITTING"
	PhaseCompleted  CheckoutPhase = "COMPLETED"
)

// FinalizeCommand comando de finalización de venta enviado al backend
type FinalizeCommand struct {
	Reference  string `json:"reference"` // Idempotency reference generada por el POS
	OperatorID string `json:"operator_id"`
	RegisterID string `json:"register_id"`
	CustomerID string `json:"customer_id"`
	CouponCode string `json:"coupon_code,omitempty"`
	Tender     Tender `json:"payment_method"`
}

// SaleReceipt respuesta del backend al finalizar la venta
type SaleReceipt struct {
	SaleID         string `json:"sale_id"`
	ReceiptEmailed bool   `json:"receipt_emailed"`
}

// TerminalSelection selección persistida de la terminal (cliente y cupón elegidos)
type TerminalSelection struct {
	OperatorID string    `json:"operator_id"`
	Customer   *Customer `json:"customer,omitempty"`
	Coupon     *Coupon   `json:"coupon,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CheckoutRecord registro local de una venta finalizada (auditoría)
type CheckoutRecord struct {
	ID             uuid.UUID       `json:"id"`
	SaleID         string          `json:"sale_id"`
	OperatorID     string          `json:"operator_id"`
	CustomerID     string          `json:"customer_id"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	Tender         Tender          `json:"payment_method"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Final          decimal.Decimal `json:"final"`
	ItemCount      int             `json:"item_count"`
	ReceiptEmailed bool            `json:"receipt_emailed"`
	CreatedAt      time.Time       `json:"created_at"`

	Items []CheckoutRecordItem `json:"items,omitempty"`
}

// CheckoutRecordItem línea vendida (snapshot del carrito al momento de cobrar)
type CheckoutRecordItem struct {
	ID          uuid.UUID       `json:"id"`
	CheckoutID  uuid.UUID       `json:"checkout_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewCheckoutRecord arma el registro de auditoría de una venta confirmada por el backend
func NewCheckoutRecord(
	receipt SaleReceipt,
	cmd FinalizeCommand,
	cart Cart,
	discount DiscountResult,
) (*CheckoutRecord, error) {
	if cmd.OperatorID == "" {
		return nil, ErrOperatorRequired
	}
	if cmd.CustomerID == "" {
		return nil, ErrCustomerIDRequired
	}
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}

	record := &CheckoutRecord{
		ID:             uuid.New(),
		SaleID:         receipt.SaleID,
		OperatorID:     cmd.OperatorID,
		CustomerID:     cmd.CustomerID,
		CouponCode:     cmd.CouponCode,
		Tender:         cmd.Tender,
		Subtotal:       discount.Subtotal,
		Discount:       discount.DiscountAmount,
		Final:          discount.FinalTotal,
		ItemCount:      cart.ItemCount,
		ReceiptEmailed: receipt.ReceiptEmailed,
		CreatedAt:      time.Now(),
	}

	for _, item := range cart.Items {
		record.Items = append(record.Items, CheckoutRecordItem{
			ID:          uuid.New(),
			CheckoutID:  record.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	return record, nil
}
