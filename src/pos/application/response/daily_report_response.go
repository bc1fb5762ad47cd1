package response

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenderTotal ventas de un medio de pago en el día
type TenderTotal struct {
	PaymentMethod string          `json:"payment_method"`
	SalesCount    int             `json:"sales_count"`
	NetTotal      decimal.Decimal `json:"net_total"`
}

// DailyReportResponse reporte diario de las ventas cobradas desde el POS
type DailyReportResponse struct {
	Date               string          `json:"date"`                           // YYYY-MM-DD
	OperatorID         string          `json:"operator_id,omitempty"`          // Vacío = todos los operadores
	SalesCount         int             `json:"sales_count"`                    // Cantidad de ventas
	CouponSalesCount   int             `json:"coupon_sales_count"`             // Ventas con cupón
	ItemsSold          int             `json:"items_sold"`                     // Unidades vendidas
	GrossTotal         decimal.Decimal `json:"gross_total"`                    // Suma subtotal
	Discounts          decimal.Decimal `json:"discounts"`                      // Suma discount
	NetTotal           decimal.Decimal `json:"net_total"`                      // Suma final
	ByPaymentMethod    []TenderTotal   `json:"by_payment_method"`              // Desglose por medio de pago
	FirstTransactionAt *time.Time      `json:"first_transaction_at,omitempty"` // Primera venta del día
	LastTransactionAt  *time.Time      `json:"last_transaction_at,omitempty"`  // Última venta del día
}
