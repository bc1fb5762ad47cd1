package client

import (
	"context"
	"net/http"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"
)

const resourceSales = "sales"

// FinalizeSaleResponse venta creada por el backend
type FinalizeSaleResponse struct {
	SaleID         flexibleID `json:"sale_id" validate:"required"`
	ReceiptEmailed bool       `json:"receipt_emailed"`
}

// SaleClient recurso /api/v1/sales
type SaleClient struct {
	*BackendClient
}

func NewSaleClient(base *BackendClient) *SaleClient {
	return &SaleClient{BackendClient: base}
}

// FinalizeSale convierte el carrito del operador en una venta.
// El backend descuenta stock, acredita puntos y envía el comprobante por email.
func (c *SaleClient) FinalizeSale(ctx context.Context, sess *session.Session, cmd entity.FinalizeCommand) (*entity.SaleReceipt, error) {
	var resp FinalizeSaleResponse
	if err := c.do(ctx, sess, resourceSales, http.MethodPost, "/api/v1/sales/finalize", nil, cmd, &resp); err != nil {
		return nil, err
	}
	return &entity.SaleReceipt{
		SaleID:         string(resp.SaleID),
		ReceiptEmailed: resp.ReceiptEmailed,
	}, nil
}
