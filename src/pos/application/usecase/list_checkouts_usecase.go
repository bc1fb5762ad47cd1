package usecase

import (
	"context"

	"pos/src/pos/application/response"
	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/criteria"
)

// ListCheckoutsUseCase caso de uso para listar el journal del POS
type ListCheckoutsUseCase struct {
	journal port.CheckoutJournal
}

// NewListCheckoutsUseCase crea una nueva instancia
func NewListCheckoutsUseCase(journal port.CheckoutJournal) *ListCheckoutsUseCase {
	return &ListCheckoutsUseCase{journal: journal}
}

// Execute lista las ventas que cumplen el criteria
func (uc *ListCheckoutsUseCase) Execute(ctx context.Context, c criteria.Criteria) (*response.ListCheckoutsResponse, error) {
	records, err := uc.journal.Search(ctx, c)
	if err != nil {
		return nil, err
	}

	total, err := uc.journal.Count(ctx, c)
	if err != nil {
		return nil, err
	}

	resp := &response.ListCheckoutsResponse{Data: toListItems(records), Total: total}
	if c.Limit != nil {
		resp.Limit = *c.Limit
	}
	if c.Offset != nil {
		resp.Offset = *c.Offset
	}
	return resp, nil
}

func toListItems(records []*entity.CheckoutRecord) []*response.CheckoutListItem {
	items := make([]*response.CheckoutListItem, 0, len(records))
	for _, r := range records {
		items = append(items, &response.CheckoutListItem{
			ID:             r.ID,
			SaleID:         r.SaleID,
			OperatorID:     r.OperatorID,
			CustomerID:     r.CustomerID,
			CouponCode:     r.CouponCode,
			PaymentMethod:  string(r.Tender),
			Subtotal:       r.Subtotal,
			Discount:       r.Discount,
			Final:          r.Final,
			ItemCount:      r.ItemCount,
			ReceiptEmailed: r.ReceiptEmailed,
			CreatedAt:      r.CreatedAt,
		})
	}
	return items
}
