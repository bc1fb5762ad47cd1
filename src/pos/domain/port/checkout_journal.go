package port

import (
	"context"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/criteria"
)

// CheckoutJournal define el contrato para auditar las ventas finalizadas desde el POS
// Solo inserta y consulta; nunca modifica ni borra
type CheckoutJournal interface {
	// Create persiste un registro de venta finalizada
	Create(ctx context.Context, record *entity.CheckoutRecord) error

	// Search retorna los registros que cumplen el criteria
	Search(ctx context.Context, c criteria.Criteria) ([]*entity.CheckoutRecord, error)

	// Count retorna cuántos registros cumplen los filtros del criteria
	Count(ctx context.Context, c criteria.Criteria) (int, error)
}
