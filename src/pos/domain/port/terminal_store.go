package port

import (
	"context"

	"pos/src/pos/domain/entity"
)

// TerminalStore persiste la selección de cada terminal entre reinicios
type TerminalStore interface {
	// Load devuelve nil, nil si no hay selección guardada
	Load(ctx context.Context, operatorID string) (*entity.TerminalSelection, error)
	Save(ctx context.Context, selection *entity.TerminalSelection) error
	Delete(ctx context.Context, operatorID string) error
}
