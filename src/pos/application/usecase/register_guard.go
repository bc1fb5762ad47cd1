package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"

	"github.com/shopspring/decimal"
)

// RegisterChecker pre-chequeo sincrónico de caja abierta
type RegisterChecker interface {
	RequireOpen() error
}

// CloseResult resultado del arqueo al cerrar la caja
type CloseResult struct {
	Session    *entity.RegisterSession `json:"session"`
	Expected   decimal.Decimal         `json:"expected"`
	Declared   decimal.Decimal         `json:"declared"`
	Difference decimal.Decimal         `json:"difference"`
	Outcome    entity.CloseOutcome     `json:"outcome"`
	TotalSales decimal.Decimal         `json:"total_sales"`
	Notice     *entity.Notice          `json:"notice"`
}

// RegisterGuard conoce el estado de la caja del operador.
// El chequeo es solo del lado del POS; el backend vuelve a validarlo.
type RegisterGuard struct {
	gateway port.RegisterGateway
	sess    *session.Session

	mu      sync.RWMutex
	current *entity.RegisterSession
}

// NewRegisterGuard crea el guard de caja de una terminal
func NewRegisterGuard(gateway port.RegisterGateway, sess *session.Session) *RegisterGuard {
	return &RegisterGuard{gateway: gateway, sess: sess}
}

// CheckOpen consulta al backend la caja abierta del operador (nil = cerrada)
func (g *RegisterGuard) CheckOpen(ctx context.Context) (*entity.RegisterSession, error) {
	current, err := g.gateway.CurrentRegister(ctx, g.sess)
	if err != nil {
		return g.Current(), err
	}

	g.mu.Lock()
	g.current = current
	g.mu.Unlock()

	return current, nil
}

// IsOpen estado local, sin red
func (g *RegisterGuard) IsOpen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current != nil && g.current.IsOpen()
}

// RequireOpen rechaza la acción si la caja no está abierta (o su estado es desconocido)
func (g *RegisterGuard) RequireOpen() error {
	if !g.IsOpen() {
		return entity.NewValidationError(entity.ErrRegisterClosed)
	}
	return nil
}

// Current sesión de caja conocida
func (g *RegisterGuard) Current() *entity.RegisterSession {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil
	}
	current := *g.current
	return &current
}

// Open abre la caja con el monto inicial en efectivo
func (g *RegisterGuard) Open(ctx context.Context, openingAmount decimal.Decimal) (*entity.RegisterSession, *entity.Notice, error) {
	if openingAmount.IsNegative() {
		return nil, nil, entity.NewValidationError(entity.ErrNegativeAmount)
	}

	opened, err := g.gateway.OpenRegister(ctx, g.sess, openingAmount)
	if err != nil {
		return nil, nil, err
	}
	g.mu.Lock()
	g.current = opened
	g.mu.Unlock()

	log.Printf("✅ Register %s opened by operator %s with %s", opened.ID, g.sess.OperatorID(), openingAmount.StringFixed(2))
	return opened, entity.NewNotice(entity.NoticeSuccess, "register opened"), nil
}

// Close cierra la caja con el efectivo contado y clasifica la diferencia
func (g *RegisterGuard) Close(ctx context.Context, declaredAmount decimal.Decimal) (*CloseResult, error) {
	if declaredAmount.IsNegative() {
		return nil, entity.NewValidationError(entity.ErrNegativeAmount)
	}

	current := g.Current()
	if current == nil || !current.IsOpen() {
		return nil, entity.NewValidationError(entity.ErrRegisterNotOpen)
	}

	closed, err := g.gateway.CloseRegister(ctx, g.sess, current.ID, declaredAmount)
	if err != nil {
		return nil, err
	}

	expected := current.Expected()
	if closed.ExpectedAmount != nil {
		expected = *closed.ExpectedAmount
	}
	difference := declaredAmount.Sub(expected)
	outcome := entity.ClassifyDifference(difference)

	totals := closed
	if len(closed.SalesByTender) == 0 {
		totals = current
	}

	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()

	log.Printf("✅ Register %s closed: expected=%s declared=%s outcome=%s",
		current.ID, expected.StringFixed(2), declaredAmount.StringFixed(2), outcome)

	return &CloseResult{
		Session:    closed,
		Expected:   expected,
		Declared:   declaredAmount,
		Difference: difference,
		Outcome:    outcome,
		TotalSales: totals.TotalSales(),
		Notice:     closeNotice(outcome, difference),
	}, nil
}

func closeNotice(outcome entity.CloseOutcome, difference decimal.Decimal) *entity.Notice {
	switch outcome {
	case entity.CloseSurplus:
		return entity.NewNotice(entity.NoticeWarning, fmt.Sprintf("register closed with a surplus of %s", difference.StringFixed(2)))
	case entity.CloseShortage:
		return entity.NewNotice(entity.NoticeDanger, fmt.Sprintf("register closed with a shortage of %s", difference.Abs().StringFixed(2)))
	}
	return entity.NewNotice(entity.NoticeSuccess, "register closed, cash is balanced")
}
