package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tender medio de pago con el que se cobra la venta
type Tender string

const (
	TenderCash     Tender = "cash"
	TenderDebit    Tender = "debit"
	TenderCredit   Tender = "credit"
	TenderTransfer Tender = "transfer"
)

// ParseTender valida el medio de pago; vacío = efectivo
func ParseTender(raw string) (Tender, error) {
	switch t := Tender(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return TenderCash, nil
	case TenderCash, TenderDebit, TenderCredit, TenderTransfer:
		return t, nil
	}
	return "", ErrInvalidTender
}

// RegisterStatus estado de la caja
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "OPEN"
	RegisterClosed RegisterStatus = "CLOSED"
)

// RegisterSession sesión de caja de un operador
type RegisterSession struct {
	ID             string                     `json:"id"`
	OperatorID     string                     `json:"operator_id"`
	OpeningAmount  decimal.Decimal            `json:"opening_amount"`
	SalesByTender  map[Tender]decimal.Decimal `json:"sales_by_tender"`
	ExpectedAmount *decimal.Decimal           `json:"expected_amount,omitempty"` // Informado por el backend al cerrar
	DeclaredAmount *decimal.Decimal           `json:"declared_amount,omitempty"`
	Difference     *decimal.Decimal           `json:"difference,omitempty"`
	Status         RegisterStatus             `json:"status"`
	OpenedAt       time.Time                  `json:"opened_at"`
	ClosedAt       *time.Time                 `json:"closed_at,omitempty"`
}

// IsOpen indica si la caja sigue abierta
func (s RegisterSession) IsOpen() bool {
	return s.Status == RegisterOpen
}

// Expected efectivo esperado en caja: el del backend, o apertura + ventas en efectivo
func (s RegisterSession) Expected() decimal.Decimal {
	if s.ExpectedAmount != nil {
		return *s.ExpectedAmount
	}
	return s.OpeningAmount.Add(s.SalesByTender[TenderCash])
}

// TotalSales suma de ventas de todos los medios de pago
func (s RegisterSession) TotalSales() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range s.SalesByTender {
		total = total.Add(amount)
	}
	return total
}

// CloseOutcome resultado del arqueo
type CloseOutcome string

const (
	CloseBalanced CloseOutcome = "BALANCED"
	CloseSurplus  CloseOutcome = "SURPLUS"
	CloseShortage CloseOutcome = "SHORTAGE"
)

// ClassifyDifference clasifica la diferencia declarado − esperado
func ClassifyDifference(difference decimal.Decimal) CloseOutcome {
	switch {
	case difference.IsPositive():
		return CloseSurplus
	case difference.IsNegative():
		return CloseShortage
	}
	return CloseBalanced
}
