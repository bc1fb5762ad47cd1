package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CouponKind tipo de descuento del cupón
type CouponKind string

const (
	CouponFixed      CouponKind = "FIXED"
	CouponPercentage CouponKind = "PERCENTAGE"
)

// CouponStatus estado del cupón
type CouponStatus string

const (
	CouponActive  CouponStatus = "ACTIVE"
	CouponUsed    CouponStatus = "USED"
	CouponExpired CouponStatus = "EXPIRED"
)

// ParseCouponKind normaliza el tipo recibido del backend
func ParseCouponKind(raw string) (CouponKind, error) {
	switch CouponKind(strings.ToUpper(strings.TrimSpace(raw))) {
	case CouponFixed:
		return CouponFixed, nil
	case CouponPercentage:
		return CouponPercentage, nil
	}
	return "", ErrInvalidCouponKind
}

// ParseCouponStatus normaliza el estado; cualquier valor desconocido se trata como vencido
func ParseCouponStatus(raw string) CouponStatus {
	switch CouponStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case CouponActive:
		return CouponActive
	case CouponUsed:
		return CouponUsed
	}
	return CouponExpired
}

// Coupon cupón de descuento de un cliente
type Coupon struct {
	Code       string          `json:"code"`
	Kind       CouponKind      `json:"kind"`
	Value      decimal.Decimal `json:"value"`
	CategoryID string          `json:"category_id,omitempty"` // Vacío = aplica a todo el carrito
	Status     CouponStatus    `json:"status"`
	CustomerID string          `json:"customer_id"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// UsableBy un cupón solo es válido para su dueño y mientras esté activo
func (c Coupon) UsableBy(customerID string) bool {
	return customerID != "" && c.CustomerID == customerID && c.Status == CouponActive
}

// IsCategorized indica si el cupón está limitado a una categoría
func (c Coupon) IsCategorized() bool {
	return c.CategoryID != ""
}
