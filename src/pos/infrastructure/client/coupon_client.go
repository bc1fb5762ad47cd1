package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"

	"github.com/shopspring/decimal"
)

const resourceCoupons = "coupons"

// CouponResponse cupón según el backend
type CouponResponse struct {
	Code       string          `json:"code" validate:"required"`
	Type       string          `json:"type" validate:"required"`
	Value      decimal.Decimal `json:"value"`
	CategoryID flexibleID      `json:"category_id"`
	Status     string          `json:"status"`
	CustomerID flexibleID      `json:"customer_id"`
	ExpiresAt  *time.Time      `json:"expires_at"`
}

// ValidateCouponRequest request de validación
type ValidateCouponRequest struct {
	Code       string `json:"code"`
	CustomerID string `json:"customer_id"`
}

// ValidateCouponResponse resultado de la validación
type ValidateCouponResponse struct {
	Valid   bool            `json:"valid"`
	Message string          `json:"message"`
	Coupon  *CouponResponse `json:"coupon"`
}

// CouponClient recurso /api/v1/coupons
type CouponClient struct {
	*BackendClient
}

func NewCouponClient(base *BackendClient) *CouponClient {
	return &CouponClient{BackendClient: base}
}

// ValidateCoupon pide al backend que confirme el cupón para el cliente.
// Un cupón rechazado se informa como RemoteError 422 con el motivo del servidor.
func (c *CouponClient) ValidateCoupon(ctx context.Context, sess *session.Session, code, customerID string) (*entity.Coupon, error) {
	var resp ValidateCouponResponse
	req := ValidateCouponRequest{Code: code, CustomerID: customerID}
	if err := c.do(ctx, sess, resourceCoupons, http.MethodPost, "/api/v1/coupons/validate", nil, req, &resp); err != nil {
		return nil, err
	}

	if !resp.Valid || resp.Coupon == nil {
		message := resp.Message
		if message == "" {
			message = entity.ErrCouponNotApplicable.Error()
		}
		return nil, &entity.RemoteError{Status: http.StatusUnprocessableEntity, Message: message}
	}

	coupon, err := resp.Coupon.toEntity()
	if err != nil {
		return nil, &entity.RemoteError{Err: err}
	}
	if coupon.CustomerID == "" {
		coupon.CustomerID = customerID
	}
	return coupon, nil
}

func (r CouponResponse) toEntity() (*entity.Coupon, error) {
	kind, err := entity.ParseCouponKind(r.Type)
	if err != nil {
		return nil, fmt.Errorf("coupon %s: %w", r.Code, err)
	}
	return &entity.Coupon{
		Code:       r.Code,
		Kind:       kind,
		Value:      r.Value,
		CategoryID: string(r.CategoryID),
		Status:     entity.ParseCouponStatus(r.Status),
		CustomerID: string(r.CustomerID),
		ExpiresAt:  r.ExpiresAt,
	}, nil
}
