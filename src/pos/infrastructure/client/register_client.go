package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"

	"github.com/shopspring/decimal"
)

const resourceRegisters = "registers"

// RegisterResponse sesión de caja según el backend
type RegisterResponse struct {
	ID             flexibleID                 `json:"id" validate:"required"`
	OperatorID     flexibleID                 `json:"operator_id"`
	OpeningAmount  decimal.Decimal            `json:"opening_amount"`
	SalesByTender  map[string]decimal.Decimal `json:"sales_by_tender"`
	ExpectedAmount *decimal.Decimal           `json:"expected_amount"`
	DeclaredAmount *decimal.Decimal           `json:"declared_amount"`
	Difference     *decimal.Decimal           `json:"difference"`
	Status         string                     `json:"status" validate:"required"`
	OpenedAt       time.Time                  `json:"opened_at"`
	ClosedAt       *time.Time                 `json:"closed_at"`
}

// OpenRegisterRequest request de apertura
type OpenRegisterRequest struct {
	OperatorID    string          `json:"operator_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseRegisterRequest request de cierre con el efectivo contado
type CloseRegisterRequest struct {
	DeclaredAmount decimal.Decimal `json:"declared_amount"`
}

// RegisterClient recurso /api/v1/registers
type RegisterClient struct {
	*BackendClient
}

func NewRegisterClient(base *BackendClient) *RegisterClient {
	return &RegisterClient{BackendClient: base}
}

// CurrentRegister caja abierta del operador; nil, nil si no tiene (404)
func (c *RegisterClient) CurrentRegister(ctx context.Context, sess *session.Session) (*entity.RegisterSession, error) {
	params := url.Values{}
	params.Set("operator_id", sess.OperatorID())

	var resp RegisterResponse
	err := c.do(ctx, sess, resourceRegisters, http.MethodGet, "/api/v1/registers/current", params, nil, &resp)
	if err != nil {
		if remote, ok := entity.AsRemote(err); ok && remote.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}

	register := resp.toEntity()
	if !register.IsOpen() {
		return nil, nil
	}
	return register, nil
}

func (c *RegisterClient) OpenRegister(ctx context.Context, sess *session.Session, openingAmount decimal.Decimal) (*entity.RegisterSession, error) {
	var resp RegisterResponse
	req := OpenRegisterRequest{OperatorID: sess.OperatorID(), OpeningAmount: openingAmount}
	if err := c.do(ctx, sess, resourceRegisters, http.MethodPost, "/api/v1/registers/open", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.toEntity(), nil
}

func (c *RegisterClient) CloseRegister(ctx context.Context, sess *session.Session, registerID string, declaredAmount decimal.Decimal) (*entity.RegisterSession, error) {
	var resp RegisterResponse
	path := "/api/v1/registers/" + pathEscape(registerID) + "/close"
	req := CloseRegisterRequest{DeclaredAmount: declaredAmount}
	if err := c.do(ctx, sess, resourceRegisters, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.toEntity(), nil
}

func (r RegisterResponse) toEntity() *entity.RegisterSession {
	sales := make(map[entity.Tender]decimal.Decimal, len(r.SalesByTender))
	for tender, amount := range r.SalesByTender {
		key := entity.Tender(strings.ToLower(tender))
		sales[key] = sales[key].Add(amount)
	}

	status := entity.RegisterClosed
	if strings.EqualFold(r.Status, string(entity.RegisterOpen)) {
		status = entity.RegisterOpen
	}

	return &entity.RegisterSession{
		ID:             string(r.ID),
		OperatorID:     string(r.OperatorID),
		OpeningAmount:  r.OpeningAmount,
		SalesByTender:  sales,
		ExpectedAmount: r.ExpectedAmount,
		DeclaredAmount: r.DeclaredAmount,
		Difference:     r.Difference,
		Status:         status,
		OpenedAt:       r.OpenedAt,
		ClosedAt:       r.ClosedAt,
	}
}
