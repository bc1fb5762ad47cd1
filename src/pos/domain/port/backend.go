package port

import (
	"context"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"

	"github.com/shopspring/decimal"
)

// CartGateway recurso remoto del carrito.
// Toda operación devuelve el carrito completo según el servidor.
type CartGateway interface {
	GetCart(ctx context.Context, sess *session.Session) (*entity.Cart, error)
	AddItem(ctx context.Context, sess *session.Session, productID string, quantity int) (*entity.Cart, error)
	UpdateItem(ctx context.Context, sess *session.Session, itemID string, quantity int) (*entity.Cart, error)
	RemoveItem(ctx context.Context, sess *session.Session, itemID string) (*entity.Cart, error)
	ClearCart(ctx context.Context, sess *session.Session) (*entity.Cart, error)
}

// CatalogGateway búsqueda de productos
type CatalogGateway interface {
	SearchProducts(ctx context.Context, sess *session.Session, query string, pageSize int) ([]entity.Product, error)
}

// DirectoryGateway directorio de usuarios y roles
type DirectoryGateway interface {
	FilterUsers(ctx context.Context, sess *session.Session, query, roleID string, pageSize int) ([]entity.Customer, error)
	RoleIDByName(ctx context.Context, sess *session.Session, name string) (string, error)
}

// RoleResolver resuelve (y memoriza) el ID de un rol por nombre
type RoleResolver interface {
	ResolveRoleID(ctx context.Context, sess *session.Session, name string) (string, error)
}

// CouponGateway validación de cupones
type CouponGateway interface {
	ValidateCoupon(ctx context.Context, sess *session.Session, code, customerID string) (*entity.Coupon, error)
}

// LoyaltyGateway saldo de puntos, cupones y recompensas
type LoyaltyGateway interface {
	GetSnapshot(ctx context.Context, sess *session.Session, customerID string) (*entity.LoyaltySnapshot, error)
	RedeemReward(ctx context.Context, sess *session.Session, customerID, rewardID string) (*entity.Coupon, error)
}

// RegisterGateway sesiones de caja.
// CurrentRegister devuelve nil, nil cuando el operador no tiene caja abierta.
type RegisterGateway interface {
	CurrentRegister(ctx context.Context, sess *session.Session) (*entity.RegisterSession, error)
	OpenRegister(ctx context.Context, sess *session.Session, openingAmount decimal.Decimal) (*entity.RegisterSession, error)
	CloseRegister(ctx context.Context, sess *session.Session, registerID string, declaredAmount decimal.Decimal) (*entity.RegisterSession, error)
}

// SaleGateway finalización de ventas
type SaleGateway interface {
	FinalizeSale(ctx context.Context, sess *session.Session, cmd entity.FinalizeCommand) (*entity.SaleReceipt, error)
}
