package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"
)

// LoyaltyPanel puntos, cupones y recompensas del cliente seleccionado.
// Es best-effort: si falla queda en "sin datos" y el cobro sigue.
type LoyaltyPanel struct {
	gateway port.LoyaltyGateway
	sess    *session.Session

	mu         sync.RWMutex
	customerID string
	snapshot   *entity.LoyaltySnapshot
}

func NewLoyaltyPanel(gateway port.LoyaltyGateway, sess *session.Session) *LoyaltyPanel {
	return &LoyaltyPanel{gateway: gateway, sess: sess}
}

// Load trae la fidelidad del cliente; un error deja el panel sin datos
func (p *LoyaltyPanel) Load(ctx context.Context, customerID string) *entity.LoyaltySnapshot {
	p.mu.Lock()
	p.customerID = customerID
	p.snapshot = nil
	p.mu.Unlock()

	if customerID == "" {
		return nil
	}

	snapshot, err := p.gateway.GetSnapshot(ctx, p.sess, customerID)
	if err != nil {
		log.Printf("⚠️  Loyalty unavailable for customer %s: %v", customerID, err)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// El cliente cambió mientras se consultaba
	if p.customerID != customerID {
		return nil
	}
	p.snapshot = snapshot
	return snapshot
}

// Snapshot último estado cargado; nil = sin datos
func (p *LoyaltyPanel) Snapshot() *entity.LoyaltySnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// CustomerID cliente cuyo panel está cargado ("" = ninguno)
func (p *LoyaltyPanel) CustomerID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.customerID
}

// RedeemReward canje irreversible: requiere confirmación explícita del operador.
// Solo se canjea para el cliente del panel.
func (p *LoyaltyPanel) RedeemReward(ctx context.Context, customerID, rewardID string, confirmed bool) (*entity.Coupon, *entity.Notice, error) {
	customerID = strings.TrimSpace(customerID)
	current := p.CustomerID()
	if current == "" {
		return nil, nil, entity.NewValidationError(entity.ErrCustomerRequired)
	}
	if customerID == "" {
		customerID = current
	}
	if customerID != current {
		return nil, nil, entity.NewValidationError(entity.ErrRewardNotForCustomer)
	}
	if strings.TrimSpace(rewardID) == "" {
		return nil, nil, entity.NewValidationError(entity.ErrRewardIDRequired)
	}
	if !confirmed {
		return nil, nil, entity.NewValidationError(entity.ErrConfirmationRequired)
	}

	coupon, err := p.gateway.RedeemReward(ctx, p.sess, customerID, rewardID)
	if err != nil {
		log.Printf("❌ Reward %s redemption failed for customer %s: %v", rewardID, customerID, err)
		return nil, nil, err
	}

	// Si el cliente cambió durante el canje no se pisa el panel nuevo
	if p.CustomerID() == customerID {
		p.Load(ctx, customerID)
	}

	message := "reward redeemed"
	if coupon != nil {
		message = fmt.Sprintf("reward redeemed, coupon %s issued", coupon.Code)
	}
	return coupon, entity.NewNotice(entity.NoticeSuccess, message), nil
}

// Clear vuelve a "sin datos"
func (p *LoyaltyPanel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.customerID = ""
	p.snapshot = nil
}
