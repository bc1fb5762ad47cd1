package client

import (
	"context"
	"log"
	"net/http"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"

	"github.com/shopspring/decimal"
)

const resourceLoyalty = "loyalty"

// RewardResponse recompensa del catálogo de fidelidad
type RewardResponse struct {
	ID          flexibleID `json:"id" validate:"required"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PointsCost  int        `json:"points_cost" validate:"gte=0"`
	Reachable   *bool      `json:"reachable"`
}

// LoyaltyResponse fidelidad de un cliente
type LoyaltyResponse struct {
	CustomerID    flexibleID       `json:"customer_id"`
	Points        int              `json:"points"`
	MonetaryValue decimal.Decimal  `json:"monetary_value"`
	Coupons       []CouponResponse `json:"coupons" validate:"dive"`
	Rewards       []RewardResponse `json:"rewards" validate:"dive"`
}

// RedeemRewardResponse cupón emitido al canjear
type RedeemRewardResponse struct {
	Coupon *CouponResponse `json:"coupon"`
}

// LoyaltyClient recurso /api/v1/loyalty
type LoyaltyClient struct {
	*BackendClient
}

func NewLoyaltyClient(base *BackendClient) *LoyaltyClient {
	return &LoyaltyClient{BackendClient: base}
}

// GetSnapshot puntos, cupones y recompensas del cliente
func (c *LoyaltyClient) GetSnapshot(ctx context.Context, sess *session.Session, customerID string) (*entity.LoyaltySnapshot, error) {
	var resp LoyaltyResponse
	path := "/api/v1/loyalty/customers/" + pathEscape(customerID)
	if err := c.do(ctx, sess, resourceLoyalty, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}

	snapshot := &entity.LoyaltySnapshot{
		CustomerID:    customerID,
		Points:        resp.Points,
		MonetaryValue: resp.MonetaryValue,
		Coupons:       make([]entity.Coupon, 0, len(resp.Coupons)),
		Rewards:       make([]entity.Reward, 0, len(resp.Rewards)),
	}

	for _, raw := range resp.Coupons {
		coupon, err := raw.toEntity()
		if err != nil {
			log.Printf("⚠️  Skipping coupon from loyalty snapshot: %v", err)
			continue
		}
		if coupon.CustomerID == "" {
			coupon.CustomerID = customerID
		}
		snapshot.Coupons = append(snapshot.Coupons, *coupon)
	}

	for _, r := range resp.Rewards {
		reachable := resp.Points >= r.PointsCost
		if r.Reachable != nil {
			reachable = *r.Reachable
		}
		snapshot.Rewards = append(snapshot.Rewards, entity.Reward{
			ID:          string(r.ID),
			Name:        r.Name,
			Description: r.Description,
			PointsCost:  r.PointsCost,
			Reachable:   reachable,
		})
	}

	return snapshot, nil
}

// RedeemReward canjea puntos por una recompensa; devuelve el cupón emitido
func (c *LoyaltyClient) RedeemReward(ctx context.Context, sess *session.Session, customerID, rewardID string) (*entity.Coupon, error) {
	var resp RedeemRewardResponse
	path := "/api/v1/loyalty/customers/" + pathEscape(customerID) + "/rewards/" + pathEscape(rewardID) + "/redeem"
	if err := c.do(ctx, sess, resourceLoyalty, http.MethodPost, path, nil, struct{}{}, &resp); err != nil {
		return nil, err
	}

	if resp.Coupon == nil {
		return nil, nil
	}
	coupon, err := resp.Coupon.toEntity()
	if err != nil {
		log.Printf("⚠️  Reward %s redeemed but issued coupon is unreadable: %v", rewardID, err)
		return nil, nil
	}
	if coupon.CustomerID == "" {
		coupon.CustomerID = customerID
	}
	return coupon, nil
}
