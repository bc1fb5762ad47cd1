package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"name":    "Caja 1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	sess, err := session.NewVerifier("secret").New(token)
	require.NoError(t, err)
	return sess
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) *BackendClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBackendClient(server.URL, 2*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestCartClient_GetCartRecomputesSubtotal(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/cart", r.URL.Path)
		assert.Equal(t, "Bearer "+sess.Token(), r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"operator_id": 7,
			"subtotal":    "999",
			"items": []map[string]interface{}{
				{"id": 1, "product_id": 10, "product_name": "Yerba", "unit_price": "100", "quantity": 2, "stock": 5, "category_id": 1},
				{"id": 2, "product_id": 11, "product_name": "Azúcar", "unit_price": 50, "quantity": 1, "stock": 3, "category_id": 2},
			},
		})
	})

	cart, err := NewCartClient(base).GetCart(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, "7", cart.OperatorID)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "10", cart.Items[0].ProductID)
	assert.Equal(t, "1", cart.Items[0].CategoryID)
}

func TestBackendClient_MapsErrorMessage(t *testing.T) {
	sess := testSession(t)

	cases := []struct {
		name    string
		body    interface{}
		message string
	}{
		{name: "message field", body: map[string]string{"message": "insufficient stock"}, message: "insufficient stock"},
		{name: "error field", body: map[string]string{"error": "product not found"}, message: "product not found"},
		{name: "no message", body: map[string]string{}, message: entity.GenericRemoteMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusConflict, tc.body)
			})

			_, err := NewCartClient(base).AddItem(context.Background(), sess, "10", 1)
			require.Error(t, err)

			remote, ok := entity.AsRemote(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusConflict, remote.Status)
			assert.Equal(t, tc.message, remote.UserMessage())
		})
	}
}

func TestBackendClient_RejectsInvalidPayload(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items": []map[string]interface{}{{"product_id": 10, "quantity": 1}},
		})
	})

	_, err := NewCartClient(base).GetCart(context.Background(), sess)
	require.Error(t, err)

	remote, ok := entity.AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, entity.GenericRemoteMessage, remote.UserMessage())
}

func TestRegisterClient_NotFoundMeansClosed(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("operator_id"))
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no open register"})
	})

	register, err := NewRegisterClient(base).CurrentRegister(context.Background(), sess)
	require.NoError(t, err)
	assert.Nil(t, register)
}

func TestRegisterClient_CurrentOpen(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":              "r-1",
			"operator_id":     "7",
			"opening_amount":  "1000",
			"status":          "open",
			"sales_by_tender": map[string]string{"CASH": "500", "debit": "300"},
		})
	})

	register, err := NewRegisterClient(base).CurrentRegister(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, register)

	assert.True(t, register.IsOpen())
	assert.True(t, register.Expected().Equal(decimal.NewFromInt(1500)))
	assert.True(t, register.TotalSales().Equal(decimal.NewFromInt(800)))
}

func TestCouponClient_InvalidCouponCarriesServerReason(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var req ValidateCouponRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "PROMO10", req.Code)
		assert.Equal(t, "42", req.CustomerID)

		writeJSON(w, http.StatusOK, map[string]interface{}{"valid": false, "message": "coupon expired"})
	})

	_, err := NewCouponClient(base).ValidateCoupon(context.Background(), sess, "PROMO10", "42")
	remote, ok := entity.AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, "coupon expired", remote.UserMessage())
}

func TestCouponClient_ValidCoupon(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid": true,
			"coupon": map[string]interface{}{
				"code": "PROMO10", "type": "percentage", "value": 10, "status": "active", "category_id": 3,
			},
		})
	})

	coupon, err := NewCouponClient(base).ValidateCoupon(context.Background(), sess, "PROMO10", "42")
	require.NoError(t, err)
	assert.Equal(t, entity.CouponPercentage, coupon.Kind)
	assert.Equal(t, entity.CouponActive, coupon.Status)
	assert.Equal(t, "42", coupon.CustomerID)
	assert.Equal(t, "3", coupon.CategoryID)
	assert.True(t, coupon.UsableBy("42"))
}

func TestLoyaltyClient_SnapshotComputesReachable(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/loyalty/customers/42", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"points":         120,
			"monetary_value": "12.5",
			"coupons": []map[string]interface{}{
				{"code": "A", "type": "FIXED", "value": 30, "status": "ACTIVE"},
				{"code": "B", "type": "BOGUS", "value": 1, "status": "ACTIVE"},
			},
			"rewards": []map[string]interface{}{
				{"id": 1, "name": "Mate", "points_cost": 100},
				{"id": 2, "name": "Termo", "points_cost": 500},
			},
		})
	})

	snapshot, err := NewLoyaltyClient(base).GetSnapshot(context.Background(), sess, "42")
	require.NoError(t, err)

	assert.Equal(t, 120, snapshot.Points)
	require.Len(t, snapshot.Coupons, 1)
	assert.Equal(t, "42", snapshot.Coupons[0].CustomerID)
	require.Len(t, snapshot.Rewards, 2)
	assert.True(t, snapshot.Rewards[0].Reachable)
	assert.False(t, snapshot.Rewards[1].Reachable)
}

func TestSaleClient_Finalize(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var cmd entity.FinalizeCommand
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
		assert.Equal(t, entity.TenderDebit, cmd.Tender)

		writeJSON(w, http.StatusCreated, map[string]interface{}{"sale_id": 981, "receipt_emailed": true})
	})

	receipt, err := NewSaleClient(base).FinalizeSale(context.Background(), sess, entity.FinalizeCommand{
		Reference: "ref", OperatorID: "7", RegisterID: "r-1", CustomerID: "42", Tender: entity.TenderDebit,
	})
	require.NoError(t, err)
	assert.Equal(t, "981", receipt.SaleID)
	assert.True(t, receipt.ReceiptEmailed)
}

func TestDirectoryClient_FilterAndRole(t *testing.T) {
	sess := testSession(t)
	base := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/roles/by-name/customer":
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": 3, "name": "customer"})
		case "/api/v1/users/filter":
			assert.Equal(t, "3", r.URL.Query().Get("role_id"))
			assert.Equal(t, "ana", r.URL.Query().Get("q"))
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": []map[string]interface{}{{"id": 42, "first_name": "Ana", "last_name": "Pérez"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	directory := NewDirectoryClient(base)
	roleID, err := directory.RoleIDByName(context.Background(), sess, "customer")
	require.NoError(t, err)
	assert.Equal(t, "3", roleID)

	customers, err := directory.FilterUsers(context.Background(), sess, "ana", roleID, 20)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ana Pérez", customers[0].FullName())
}

func TestBackendClient_NetworkError(t *testing.T) {
	sess := testSession(t)
	base := NewBackendClient("http://127.0.0.1:1", time.Second)

	_, err := NewCatalogClient(base).SearchProducts(context.Background(), sess, "yerba", 20)
	remote, ok := entity.AsRemote(err)
	require.True(t, ok)
	assert.Zero(t, remote.Status)
	assert.Equal(t, entity.GenericRemoteMessage, remote.UserMessage())
}
