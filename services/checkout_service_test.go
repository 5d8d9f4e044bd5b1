package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCheckoutService() (*CheckoutService, *fakeGateway, *fakeOrderRepo, *fakeCouponRepo) {
	gateway := newFakeGateway()
	orders := newFakeOrderRepo()
	couponRepo := newFakeCouponRepo()
	coupons := NewCouponService(couponRepo, zap.NewNop())
	svc := NewCheckoutService(gateway, orders, coupons, "https://shop.example.com", zap.NewNop())
	return svc, gateway, orders, couponRepo
}

func checkoutRequest() *models.CreateCheckoutSessionRequest {
	return &models.CreateCheckoutSessionRequest{
		Products: []models.CheckoutProduct{
			{ID: "p1", Name: "Keyboard", Price: 49.99, Quantity: 2},
			{ID: "p2", Name: "Mouse", Price: 20.00, Quantity: 1},
		},
	}
}

// paidSession plants a completed gateway session the way a real payment
// would leave it.
func paidSession(gateway *fakeGateway, id string, userID uuid.UUID, couponCode string, amountCents int64) {
	products, _ := json.Marshal([]checkoutMetadataProduct{
		{ID: "p1", Quantity: 2, Price: 49.99},
		{ID: "p2", Quantity: 1, Price: 20.00},
	})
	gateway.sessions[id] = &GatewaySession{
		ID:          id,
		AmountTotal: amountCents,
		Paid:        true,
		Metadata: map[string]string{
			"user_id":     userID.String(),
			"coupon_code": couponCode,
			"products":    string(products),
		},
	}
}

func TestCreateSessionWithoutCoupon(t *testing.T) {
	svc, gateway, _, _ := newTestCheckoutService()

	sessionID, total, err := svc.CreateSession(context.Background(), uuid.New(), checkoutRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	// 2 × 4999 + 2000 = 11998 cents.
	assert.Equal(t, 119.98, total)

	require.Len(t, gateway.created, 1)
	params := gateway.created[0]
	assert.Zero(t, params.DiscountPercentage)
	assert.Equal(t, "https://shop.example.com/purchase-success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://shop.example.com/purchase-cancel", params.CancelURL)
	require.Len(t, params.LineItems, 2)
	assert.Equal(t, int64(4999), params.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2), params.LineItems[0].Quantity)
}

func TestCreateSessionAppliesCoupon(t *testing.T) {
	svc, gateway, _, couponRepo := newTestCheckoutService()
	userID := uuid.New()
	seedCoupon(couponRepo, userID, "GIFT10OFF", 10, time.Now().Add(time.Hour), true)

	req := checkoutRequest()
	req.CouponCode = "GIFT10OFF"

	_, total, err := svc.CreateSession(context.Background(), userID, req)
	require.NoError(t, err)
	// 11998 − round(1199.8) = 10798 cents.
	assert.Equal(t, 107.98, total)

	params := gateway.created[0]
	assert.Equal(t, float64(10), params.DiscountPercentage)
	assert.Equal(t, "GIFT10OFF", params.Metadata["coupon_code"])
	assert.Equal(t, userID.String(), params.Metadata["user_id"])

	var snapshot []checkoutMetadataProduct
	require.NoError(t, json.Unmarshal([]byte(params.Metadata["products"]), &snapshot))
	assert.Len(t, snapshot, 2)
}

func TestCreateSessionRejectsUnknownCoupon(t *testing.T) {
	svc, gateway, _, _ := newTestCheckoutService()

	req := checkoutRequest()
	req.CouponCode = "NOPE"

	_, _, err := svc.CreateSession(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrCouponNotFound)
	assert.Empty(t, gateway.created, "no gateway session for a rejected coupon")
}

func TestConfirmSuccessCreatesOrder(t *testing.T) {
	svc, gateway, orders, _ := newTestCheckoutService()
	userID := uuid.New()
	paidSession(gateway, "cs_paid", userID, "", 11998)

	order, err := svc.ConfirmSuccess(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, 119.98, order.TotalAmount)
	assert.Equal(t, "cs_paid", order.StripeSessionID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Len(t, orders.orders, 1)
}

func TestConfirmSuccessIsIdempotent(t *testing.T) {
	svc, gateway, orders, _ := newTestCheckoutService()
	paidSession(gateway, "cs_paid", uuid.New(), "", 11998)

	first, err := svc.ConfirmSuccess(context.Background(), "cs_paid")
	require.NoError(t, err)
	second, err := svc.ConfirmSuccess(context.Background(), "cs_paid")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "one payment session yields exactly one order")
	assert.Len(t, orders.orders, 1)
}

func TestConfirmSuccessRejectsUnpaidSession(t *testing.T) {
	svc, gateway, orders, _ := newTestCheckoutService()
	gateway.sessions["cs_pending"] = &GatewaySession{ID: "cs_pending", Paid: false}

	_, err := svc.ConfirmSuccess(context.Background(), "cs_pending")
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	assert.Empty(t, orders.orders)
}

func TestConfirmSuccessDeactivatesUsedCoupon(t *testing.T) {
	svc, gateway, _, couponRepo := newTestCheckoutService()
	userID := uuid.New()
	c := seedCoupon(couponRepo, userID, "GIFT10OFF", 10, time.Now().Add(time.Hour), true)
	paidSession(gateway, "cs_paid", userID, "GIFT10OFF", 10798)

	_, err := svc.ConfirmSuccess(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.False(t, c.IsActive, "a redeemed coupon must not survive checkout")
}

func TestConfirmSuccessGrantsLoyaltyCoupon(t *testing.T) {
	svc, gateway, _, couponRepo := newTestCheckoutService()
	userID := uuid.New()
	paidSession(gateway, "cs_big", userID, "", LoyaltyThresholdCents)

	_, err := svc.ConfirmSuccess(context.Background(), "cs_big")
	require.NoError(t, err)

	coupon, ok := couponRepo.rows[userID]
	require.True(t, ok, "an order at the threshold earns a loyalty coupon")
	assert.True(t, coupon.IsActive)
	assert.Equal(t, "GIFT", coupon.Code[:4])
}

func TestConfirmSuccessSurvivesLoyaltyFailure(t *testing.T) {
	svc, gateway, orders, couponRepo := newTestCheckoutService()
	userID := uuid.New()
	couponRepo.createErr = errors.New("coupon storage unavailable")
	paidSession(gateway, "cs_big", userID, "", LoyaltyThresholdCents)

	order, err := svc.ConfirmSuccess(context.Background(), "cs_big")
	require.NoError(t, err, "a failed loyalty grant must not fail the confirmation")
	require.NotNil(t, order)
	assert.Len(t, orders.orders, 1, "the order is still persisted")
	assert.Empty(t, couponRepo.rows)
}

func TestConfirmSuccessBelowLoyaltyThreshold(t *testing.T) {
	svc, gateway, _, couponRepo := newTestCheckoutService()
	userID := uuid.New()
	paidSession(gateway, "cs_small", userID, "", LoyaltyThresholdCents-1)

	_, err := svc.ConfirmSuccess(context.Background(), "cs_small")
	require.NoError(t, err)
	assert.Empty(t, couponRepo.rows)
}
