package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoyaltyThresholdCents is the order total at which a loyalty coupon is
// granted.
const LoyaltyThresholdCents int64 = 100000

// checkoutMetadataProduct is the line-item snapshot serialized into the
// payment session's metadata and read back on confirmation.
type checkoutMetadataProduct struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CheckoutService drives the payment lifecycle: a session is created
// (pending), the gateway confirms it (paid), and exactly one order is
// persisted per payment session. All context needed on confirmation
// travels through the gateway's metadata, so confirmation is stateless.
type CheckoutService struct {
	gateway   PaymentGateway
	orders    repository.OrderRepository
	coupons   *CouponService
	clientURL string
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(gateway PaymentGateway, orders repository.OrderRepository, coupons *CouponService, clientURL string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		gateway:   gateway,
		orders:    orders,
		coupons:   coupons,
		clientURL: clientURL,
		logger:    logger,
	}
}

// CreateSession opens a payment session for the given line items. The
// returned total is what the customer will be charged, after any coupon
// discount, in whole currency units.
func (s *CheckoutService) CreateSession(ctx context.Context, userID uuid.UUID, req *models.CreateCheckoutSessionRequest) (string, float64, error) {
	lineItems := make([]CheckoutLineItem, 0, len(req.Products))
	var subtotalCents int64
	for _, p := range req.Products {
		unitAmount := int64(math.Round(p.Price * 100))
		subtotalCents += int64(p.Quantity) * unitAmount
		lineItems = append(lineItems, CheckoutLineItem{
			Name:       p.Name,
			Image:      p.Image,
			UnitAmount: unitAmount,
			Quantity:   int64(p.Quantity),
		})
	}

	totalCents := subtotalCents
	var discountPct float64
	if req.CouponCode != "" {
		coupon, err := s.coupons.Validate(ctx, userID, req.CouponCode)
		if err != nil {
			return "", 0, err
		}
		discountPct = coupon.DiscountPercentage
		totalCents = ApplyDiscount(subtotalCents, discountPct)
	}

	snapshot := make([]checkoutMetadataProduct, 0, len(req.Products))
	for _, p := range req.Products {
		snapshot = append(snapshot, checkoutMetadataProduct{
			ID:       p.ID,
			Quantity: p.Quantity,
			Price:    p.Price,
		})
	}
	productsJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", 0, fmt.Errorf("failed to serialize line items: %w", err)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		LineItems:          lineItems,
		DiscountPercentage: discountPct,
		SuccessURL:         s.clientURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          s.clientURL + "/purchase-cancel",
		Metadata: map[string]string{
			"user_id":     userID.String(),
			"coupon_code": req.CouponCode,
			"products":    string(productsJSON),
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.ID, float64(totalCents) / 100, nil
}

// ConfirmSuccess turns a paid payment session into a persisted order. It
// is idempotent on the session ID: a duplicate confirmation returns the
// order already created. The order is the durable side effect of record;
// coupon deactivation and loyalty issuance are best-effort and never roll
// it back.
func (s *CheckoutService) ConfirmSuccess(ctx context.Context, sessionID string) (*models.Order, error) {
	sess, err := s.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	if !sess.Paid {
		return nil, ErrPaymentNotCompleted
	}

	if existing, err := s.orders.FindByStripeSessionID(ctx, sess.ID); err == nil {
		s.logger.Info("duplicate checkout confirmation ignored",
			zap.String("session_id", sess.ID),
			zap.String("order_id", existing.ID.String()),
		)
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}

	userID, err := uuid.Parse(sess.Metadata["user_id"])
	if err != nil {
		return nil, fmt.Errorf("checkout session missing user metadata: %w", err)
	}

	if code := sess.Metadata["coupon_code"]; code != "" {
		if err := s.coupons.Deactivate(ctx, userID, code); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("failed to deactivate used coupon",
				zap.String("session_id", sess.ID),
				zap.String("code", code),
				zap.Error(err),
			)
		}
	}

	var snapshot []checkoutMetadataProduct
	if err := json.Unmarshal([]byte(sess.Metadata["products"]), &snapshot); err != nil {
		return nil, fmt.Errorf("checkout session has malformed line item metadata: %w", err)
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		TotalAmount:     float64(sess.AmountTotal) / 100,
		StripeSessionID: sess.ID,
	}
	for _, p := range snapshot {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Quantity:  p.Quantity,
			Price:     p.Price,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		// A concurrent confirmation may have won the unique-index race on
		// the session ID; return its order instead of failing.
		if existing, lookupErr := s.orders.FindByStripeSessionID(ctx, sess.ID); lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if sess.AmountTotal >= LoyaltyThresholdCents {
		if _, err := s.coupons.IssueLoyaltyCoupon(ctx, userID); err != nil {
			s.logger.Warn("loyalty coupon issuance failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sess.ID),
		zap.Float64("total", order.TotalAmount),
	)
	return order, nil
}
