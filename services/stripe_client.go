package services

import (
	"context"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/coupon"
)

// CheckoutLineItem is one priced line sent to the payment gateway. Amounts
// are in the currency's minor unit.
type CheckoutLineItem struct {
	Name       string
	Image      string
	UnitAmount int64
	Quantity   int64
}

// CheckoutSessionParams describes a payment session to create.
type CheckoutSessionParams struct {
	LineItems []CheckoutLineItem
	// DiscountPercentage > 0 attaches a one-off percentage coupon.
	DiscountPercentage float64
	SuccessURL         string
	CancelURL          string
	// Metadata is round-tripped verbatim by the gateway; the checkout
	// reconciler uses it to recover context statelessly.
	Metadata map[string]string
}

// GatewaySession is the gateway's view of a payment session.
type GatewaySession struct {
	ID          string
	AmountTotal int64
	Paid        bool
	Metadata    map[string]string
}

// PaymentGateway abstracts the external payment provider.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*GatewaySession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*GatewaySession, error)
}

// StripeService implements PaymentGateway against Stripe Checkout.
type StripeService struct{}

// NewStripeService configures the global Stripe client key.
func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{}
}

// CreateCheckoutSession opens a Stripe Checkout session in payment mode.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*GatewaySession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.Image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				ProductData: productData,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}

	if params.DiscountPercentage > 0 {
		stripeCoupon, err := coupon.New(&stripe.CouponParams{
			Params:     stripe.Params{Context: ctx},
			PercentOff: stripe.Float64(params.DiscountPercentage),
			Duration:   stripe.String(string(stripe.CouponDurationOnce)),
		})
		if err != nil {
			return nil, err
		}
		sessionParams.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(stripeCoupon.ID)},
		}
	}

	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	sess, err := session.New(sessionParams)
	if err != nil {
		return nil, err
	}
	return toGatewaySession(sess), nil
}

// RetrieveCheckoutSession fetches the session's current state.
func (s *StripeService) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*GatewaySession, error) {
	sess, err := session.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, err
	}
	return toGatewaySession(sess), nil
}

func toGatewaySession(sess *stripe.CheckoutSession) *GatewaySession {
	return &GatewaySession{
		ID:          sess.ID,
		AmountTotal: sess.AmountTotal,
		Paid:        sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:    sess.Metadata,
	}
}
