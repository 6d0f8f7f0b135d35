package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/refund"
)

// StripeGateway implements PaymentGateway against Stripe.
type StripeGateway struct {
	secretKey string
}

// NewStripeGateway configures the Stripe SDK with the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{secretKey: secretKey}
}

// Process creates and confirms a PaymentIntent for the charge. Stripe amounts
// are in the smallest currency unit.
func (g *StripeGateway) Process(ctx context.Context, req GatewayChargeRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, fmt.Sprintf("%v", v))
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// Refund reverses a previously settled PaymentIntent, fully or partially.
func (g *StripeGateway) Refund(ctx context.Context, transactionID string, amount float64, currency string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
		Amount:        stripe.Int64(toMinorUnits(amount)),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
