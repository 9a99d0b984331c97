package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Currency is the fixed checkout currency.
const Currency = "usd"

// StripeClient creates payment intents against the Stripe API.
type StripeClient struct {
	api *client.API
}

// NewStripeClient creates a Stripe intent client with the given secret key.
func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{api: client.New(secretKey, nil)}
}

// CreateIntent requests a card-only payment intent for amount minor units and
// returns the client secret the caller completes payment with.
func (s *StripeClient) CreateIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
