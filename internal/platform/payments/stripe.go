package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"

	"salon/internal/platform/config"
)

// Client creates hosted Stripe Checkout sessions for pay-by-link sales.
type Client struct {
	currency   string
	successURL string
	cancelURL  string
}

// New configures the global Stripe key and returns a client, or nil when no
// key is set (pay-by-link sales are then rejected at the service layer).
func New(cfg config.Config) *Client {
	if cfg.StripeAPIKey == "" {
		return nil
	}
	stripe.Key = cfg.StripeAPIKey
	return &Client{
		currency:   cfg.Currency,
		successURL: cfg.StripeSuccessURL,
		cancelURL:  cfg.StripeCancelURL,
	}
}

func (c *Client) CreateCheckout(_ context.Context, amountCents int64, description, customerEmail string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(c.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(description),
				},
				UnitAmount: stripe.Int64(amountCents),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("checkout session: %w", err)
	}
	return sess.URL, nil
}
