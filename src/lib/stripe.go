package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreateBillingPortalSession returns a URL where the customer manages
// their subscription.
func CreateBillingPortalSession(ctx context.Context, stripeCustomerId string, returnUrl string) (string, error) {
	sc := GetStripeClient()
	params := stripe.BillingPortalSessionCreateParams{
		Customer: stripe.String(stripeCustomerId),
	}
	if returnUrl != "" {
		params.ReturnURL = stripe.String(returnUrl)
	}
	session, err := sc.V1BillingPortalSessions.Create(ctx, &params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// CreateSubscriptionCheckout starts a checkout session for one priced
// offer and returns its hosted URL.
func CreateSubscriptionCheckout(ctx context.Context, priceId string, customerEmail string, metadata map[string]string) (string, error) {
	sc := GetStripeClient()
	params := stripe.CheckoutSessionCreateParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(priceId),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(os.Getenv("CHECKOUT_SUCCESS_URL")),
		CancelURL:  stripe.String(os.Getenv("CHECKOUT_CANCEL_URL")),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}
	if len(metadata) > 0 {
		params.Metadata = metadata
	}
	session, err := sc.V1CheckoutSessions.Create(ctx, &params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}
