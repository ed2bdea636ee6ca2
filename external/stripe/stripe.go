package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
)

// Countries the hosted checkout page may collect a shipping address for.
var shippingCountries = []string{"US", "CA", "GB", "AU", "NZ", "DE", "FR"}

type Client struct {
	siteURL string
}

func NewClient(secretKey, siteURL string) *Client {
	stripe.Key = secretKey
	return &Client{siteURL: siteURL}
}

// LineItem is one validated checkout line, priced from the authoritative
// variant record.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64 // cents
	Quantity    int64
}

type SessionInput struct {
	OrderID       string
	OrderNumber   string
	CustomerEmail string // empty for guests
	Lines         []LineItem
}

type Session struct {
	ID  string
	URL string
}

// CreateCheckoutSession creates a hosted checkout session and returns the
// redirect handle. The order id rides along in metadata so the webhook can
// resolve the order.
func (c *Client) CreateCheckoutSession(ctx context.Context, in SessionInput) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Lines))
	for _, l := range in.Lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(l.Name),
					Description: stripe.String(l.Description),
				},
				UnitAmount: stripe.Int64(l.UnitAmount),
			},
			Quantity: stripe.Int64(l.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(c.siteURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(c.siteURL + "/checkout/cancel"),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shippingCountries),
		},
	}
	params.AddMetadata("order_id", in.OrderID)
	params.AddMetadata("order_number", in.OrderNumber)
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

// VerifyWebhook checks the event signature against the endpoint secret and
// returns the parsed event. Fails closed on any mismatch.
func VerifyWebhook(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, secret)
}
