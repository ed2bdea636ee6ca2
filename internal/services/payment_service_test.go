package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

const testWebhookSecret = "whsec_test"

// signEvent produces a payload and Stripe-Signature header that pass real
// signature verification against testWebhookSecret.
func signEvent(t *testing.T, event map[string]interface{}) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return payload, fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func completedEvent(orderID, sessionID string) map[string]interface{} {
	return map[string]interface{}{
		"id":          "evt_1",
		"api_version": stripe.APIVersion,
		"type":        "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       sessionID,
				"metadata": map[string]string{"order_id": orderID},
				"customer_details": map[string]interface{}{
					"email": "buyer@example.com",
					"name":  "Ada Lovelace",
				},
				"shipping_details": map[string]interface{}{
					"name": "Ada Lovelace",
					"address": map[string]interface{}{
						"line1":       "1 Main St",
						"city":        "Springfield",
						"state":       "IL",
						"postal_code": "62704",
						"country":     "US",
					},
				},
			},
		},
	}
}

func pendingOrder(t *testing.T, orders *fakeOrders, ref string) *model.Order {
	t.Helper()
	o := &model.Order{
		OrderNumber:      "WOL-TEST1",
		Status:           model.OrderPending,
		Subtotal:         1000,
		Total:            1000,
		PaymentProcessor: "stripe",
	}
	require.NoError(t, orders.CreateWithItems(context.Background(), o, []model.OrderItem{
		{VariantID: "v-1", Quantity: 1, UnitPrice: 1000, TotalPrice: 1000, ProductName: "Bifold Wallet", VariantName: "Brown"},
	}))
	require.NoError(t, orders.SetPaymentRef(context.Background(), o.ID, ref))
	return o
}

func TestHandleStripeEventCompleted(t *testing.T) {
	orders := newFakeOrders()
	mailer := &fakeMailer{}
	svc := NewPaymentService(orders, mailer, testWebhookSecret)

	o := pendingOrder(t, orders, "cs_abc")
	payload, sig := signEvent(t, completedEvent(o.ID, "cs_abc"))

	require.NoError(t, svc.HandleStripeEvent(context.Background(), payload, sig))

	stored := orders.orders[o.ID]
	assert.Equal(t, model.OrderPaid, stored.Status)
	require.NotNil(t, stored.ShippingAddress)
	assert.Equal(t, "Ada Lovelace", stored.ShippingAddress.FullName)
	assert.Equal(t, "Springfield", stored.ShippingAddress.City)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@example.com", mailer.sent[0].email)
	assert.Equal(t, "Ada Lovelace", mailer.sent[0].name)
	require.Len(t, mailer.sent[0].order.Items, 1)
}

func TestHandleStripeEventReplayIsIdempotent(t *testing.T) {
	orders := newFakeOrders()
	mailer := &fakeMailer{}
	svc := NewPaymentService(orders, mailer, testWebhookSecret)

	o := pendingOrder(t, orders, "cs_abc")
	payload, sig := signEvent(t, completedEvent(o.ID, "cs_abc"))

	require.NoError(t, svc.HandleStripeEvent(context.Background(), payload, sig))
	require.NoError(t, svc.HandleStripeEvent(context.Background(), payload, sig))

	assert.Len(t, orders.finalized, 1, "finalize must run exactly once")
	assert.Len(t, mailer.sent, 1, "confirmation email must be sent exactly once")
}

func TestHandleStripeEventExpiredCancelsPending(t *testing.T) {
	orders := newFakeOrders()
	svc := NewPaymentService(orders, &fakeMailer{}, testWebhookSecret)

	o := pendingOrder(t, orders, "cs_abc")
	payload, sig := signEvent(t, map[string]interface{}{
		"id":          "evt_2",
		"api_version": stripe.APIVersion,
		"type":        "checkout.session.expired",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "cs_abc",
				"metadata": map[string]string{"order_id": o.ID},
			},
		},
	})

	require.NoError(t, svc.HandleStripeEvent(context.Background(), payload, sig))

	assert.Equal(t, model.OrderCancelled, orders.orders[o.ID].Status)
	assert.Empty(t, orders.finalized)
}

func TestHandleStripeEventBadSignature(t *testing.T) {
	svc := NewPaymentService(newFakeOrders(), &fakeMailer{}, testWebhookSecret)

	payload, _ := signEvent(t, completedEvent("order-1", "cs_abc"))
	err := svc.HandleStripeEvent(context.Background(), payload, "t=1,v1=deadbeef")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestHandleStripeEventUnknownOrder(t *testing.T) {
	orders := newFakeOrders()
	mailer := &fakeMailer{}
	svc := NewPaymentService(orders, mailer, testWebhookSecret)

	payload, sig := signEvent(t, completedEvent("order-missing", "cs_missing"))
	err := svc.HandleStripeEvent(context.Background(), payload, sig)
	require.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, mailer.sent)
}

func TestReconcilePaidResolvesByPaymentRef(t *testing.T) {
	orders := newFakeOrders()
	mailer := &fakeMailer{}
	svc := NewPaymentService(orders, mailer, testWebhookSecret)

	o := pendingOrder(t, orders, "PAYPAL-123")

	require.NoError(t, svc.ReconcilePaid(context.Background(), "", "PAYPAL-123", nil, "buyer@example.com", "Ada"))
	assert.Equal(t, model.OrderPaid, orders.orders[o.ID].Status)
	require.Len(t, mailer.sent, 1)
}
