package services

import (
	"context"
	"errors"
	"testing"

	"github.com/wizardsoflight-studio/studioWebsite/external/paypal"
	"github.com/wizardsoflight-studio/studioWebsite/internal/cart"
	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayPalCreateOrder(t *testing.T) {
	orders := newFakeOrders()
	processor := &fakeProcessor{createRes: &paypal.OrderResult{ID: "PAYPAL-1", Status: "CREATED"}}
	svc := NewPayPalService(testCatalog(), orders, processor, &fakeReconciler{})

	res, err := svc.CreateOrder(context.Background(), CheckoutInput{
		Items: []cart.Item{
			{VariantID: "v-wallet", Quantity: 1},
			{VariantID: "v-adult", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PAYPAL-1", res.ID)

	// Age-restricted items stay in this path; the total covers both lines.
	require.Len(t, processor.created, 1)
	assert.Equal(t, int64(3500), processor.created[0])

	order := orders.orders["order-1"]
	require.NotNil(t, order)
	assert.Equal(t, "paypal", order.PaymentProcessor)
	assert.Equal(t, model.OrderPending, order.Status)
	require.NotNil(t, order.PaymentIntentID)
	assert.Equal(t, "PAYPAL-1", *order.PaymentIntentID)
}

func TestPayPalCreateOrderInsufficientStock(t *testing.T) {
	orders := newFakeOrders()
	svc := NewPayPalService(testCatalog(), orders, &fakeProcessor{}, &fakeReconciler{})

	_, err := svc.CreateOrder(context.Background(), CheckoutInput{
		Items: []cart.Item{{VariantID: "v-belt", Quantity: 99}},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Empty(t, orders.orders)
}

func TestPayPalCreateOrderProcessorFailureCancels(t *testing.T) {
	orders := newFakeOrders()
	processor := &fakeProcessor{createErr: errors.New("paypal down")}
	svc := NewPayPalService(testCatalog(), orders, processor, &fakeReconciler{})

	_, err := svc.CreateOrder(context.Background(), CheckoutInput{
		Items: []cart.Item{{VariantID: "v-wallet", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, model.OrderCancelled, orders.orders["order-1"].Status)
}

func TestPayPalCaptureCompletedReconciles(t *testing.T) {
	reconciler := &fakeReconciler{}
	processor := &fakeProcessor{captureRes: &paypal.CaptureResult{
		ID:     "PAYPAL-1",
		Status: "COMPLETED",
		Payer: &paypal.Payer{
			EmailAddress: "buyer@example.com",
			Name:         &paypal.PayerName{GivenName: "Ada", Surname: "Lovelace"},
		},
		PurchaseUnits: []paypal.PurchaseUnit{{
			Shipping: &paypal.Shipping{
				Name: &paypal.ShippingName{FullName: "Ada Lovelace"},
				Address: &paypal.ShippingAddress{
					AddressLine1: "1 Main St",
					AdminArea2:   "Springfield",
					AdminArea1:   "IL",
					PostalCode:   "62704",
					CountryCode:  "US",
				},
			},
		}},
	}}
	svc := NewPayPalService(testCatalog(), newFakeOrders(), processor, reconciler)

	res, err := svc.CaptureOrder(context.Background(), "PAYPAL-1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", res.Status)

	require.Len(t, reconciler.calls, 1)
	call := reconciler.calls[0]
	assert.Equal(t, "PAYPAL-1", call.paymentRef)
	assert.Equal(t, "buyer@example.com", call.email)
	assert.Equal(t, "Ada Lovelace", call.name)
	require.NotNil(t, call.addr)
	assert.Equal(t, "Ada Lovelace", call.addr.FullName)
	assert.Equal(t, "Springfield", call.addr.City)
	assert.Equal(t, "IL", call.addr.State)
}

func TestPayPalCaptureIncompleteSkipsReconcile(t *testing.T) {
	reconciler := &fakeReconciler{}
	processor := &fakeProcessor{captureRes: &paypal.CaptureResult{ID: "PAYPAL-1", Status: "PENDING"}}
	svc := NewPayPalService(testCatalog(), newFakeOrders(), processor, reconciler)

	res, err := svc.CaptureOrder(context.Background(), "PAYPAL-1")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", res.Status)
	assert.Empty(t, reconciler.calls)
}
