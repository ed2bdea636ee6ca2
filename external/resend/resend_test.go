package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *model.Order {
	return &model.Order{
		ID:          "order-1",
		OrderNumber: "WOL-ABC123",
		Total:       3500,
		Items: []model.OrderItem{
			{ProductName: "Bifold Wallet", VariantName: "Brown", Quantity: 2, UnitPrice: 1000},
			{ProductName: "Classic Belt", VariantName: "34in", Quantity: 3, UnitPrice: 500},
		},
		ShippingAddress: &model.ShippingAddress{
			FullName:   "Ada Lovelace",
			Line1:      "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62704",
			Country:    "US",
		},
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mailer := NewResendMailer("test-key", "orders@example.com", "https://example.com").WithBaseURL(srv.URL)

	err := mailer.SendOrderConfirmation(context.Background(), testOrder(), "buyer@example.com", "Ada")
	require.NoError(t, err)

	assert.Equal(t, "orders@example.com", got.From)
	assert.Equal(t, []string{"buyer@example.com"}, got.To)
	assert.Equal(t, "Order Confirmation #WOL-ABC123", got.Subject)
	assert.Contains(t, got.HTML, "Bifold Wallet")
	assert.Contains(t, got.HTML, "$35.00")
	assert.Contains(t, got.HTML, "Ada Lovelace")
}

func TestSendWithoutAPIKeyIsNoOp(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	mailer := NewResendMailer("", "orders@example.com", "https://example.com").WithBaseURL(srv.URL)

	err := mailer.SendOrderConfirmation(context.Background(), testOrder(), "buyer@example.com", "Ada")
	require.NoError(t, err)
	assert.False(t, called)
}

func TestSendWithoutRecipientIsNoOp(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	mailer := NewResendMailer("test-key", "orders@example.com", "https://example.com").WithBaseURL(srv.URL)

	err := mailer.SendOrderConfirmation(context.Background(), testOrder(), "", "Ada")
	require.NoError(t, err)
	assert.False(t, called)
}

func TestSendAPIErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from address"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	mailer := NewResendMailer("test-key", "bad", "https://example.com").WithBaseURL(srv.URL)

	err := mailer.SendOrderConfirmation(context.Background(), testOrder(), "buyer@example.com", "Ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}
