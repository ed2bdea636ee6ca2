package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	sandboxBase = "https://api-m.sandbox.paypal.com"
	liveBase    = "https://api-m.paypal.com"
)

type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client
}

// NewClient builds a PayPal REST client. Sandbox credentials (client ids
// containing "sb") route to the sandbox host.
func NewClient(clientID, clientSecret string) *Client {
	base := liveBase
	if strings.Contains(clientID, "sb") {
		base = sandboxBase
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      base,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithBaseURL overrides the API host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", errors.New("missing PayPal API credentials")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"),
	)
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token request failed: %s", resp.Status)
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("paypal token response missing access_token")
	}
	return out.AccessToken, nil
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// OrderResult is the created-order representation the buyer-side SDK uses as
// an approval handle.
type OrderResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// CreateOrder creates a CAPTURE-intent order for the given total. Cents are
// converted to the decimal string PayPal expects here, at the boundary only.
func (c *Client) CreateOrder(ctx context.Context, totalCents int64, description string) (*OrderResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         fmt.Sprintf("%.2f", float64(totalCents)/100),
				},
				"description": description,
			},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal create order failed: %s: %s", resp.Status, body)
	}

	var out OrderResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("paypal create order response missing id")
	}
	return &out, nil
}

type PayerName struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

type Payer struct {
	EmailAddress string     `json:"email_address"`
	Name         *PayerName `json:"name,omitempty"`
}

type ShippingName struct {
	FullName string `json:"full_name"`
}

type ShippingAddress struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	AdminArea2   string `json:"admin_area_2"` // city
	AdminArea1   string `json:"admin_area_1"` // state
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
}

type Shipping struct {
	Name    *ShippingName    `json:"name,omitempty"`
	Address *ShippingAddress `json:"address,omitempty"`
}

type PurchaseUnit struct {
	Shipping *Shipping `json:"shipping,omitempty"`
}

// CaptureResult carries the parsed fields reconciliation needs plus the raw
// body, which the capture endpoint returns to the caller verbatim.
type CaptureResult struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Payer         *Payer         `json:"payer,omitempty"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// CaptureOrder captures an approved order. Verification for the capture path
// is the call itself: the status comes from PayPal's API, never from the
// client.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal capture failed: %s: %s", resp.Status, body)
	}

	var out CaptureResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	out.Raw = body
	return &out, nil
}
