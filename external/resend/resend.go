package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	log "github.com/sirupsen/logrus"
)

type ResendMailer struct {
	apiKey  string
	from    string
	siteURL string
	client  *http.Client
	baseURL string
}

// NewResendMailer builds the order-confirmation mailer. A missing API key is
// not an error: sending becomes a logged no-op, because email must never
// block payment finalization.
func NewResendMailer(apiKey, from, siteURL string) *ResendMailer {
	return &ResendMailer{
		apiKey:  apiKey,
		from:    from,
		siteURL: siteURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}
}

// WithBaseURL overrides the API host. Used by tests.
func (m *ResendMailer) WithBaseURL(baseURL string) *ResendMailer {
	m.baseURL = baseURL
	return m
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) SendOrderConfirmation(
	ctx context.Context,
	order *model.Order,
	toEmail string,
	toName string,
) error {
	if m.apiKey == "" {
		log.Warn("RESEND_API_KEY is missing, order confirmation not sent")
		return nil
	}
	if toEmail == "" {
		log.WithField("order_id", order.ID).Warn("no buyer email on order, confirmation not sent")
		return nil
	}

	subject := "Order Confirmation #" + order.OrderNumber
	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: subject,
		HTML:    renderOrderHTML(order, toName, m.siteURL),
	}

	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New(
			"failed to send order confirmation: " + buf.String(),
		)
	}

	return nil
}

// formatPrice renders cents for display. Boundary-only: everything internal
// stays integer cents.
func formatPrice(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func renderOrderHTML(order *model.Order, toName, siteURL string) string {
	name := toName
	if name == "" {
		name = "there"
	}

	var items strings.Builder
	for _, it := range order.Items {
		items.WriteString(`
			<tr>
				<td style="padding: 8px; border-bottom: 1px solid #ddd;">
					` + html.EscapeString(it.ProductName) + ` <br/>
					<span style="font-size: 12px; color: #666;">` + html.EscapeString(it.VariantName) + `</span>
				</td>
				<td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: center;">` + fmt.Sprint(it.Quantity) + `</td>
				<td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right;">` + formatPrice(it.UnitPrice) + `</td>
			</tr>`)
	}

	var shipTo string
	if a := order.ShippingAddress; a != nil {
		shipTo = html.EscapeString(a.FullName) + `<br/>` +
			html.EscapeString(a.Line1) + `<br/>` +
			html.EscapeString(a.City) + `, ` + html.EscapeString(a.State) + ` ` + html.EscapeString(a.PostalCode)
	}

	return `
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
			<h1>Thank you for your order!</h1>
			<p>Hi ` + html.EscapeString(name) + `,</p>
			<p>We have received your order <strong>#` + html.EscapeString(order.OrderNumber) + `</strong> and are getting it ready.</p>

			<h2>Order Summary</h2>
			<table style="width: 100%; border-collapse: collapse;">
				<thead>
					<tr style="background-color: #f9f9f9;">
						<th style="padding: 8px; text-align: left;">Item</th>
						<th style="padding: 8px; text-align: center;">Qty</th>
						<th style="padding: 8px; text-align: right;">Price</th>
					</tr>
				</thead>
				<tbody>` + items.String() + `
				</tbody>
				<tfoot>
					<tr>
						<td colspan="2" style="padding: 8px; text-align: right; font-weight: bold;">Total</td>
						<td style="padding: 8px; text-align: right; font-weight: bold;">` + formatPrice(order.Total) + `</td>
					</tr>
				</tfoot>
			</table>

			<p style="margin-top: 24px;">
				<strong>Shipping to:</strong><br/>
				` + shipTo + `
			</p>

			<p style="margin-top: 40px; font-size: 12px; color: #888;">
				Wizard Of Light - Handcrafted Leather Goods<br/>
				<a href="` + siteURL + `">Visit our store</a>
			</p>
		</div>`
}
