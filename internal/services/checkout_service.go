package services

import (
	"context"
	"strings"

	"github.com/wizardsoflight-studio/studioWebsite/external/stripe"
	"github.com/wizardsoflight-studio/studioWebsite/internal/cart"
	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// VariantCatalog is the batch read the checkout path validates against.
type VariantCatalog interface {
	GetVariantsForCheckout(ctx context.Context, variantIDs []string) ([]model.VariantDetail, error)
}

type OrderStore interface {
	CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error
	SetPaymentRef(ctx context.Context, orderID, ref string) error
	CancelPending(ctx context.Context, orderID string) (bool, error)
}

type CheckoutSessioner interface {
	CreateCheckoutSession(ctx context.Context, in stripe.SessionInput) (*stripe.Session, error)
}

type CheckoutInput struct {
	UserID *string
	Email  string
	Items  []cart.Item

	// Optional client-provided address. The processor's address, when it
	// collects one, overwrites this at reconciliation time.
	ShippingAddress *model.ShippingAddress
}

type CheckoutResult struct {
	URL          string `json:"url"`
	SessionID    string `json:"sessionId"`
	ExcludedNSFW bool   `json:"excludedNsfw"`
}

// CheckoutService turns a client cart into a pending order and a hosted
// payment session. The client's prices are display hints only; every amount
// charged comes from the variant rows loaded here.
type CheckoutService struct {
	Catalog  VariantCatalog
	Orders   OrderStore
	Sessions CheckoutSessioner
}

func NewCheckoutService(catalog VariantCatalog, orders OrderStore, sessions CheckoutSessioner) *CheckoutService {
	return &CheckoutService{Catalog: catalog, Orders: orders, Sessions: sessions}
}

func newOrderNumber() string {
	return "WOL-" + strings.ToUpper(uuid.NewString()[:8])
}

type validatedLine struct {
	detail   model.VariantDetail
	quantity int
}

// validateCartLines resolves cart lines against the live catalog. Lines whose
// variant vanished or whose product is unpublished are dropped silently.
// When excludeNSFW is set, age-restricted lines are split out instead of
// priced, so the card path can route them elsewhere.
func validateCartLines(ctx context.Context, catalog VariantCatalog, items []cart.Item, excludeNSFW bool) (eligible []validatedLine, nsfwExcluded, resolved int, err error) {
	if len(items) == 0 {
		return nil, 0, 0, ErrEmptyCart
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VariantID)
	}
	details, err := catalog.GetVariantsForCheckout(ctx, ids)
	if err != nil {
		return nil, 0, 0, err
	}
	byID := make(map[string]model.VariantDetail, len(details))
	for _, d := range details {
		byID[d.VariantID] = d
	}

	for _, it := range items {
		d, ok := byID[it.VariantID]
		if !ok || !d.IsPublished {
			continue
		}
		resolved++
		if excludeNSFW && d.IsNSFW {
			nsfwExcluded++
			continue
		}
		if it.Quantity > d.StockCount {
			return nil, 0, 0, &InsufficientStockError{
				ProductName: d.ProductName,
				VariantName: d.VariantName,
				Available:   d.StockCount,
				Requested:   it.Quantity,
			}
		}
		eligible = append(eligible, validatedLine{detail: d, quantity: it.Quantity})
	}
	return eligible, nsfwExcluded, resolved, nil
}

func buildOrder(in CheckoutInput, processor string, lines []validatedLine) (*model.Order, []model.OrderItem) {
	var subtotal int64
	orderItems := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		lineTotal := l.detail.Price * int64(l.quantity)
		subtotal += lineTotal
		orderItems = append(orderItems, model.OrderItem{
			ProductID:    l.detail.ProductID,
			VariantID:    l.detail.VariantID,
			Quantity:     l.quantity,
			UnitPrice:    l.detail.Price,
			TotalPrice:   lineTotal,
			ProductName:  l.detail.ProductName,
			VariantName:  l.detail.VariantName,
			ProductImage: l.detail.ProductImage,
		})
	}

	order := &model.Order{
		OrderNumber:      newOrderNumber(),
		UserID:           in.UserID,
		Status:           model.OrderPending,
		Subtotal:         subtotal,
		Total:            subtotal,
		PaymentProcessor: processor,
		ShippingAddress:  in.ShippingAddress,
	}
	return order, orderItems
}

// StartCardCheckout validates the cart, persists a pending order with price
// snapshots, and opens a hosted card session. Age-restricted items are
// excluded from this path and reported back via ExcludedNSFW.
func (s *CheckoutService) StartCardCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	eligible, nsfwExcluded, resolved, err := validateCartLines(ctx, s.Catalog, in.Items, true)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, &NoEligibleItemsError{
			AllAgeRestricted: nsfwExcluded > 0 && nsfwExcluded == resolved,
		}
	}

	order, orderItems := buildOrder(in, "stripe", eligible)
	if err := s.Orders.CreateWithItems(ctx, order, orderItems); err != nil {
		return nil, err
	}

	lines := make([]stripe.LineItem, 0, len(eligible))
	for _, l := range eligible {
		lines = append(lines, stripe.LineItem{
			Name:        l.detail.ProductName,
			Description: l.detail.VariantName,
			UnitAmount:  l.detail.Price,
			Quantity:    int64(l.quantity),
		})
	}

	sess, err := s.Sessions.CreateCheckoutSession(ctx, stripe.SessionInput{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerEmail: in.Email,
		Lines:         lines,
	})
	if err != nil {
		if _, cancelErr := s.Orders.CancelPending(ctx, order.ID); cancelErr != nil {
			log.WithError(cancelErr).WithField("order_id", order.ID).
				Error("could not cancel order after session failure")
		}
		return nil, err
	}

	if err := s.Orders.SetPaymentRef(ctx, order.ID, sess.ID); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		URL:          sess.URL,
		SessionID:    sess.ID,
		ExcludedNSFW: nsfwExcluded > 0,
	}, nil
}
