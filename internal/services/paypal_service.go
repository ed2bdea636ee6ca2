package services

import (
	"context"

	"github.com/wizardsoflight-studio/studioWebsite/external/paypal"
	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	log "github.com/sirupsen/logrus"
)

type PayPalProcessor interface {
	CreateOrder(ctx context.Context, totalCents int64, description string) (*paypal.OrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, error)
}

type PaidReconciler interface {
	ReconcilePaid(ctx context.Context, orderID, paymentRef string, addr *model.ShippingAddress, email, name string) error
}

// PayPalService drives the buyer-approval flow: a server-created PayPal order
// backed by a pending local order, then a server-side capture whose result is
// the only paid trigger. The capture response is handed back to the client
// verbatim for the PayPal JS SDK.
type PayPalService struct {
	Catalog   VariantCatalog
	Orders    OrderStore
	Processor PayPalProcessor
	Payments  PaidReconciler
}

func NewPayPalService(catalog VariantCatalog, orders OrderStore, processor PayPalProcessor, payments PaidReconciler) *PayPalService {
	return &PayPalService{Catalog: catalog, Orders: orders, Processor: processor, Payments: payments}
}

// CreateOrder validates the cart at authoritative prices, persists a pending
// order and creates the matching PayPal order. The PayPal order id doubles as
// the payment reference for capture-time reconciliation.
func (s *PayPalService) CreateOrder(ctx context.Context, in CheckoutInput) (*paypal.OrderResult, error) {
	eligible, _, _, err := validateCartLines(ctx, s.Catalog, in.Items, false)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, &NoEligibleItemsError{}
	}

	order, orderItems := buildOrder(in, "paypal", eligible)
	if err := s.Orders.CreateWithItems(ctx, order, orderItems); err != nil {
		return nil, err
	}

	res, err := s.Processor.CreateOrder(ctx, order.Total, "Order "+order.OrderNumber)
	if err != nil {
		if _, cancelErr := s.Orders.CancelPending(ctx, order.ID); cancelErr != nil {
			log.WithError(cancelErr).WithField("order_id", order.ID).
				Error("could not cancel order after paypal create failure")
		}
		return nil, err
	}

	if err := s.Orders.SetPaymentRef(ctx, order.ID, res.ID); err != nil {
		return nil, err
	}
	return res, nil
}

// CaptureOrder captures an approved PayPal order and, when PayPal reports it
// completed, reconciles the matching local order. Reconciliation problems are
// logged but do not mask the capture result the client is waiting on.
func (s *PayPalService) CaptureOrder(ctx context.Context, paypalOrderID string) (*paypal.CaptureResult, error) {
	res, err := s.Processor.CaptureOrder(ctx, paypalOrderID)
	if err != nil {
		return nil, err
	}

	if res.Status == "COMPLETED" {
		addr, email, name := captureDetails(res)
		if err := s.Payments.ReconcilePaid(ctx, "", paypalOrderID, addr, email, name); err != nil {
			log.WithError(err).WithField("paypal_order_id", paypalOrderID).
				Error("paypal capture completed but reconciliation failed")
		}
	} else {
		log.WithFields(log.Fields{
			"paypal_order_id": paypalOrderID,
			"status":          res.Status,
		}).Warn("paypal capture did not complete")
	}

	return res, nil
}

func captureDetails(res *paypal.CaptureResult) (*model.ShippingAddress, string, string) {
	var email, name string
	if p := res.Payer; p != nil {
		email = p.EmailAddress
		if p.Name != nil {
			name = p.Name.GivenName
			if p.Name.Surname != "" {
				name += " " + p.Name.Surname
			}
		}
	}

	var addr *model.ShippingAddress
	for _, pu := range res.PurchaseUnits {
		sh := pu.Shipping
		if sh == nil || sh.Address == nil {
			continue
		}
		addr = &model.ShippingAddress{
			Line1:      sh.Address.AddressLine1,
			City:       sh.Address.AdminArea2,
			State:      sh.Address.AdminArea1,
			PostalCode: sh.Address.PostalCode,
			Country:    sh.Address.CountryCode,
		}
		if sh.Address.AddressLine2 != "" {
			line2 := sh.Address.AddressLine2
			addr.Line2 = &line2
		}
		if sh.Name != nil && sh.Name.FullName != "" {
			addr.FullName = sh.Name.FullName
		} else {
			addr.FullName = name
		}
		break
	}
	return addr, email, name
}
