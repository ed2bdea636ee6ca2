package services

import (
	"context"
	"encoding/json"

	extstripe "github.com/wizardsoflight-studio/studioWebsite/external/stripe"
	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v78"
)

// ReconcileStore is the order persistence surface the reconciliation path
// needs. FinalizePaid must be atomic and conditional on pending status so a
// replayed event is a no-op.
type ReconcileStore interface {
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByPaymentRef(ctx context.Context, ref string) (*model.Order, error)
	GetWithItems(ctx context.Context, id string) (*model.Order, error)
	FinalizePaid(ctx context.Context, orderID string, addr *model.ShippingAddress) (bool, error)
	CancelPending(ctx context.Context, orderID string) (bool, error)
}

// PaymentService reconciles processor events against pending orders. The
// processor's word is the only trigger for the paid transition; nothing the
// storefront client sends can flip an order to paid.
type PaymentService struct {
	Orders        ReconcileStore
	Mailer        OrderMailer
	webhookSecret string
}

func NewPaymentService(orders ReconcileStore, mailer OrderMailer, webhookSecret string) *PaymentService {
	return &PaymentService{Orders: orders, Mailer: mailer, webhookSecret: webhookSecret}
}

// HandleStripeEvent verifies and dispatches one webhook delivery. Returns
// ErrInvalidSignature when the payload does not match the endpoint secret.
func (s *PaymentService) HandleStripeEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := extstripe.VerifyWebhook(payload, sigHeader, s.webhookSecret)
	if err != nil {
		log.WithError(err).Warn("stripe webhook signature verification failed")
		return ErrInvalidSignature
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		return s.handleSessionCompleted(ctx, &sess)

	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		return s.handleSessionExpired(ctx, &sess)

	default:
		log.WithField("type", event.Type).Debug("ignoring stripe event")
		return nil
	}
}

func (s *PaymentService) handleSessionCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	orderID := sess.Metadata["order_id"]

	var addr *model.ShippingAddress
	if sd := sess.ShippingDetails; sd != nil && sd.Address != nil {
		addr = &model.ShippingAddress{
			FullName:   sd.Name,
			Line1:      sd.Address.Line1,
			City:       sd.Address.City,
			State:      sd.Address.State,
			PostalCode: sd.Address.PostalCode,
			Country:    sd.Address.Country,
		}
		if sd.Address.Line2 != "" {
			line2 := sd.Address.Line2
			addr.Line2 = &line2
		}
	}

	var email, name string
	if cd := sess.CustomerDetails; cd != nil {
		email = cd.Email
		name = cd.Name
	}

	return s.ReconcilePaid(ctx, orderID, sess.ID, addr, email, name)
}

func (s *PaymentService) handleSessionExpired(ctx context.Context, sess *stripe.CheckoutSession) error {
	order, err := s.resolveOrder(ctx, sess.Metadata["order_id"], sess.ID)
	if err != nil || order == nil {
		return err
	}
	cancelled, err := s.Orders.CancelPending(ctx, order.ID)
	if err != nil {
		return err
	}
	if cancelled {
		log.WithField("order_id", order.ID).Info("pending order cancelled after session expiry")
	}
	return nil
}

func (s *PaymentService) resolveOrder(ctx context.Context, orderID, paymentRef string) (*model.Order, error) {
	if orderID != "" {
		order, err := s.Orders.GetByID(ctx, orderID)
		if err != nil || order != nil {
			return order, err
		}
	}
	if paymentRef != "" {
		return s.Orders.GetByPaymentRef(ctx, paymentRef)
	}
	return nil, nil
}

// ReconcilePaid moves an order to paid exactly once. A second delivery for
// the same order finds it already out of pending and does nothing, so stock
// is never decremented twice and the confirmation email is sent once.
func (s *PaymentService) ReconcilePaid(ctx context.Context, orderID, paymentRef string, addr *model.ShippingAddress, email, name string) error {
	order, err := s.resolveOrder(ctx, orderID, paymentRef)
	if err != nil {
		return err
	}
	if order == nil {
		log.WithFields(log.Fields{
			"order_id":    orderID,
			"payment_ref": paymentRef,
		}).Error("payment event references unknown order")
		return ErrOrderNotFound
	}

	applied, err := s.Orders.FinalizePaid(ctx, order.ID, addr)
	if err != nil {
		return err
	}
	if !applied {
		log.WithField("order_id", order.ID).Info("payment event replay ignored, order not pending")
		return nil
	}

	full, err := s.Orders.GetWithItems(ctx, order.ID)
	if err != nil {
		log.WithError(err).WithField("order_id", order.ID).
			Warn("order paid but reload for confirmation email failed")
		return nil
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendOrderConfirmation(ctx, full, email, name); err != nil {
			log.WithError(err).WithField("order_id", order.ID).
				Warn("order confirmation email failed")
		}
	}
	return nil
}
