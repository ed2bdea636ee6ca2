package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/wizardsoflight-studio/studioWebsite/external/paypal"
	"github.com/wizardsoflight-studio/studioWebsite/external/stripe"
	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
)

type fakeCatalog struct {
	variants map[string]model.VariantDetail
	err      error
}

func (f *fakeCatalog) GetVariantsForCheckout(_ context.Context, ids []string) ([]model.VariantDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.VariantDetail
	for _, id := range ids {
		if d, ok := f.variants[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeOrders is an in-memory order store covering the checkout, history and
// reconciliation interfaces.
type fakeOrders struct {
	nextID    int
	orders    map[string]*model.Order
	finalized []string
	cancelled []string

	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*model.Order{}}
}

func (f *fakeOrders) CreateWithItems(_ context.Context, o *model.Order, items []model.OrderItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	o.ID = fmt.Sprintf("order-%d", f.nextID)
	o.Items = items
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) SetPaymentRef(_ context.Context, orderID, ref string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return errors.New("order not found")
	}
	o.PaymentIntentID = &ref
	return nil
}

func (f *fakeOrders) CancelPending(_ context.Context, orderID string) (bool, error) {
	o, ok := f.orders[orderID]
	if !ok || o.Status != model.OrderPending {
		return false, nil
	}
	o.Status = model.OrderCancelled
	f.cancelled = append(f.cancelled, orderID)
	return true, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) GetByPaymentRef(_ context.Context, ref string) (*model.Order, error) {
	for _, o := range f.orders {
		if o.PaymentIntentID != nil && *o.PaymentIntentID == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) GetWithItems(_ context.Context, id string) (*model.Order, error) {
	return f.GetByID(context.Background(), id)
}

func (f *fakeOrders) FinalizePaid(_ context.Context, orderID string, addr *model.ShippingAddress) (bool, error) {
	o, ok := f.orders[orderID]
	if !ok || o.Status != model.OrderPending {
		return false, nil
	}
	o.Status = model.OrderPaid
	if addr != nil {
		o.ShippingAddress = addr
	}
	f.finalized = append(f.finalized, orderID)
	return true, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeSessioner struct {
	session *stripe.Session
	err     error
	inputs  []stripe.SessionInput
}

func (f *fakeSessioner) CreateCheckoutSession(_ context.Context, in stripe.SessionInput) (*stripe.Session, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type sentMail struct {
	order *model.Order
	email string
	name  string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendOrderConfirmation(_ context.Context, order *model.Order, toEmail, toName string) error {
	f.sent = append(f.sent, sentMail{order: order, email: toEmail, name: toName})
	return f.err
}

type fakeProcessor struct {
	created   []int64
	createRes *paypal.OrderResult
	createErr error

	captured   []string
	captureRes *paypal.CaptureResult
	captureErr error
}

func (f *fakeProcessor) CreateOrder(_ context.Context, totalCents int64, _ string) (*paypal.OrderResult, error) {
	f.created = append(f.created, totalCents)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createRes, nil
}

func (f *fakeProcessor) CaptureOrder(_ context.Context, orderID string) (*paypal.CaptureResult, error) {
	f.captured = append(f.captured, orderID)
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.captureRes, nil
}

type reconcileCall struct {
	orderID    string
	paymentRef string
	addr       *model.ShippingAddress
	email      string
	name       string
}

type fakeReconciler struct {
	calls []reconcileCall
	err   error
}

func (f *fakeReconciler) ReconcilePaid(_ context.Context, orderID, paymentRef string, addr *model.ShippingAddress, email, name string) error {
	f.calls = append(f.calls, reconcileCall{orderID, paymentRef, addr, email, name})
	return f.err
}
