package services

import (
	"context"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
)

type OrderHistory interface {
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	GetWithItems(ctx context.Context, id string) (*model.Order, error)
}

// OrderService serves the signed-in account's order history. Ownership is
// checked here, not in the handler, so every caller gets the same rule.
type OrderService struct {
	Orders OrderHistory
}

func NewOrderService(orders OrderHistory) *OrderService {
	return &OrderService{Orders: orders}
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// GetForUser returns one order if and only if it belongs to the caller.
// Guest orders have no user id and are never visible through this path.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.Orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}
