package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
)

type AdminProductStore interface {
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product, categoryIDs []string) error
	UpdateProduct(ctx context.Context, p *model.Product, categoryIDs []string) error
	DeleteProduct(ctx context.Context, id string) error
	CatalogTotals(ctx context.Context) (productCount, totalStock int, err error)
}

type AdminOrderStore interface {
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
	GetWithItems(ctx context.Context, id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, trackingNumber, trackingURL, notes *string) error
	SalesTotals(ctx context.Context) (revenue int64, paid, pending, shipped int, err error)
}

type CustomerStore interface {
	List(ctx context.Context, limit, offset int) ([]model.Profile, error)
	Count(ctx context.Context) (int, error)
}

type CategoryStore interface {
	List(ctx context.Context, includeNSFW bool) ([]model.Category, error)
	Create(ctx context.Context, c *model.Category) error
}

// AdminService backs the back-office views. Role checks happen at the route
// layer; by the time a call lands here the caller is already authorized.
type AdminService struct {
	Products   AdminProductStore
	Orders     AdminOrderStore
	Customers  CustomerStore
	Categories CategoryStore
}

func NewAdminService(products AdminProductStore, orders AdminOrderStore, customers CustomerStore, categories CategoryStore) *AdminService {
	return &AdminService{Products: products, Orders: orders, Customers: customers, Categories: categories}
}

func (s *AdminService) Dashboard(ctx context.Context) (*model.SalesStats, error) {
	revenue, paid, pending, shipped, err := s.Orders.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}
	productCount, totalStock, err := s.Products.CatalogTotals(ctx)
	if err != nil {
		return nil, err
	}
	customerCount, err := s.Customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &model.SalesStats{
		TotalRevenue:  revenue,
		PaidOrders:    paid,
		PendingOrders: pending,
		ShippedOrders: shipped,
		ProductCount:  productCount,
		TotalStock:    totalStock,
		CustomerCount: customerCount,
	}, nil
}

func (s *AdminService) ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	return s.Orders.List(ctx, limit, offset)
}

func (s *AdminService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.Orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

type OrderStatusUpdate struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	TrackingURL    *string `json:"tracking_url"`
	Notes          *string `json:"notes"`
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID string, in OrderStatusUpdate) error {
	status := model.OrderStatus(in.Status)
	if !status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, in.Status)
	}
	return s.Orders.UpdateStatus(ctx, orderID, status, in.TrackingNumber, in.TrackingURL, in.Notes)
}

func (s *AdminService) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return s.Products.List(ctx, limit, offset)
}

type ProductInput struct {
	model.Product
	CategoryIDs []string `json:"category_ids"`
}

func (s *AdminService) CreateProduct(ctx context.Context, in *ProductInput) (*model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if len(in.Variants) == 0 {
		return nil, fmt.Errorf("%w: at least one variant is required", ErrInvalidInput)
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	if err := s.Products.CreateProduct(ctx, &in.Product, in.CategoryIDs); err != nil {
		return nil, err
	}
	return &in.Product, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id string, in *ProductInput) (*model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	in.ID = id
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	if err := s.Products.UpdateProduct(ctx, &in.Product, in.CategoryIDs); err != nil {
		return nil, err
	}
	return &in.Product, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	return s.Products.DeleteProduct(ctx, id)
}

func (s *AdminService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.Categories.List(ctx, true)
}

func (s *AdminService) CreateCategory(ctx context.Context, c *model.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return s.Categories.Create(ctx, c)
}

func (s *AdminService) ListCustomers(ctx context.Context, limit, offset int) ([]model.Profile, error) {
	return s.Customers.List(ctx, limit, offset)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and collapses everything non-alphanumeric to hyphens.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
