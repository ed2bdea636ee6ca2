package services

import (
	"context"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
)

// ProductReader is the read side of the catalog.
type ProductReader interface {
	ListPublished(ctx context.Context, filter model.CatalogFilter) ([]model.Product, error)
	GetBySlug(ctx context.Context, slug string, includeNSFW bool) (*model.Product, error)
}

type CategoryReader interface {
	List(ctx context.Context, includeNSFW bool) ([]model.Category, error)
}

// CatalogService is pure read: it derives the display fields the storefront
// needs from products, variants and images. The NSFW filter is a
// client-confirmed age flag this service trusts by construction.
type CatalogService struct {
	Products   ProductReader
	Categories CategoryReader
}

func NewCatalogService(products ProductReader, categories CategoryReader) *CatalogService {
	return &CatalogService{Products: products, Categories: categories}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter model.CatalogFilter) ([]model.ProductSummary, error) {
	products, err := s.Products.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProductSummary, 0, len(products))
	for i := range products {
		out = append(out, Summarize(&products[i]))
	}
	return out, nil
}

// GetProduct returns (nil, nil) when the slug does not resolve.
func (s *CatalogService) GetProduct(ctx context.Context, slug string, includeNSFW bool) (*model.ProductSummary, error) {
	p, err := s.Products.GetBySlug(ctx, slug, includeNSFW)
	if err != nil || p == nil {
		return nil, err
	}
	summary := Summarize(p)
	return &summary, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, includeNSFW bool) ([]model.Category, error) {
	return s.Categories.List(ctx, includeNSFW)
}

// Summarize computes the derived listing fields: minimum variant price,
// summed stock, whether variants have differing prices, the primary image
// (first flagged primary, else first by sort order), and the stock label.
func Summarize(p *model.Product) model.ProductSummary {
	sum := model.ProductSummary{Product: *p}

	for i, v := range p.Variants {
		if i == 0 || v.Price < sum.MinPrice {
			sum.MinPrice = v.Price
		}
		sum.TotalStock += v.StockCount
		if v.Price != p.Variants[0].Price {
			sum.HasMultiplePrices = true
		}
	}

	for i := range p.Images {
		if p.Images[i].IsPrimary {
			sum.PrimaryImage = &p.Images[i]
			break
		}
	}
	if sum.PrimaryImage == nil && len(p.Images) > 0 {
		sum.PrimaryImage = &p.Images[0] // images come ordered by sort_order
	}

	sum.StockLabel = StockLabel(sum.TotalStock, p.LowStockThreshold)
	return sum
}

// StockLabel turns an internal count into the storefront label. Empty string
// means in stock, no label needed.
func StockLabel(count, threshold int) string {
	if threshold <= 0 {
		threshold = 10
	}
	if count <= 0 {
		return "Out of Stock"
	}
	if count <= threshold {
		return "Limited Supply"
	}
	return ""
}
