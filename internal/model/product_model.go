package model

import "time"

// Product is a catalog entry. Variants carry price and stock; the product
// itself only holds publication and routing flags.
type Product struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Description       string     `json:"description"`
	ShortDescription  *string    `json:"short_description,omitempty"`
	IsNSFW            bool       `json:"is_nsfw"`
	IsCustomOrder     bool       `json:"is_custom_order"`
	IsPublished       bool       `json:"is_published"`
	LowStockThreshold int        `json:"low_stock_threshold"`
	VideoURL          *string    `json:"video_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Loaded by the repository when listing/fetching catalog entries.
	Variants []ProductVariant `json:"variants,omitempty"`
	Images   []ProductImage   `json:"images,omitempty"`
}

type ProductVariant struct {
	ID             string            `json:"id"`
	ProductID      string            `json:"product_id"`
	SKU            string            `json:"sku"`
	Name           string            `json:"name"`
	Price          int64             `json:"price"` // cents
	CompareAtPrice *int64            `json:"compare_at_price,omitempty"`
	StockCount     int               `json:"stock_count"`
	WeightGrams    *int              `json:"weight_grams,omitempty"`
	SortOrder      int               `json:"sort_order"`
	Options        map[string]string `json:"options,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

type ProductImage struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	URL       string  `json:"url"`
	Alt       *string `json:"alt,omitempty"`
	SortOrder int     `json:"sort_order"`
	IsPrimary bool    `json:"is_primary"`
}

type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	IsNSFW      bool    `json:"is_nsfw"`
	SortOrder   int     `json:"sort_order"`
}

// ProductSummary is a catalog listing row with display fields derived from
// the product's variants and images.
type ProductSummary struct {
	Product
	MinPrice          int64         `json:"min_price"`
	TotalStock        int           `json:"total_stock"`
	HasMultiplePrices bool          `json:"has_multiple_prices"`
	PrimaryImage      *ProductImage `json:"primary_image,omitempty"`
	StockLabel        string        `json:"stock_label,omitempty"`
}

// VariantDetail is the joined variant+product row the checkout path loads in
// one batch read. Prices here are authoritative; client prices never are.
type VariantDetail struct {
	VariantID    string  `json:"variant_id"`
	VariantName  string  `json:"variant_name"`
	Price        int64   `json:"price"`
	StockCount   int     `json:"stock_count"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductSlug  string  `json:"product_slug"`
	IsNSFW       bool    `json:"is_nsfw"`
	IsPublished  bool    `json:"is_published"`
	ProductImage *string `json:"product_image,omitempty"`
}

type CatalogFilter struct {
	CategorySlug string
	IncludeNSFW  bool
}
