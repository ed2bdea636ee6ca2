package services

import (
	"context"

	"github.com/wizardsoflight-studio/studioWebsite/internal/cart"
)

// CartAdjustment tells the client what changed about a line during sync.
type CartAdjustment struct {
	VariantID string `json:"variant_id"`
	Reason    string `json:"reason"`
}

type CartSyncResult struct {
	Items       []cart.Item      `json:"items"`
	ItemCount   int              `json:"item_count"`
	Subtotal    int64            `json:"subtotal"`
	Adjustments []CartAdjustment `json:"adjustments,omitempty"`
}

// CartService re-validates a locally stored cart against live catalog data:
// lines whose product vanished or was unpublished are dropped, quantities are
// re-clamped to current stock. The cart itself stays client-held; nothing is
// persisted here.
type CartService struct {
	Catalog VariantCatalog
}

func NewCartService(catalog VariantCatalog) *CartService {
	return &CartService{Catalog: catalog}
}

func (s *CartService) Sync(ctx context.Context, raw []byte) (*CartSyncResult, error) {
	store := cart.Load(raw)
	items := store.Items()
	if len(items) == 0 {
		return &CartSyncResult{Items: []cart.Item{}}, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VariantID)
	}
	details, err := s.Catalog.GetVariantsForCheckout(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int, len(details))
	for i, d := range details {
		byID[d.VariantID] = i
	}

	var adjustments []CartAdjustment
	for _, it := range items {
		idx, ok := byID[it.VariantID]
		if !ok || !details[idx].IsPublished {
			store.Remove(it.VariantID)
			adjustments = append(adjustments, CartAdjustment{
				VariantID: it.VariantID,
				Reason:    "no longer available",
			})
			continue
		}
		if store.SetMaxStock(it.VariantID, details[idx].StockCount) {
			reason := "quantity reduced to available stock"
			if details[idx].StockCount <= 0 {
				reason = "out of stock"
			}
			adjustments = append(adjustments, CartAdjustment{
				VariantID: it.VariantID,
				Reason:    reason,
			})
		}
	}

	return &CartSyncResult{
		Items:       store.Items(),
		ItemCount:   store.ItemCount(),
		Subtotal:    store.Subtotal(),
		Adjustments: adjustments,
	}, nil
}
