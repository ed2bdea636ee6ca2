// Package cart models the client-held shopping cart. The storefront keeps it
// in local storage; the server only ever sees it as a serialized blob handed
// to the sync endpoint, or reduced to (variantId, quantity) pairs at checkout.
package cart

import "encoding/json"

// Item is one cart line, keyed by variant id. MaxStock is the variant's known
// stock at the time the item was added; quantities are clamped to it.
type Item struct {
	VariantID   string  `json:"variantId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	VariantName string  `json:"variantName"`
	Price       int64   `json:"price"` // cents
	Quantity    int     `json:"quantity"`
	Image       *string `json:"image,omitempty"`
	Slug        string  `json:"slug"`
	IsNSFW      bool    `json:"isNsfw"`
	MaxStock    int     `json:"maxStock"`
}

type Store struct {
	items []Item
}

func New() *Store {
	return &Store{}
}

// Load parses a serialized cart. Invalid data yields an empty cart rather
// than an error — a corrupt local-storage blob must not break the store.
func Load(data []byte) *Store {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return &Store{}
	}
	s := &Store{}
	for _, it := range items {
		if it.VariantID == "" || it.Quantity <= 0 {
			continue
		}
		s.Add(it)
	}
	return s
}

func (s *Store) Save() ([]byte, error) {
	if s.items == nil {
		return json.Marshal([]Item{})
	}
	return json.Marshal(s.items)
}

// Add merges into an existing line for the same variant, clamping the
// combined quantity to MaxStock.
func (s *Store) Add(it Item) {
	if it.Quantity <= 0 {
		return
	}
	for i := range s.items {
		if s.items[i].VariantID == it.VariantID {
			s.items[i].Quantity = clamp(s.items[i].Quantity+it.Quantity, 1, s.items[i].MaxStock)
			return
		}
	}
	it.Quantity = clamp(it.Quantity, 1, it.MaxStock)
	s.items = append(s.items, it)
}

func (s *Store) Remove(variantID string) {
	out := s.items[:0]
	for _, it := range s.items {
		if it.VariantID != variantID {
			out = append(out, it)
		}
	}
	s.items = out
}

// UpdateQuantity sets the quantity for a line; zero or less removes it.
func (s *Store) UpdateQuantity(variantID string, quantity int) {
	if quantity <= 0 {
		s.Remove(variantID)
		return
	}
	for i := range s.items {
		if s.items[i].VariantID == variantID {
			s.items[i].Quantity = clamp(quantity, 1, s.items[i].MaxStock)
			return
		}
	}
}

// SetMaxStock refreshes a line's stock ceiling from live catalog data and
// re-clamps the quantity. Returns true if the quantity changed.
func (s *Store) SetMaxStock(variantID string, maxStock int) bool {
	for i := range s.items {
		if s.items[i].VariantID != variantID {
			continue
		}
		s.items[i].MaxStock = maxStock
		if maxStock <= 0 {
			s.Remove(variantID)
			return true
		}
		if s.items[i].Quantity > maxStock {
			s.items[i].Quantity = maxStock
			return true
		}
		return false
	}
	return false
}

func (s *Store) Clear() {
	s.items = nil
}

func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(variantID string) (Item, bool) {
	for _, it := range s.items {
		if it.VariantID == variantID {
			return it, true
		}
	}
	return Item{}, false
}

func (s *Store) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Subtotal() int64 {
	var sum int64
	for _, it := range s.items {
		sum += it.Price * int64(it.Quantity)
	}
	return sum
}

func clamp(v, min, max int) int {
	if max < min {
		max = min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
