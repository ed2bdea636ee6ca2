package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beltItem(qty int) Item {
	return Item{
		VariantID:   "var-belt-l",
		ProductID:   "prod-belt",
		ProductName: "Ranger Belt",
		VariantName: "Large / Black",
		Price:       4500,
		Quantity:    qty,
		Slug:        "ranger-belt",
		MaxStock:    5,
	}
}

func walletItem(qty int) Item {
	return Item{
		VariantID:   "var-wallet",
		ProductID:   "prod-wallet",
		ProductName: "Bifold Wallet",
		VariantName: "Tan",
		Price:       3200,
		Quantity:    qty,
		Slug:        "bifold-wallet",
		MaxStock:    2,
	}
}

func TestAddMergesSameVariant(t *testing.T) {
	s := New()
	s.Add(beltItem(1))
	s.Add(beltItem(2))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, s.ItemCount())
}

func TestAddClampsToMaxStock(t *testing.T) {
	s := New()
	s.Add(beltItem(4))
	s.Add(beltItem(4)) // would be 8, stock is 5

	it, ok := s.Get("var-belt-l")
	require.True(t, ok)
	assert.Equal(t, 5, it.Quantity)
}

func TestSubtotalAndCount(t *testing.T) {
	s := New()
	s.Add(beltItem(2))
	s.Add(walletItem(1))

	assert.Equal(t, 3, s.ItemCount())
	assert.Equal(t, int64(2*4500+3200), s.Subtotal())
}

func TestUpdateQuantity(t *testing.T) {
	s := New()
	s.Add(beltItem(2))

	s.UpdateQuantity("var-belt-l", 4)
	it, _ := s.Get("var-belt-l")
	assert.Equal(t, 4, it.Quantity)

	// over stock clamps
	s.UpdateQuantity("var-belt-l", 99)
	it, _ = s.Get("var-belt-l")
	assert.Equal(t, 5, it.Quantity)

	// zero removes
	s.UpdateQuantity("var-belt-l", 0)
	_, ok := s.Get("var-belt-l")
	assert.False(t, ok)
}

func TestRemoveAndClear(t *testing.T) {
	s := New()
	s.Add(beltItem(1))
	s.Add(walletItem(1))

	s.Remove("var-wallet")
	assert.Len(t, s.Items(), 1)

	s.Clear()
	assert.Empty(t, s.Items())
	assert.Equal(t, int64(0), s.Subtotal())
}

func TestSetMaxStock(t *testing.T) {
	s := New()
	s.Add(beltItem(5))

	// stock dropped to 3 since the item was added
	changed := s.SetMaxStock("var-belt-l", 3)
	assert.True(t, changed)
	it, _ := s.Get("var-belt-l")
	assert.Equal(t, 3, it.Quantity)

	// stock still covers the quantity: no change
	changed = s.SetMaxStock("var-belt-l", 10)
	assert.False(t, changed)

	// sold out: line is dropped
	changed = s.SetMaxStock("var-belt-l", 0)
	assert.True(t, changed)
	assert.Empty(t, s.Items())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	s.Add(beltItem(2))
	s.Add(walletItem(1))

	data, err := s.Save()
	require.NoError(t, err)

	loaded := Load(data)
	require.Len(t, loaded.Items(), 2)
	assert.Equal(t, s.Subtotal(), loaded.Subtotal())
	assert.Equal(t, s.ItemCount(), loaded.ItemCount())
}

func TestLoadTolerant(t *testing.T) {
	assert.Empty(t, Load([]byte("not json")).Items())
	assert.Empty(t, Load(nil).Items())

	// lines without a variant id or with non-positive quantity are dropped
	raw := []byte(`[{"variantId":"","quantity":2},{"variantId":"v1","quantity":0},{"variantId":"v2","quantity":1,"price":100,"maxStock":5}]`)
	s := Load(raw)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "v2", s.Items()[0].VariantID)
}
