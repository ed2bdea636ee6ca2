package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/wizardsoflight-studio/studioWebsite/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalCart(t *testing.T, items []cart.Item) []byte {
	t.Helper()
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return b
}

func TestCartSyncEmpty(t *testing.T) {
	svc := NewCartService(testCatalog())

	res, err := svc.Sync(context.Background(), []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Adjustments)
}

func TestCartSyncDropsUnavailableLines(t *testing.T) {
	svc := NewCartService(testCatalog())

	raw := marshalCart(t, []cart.Item{
		{VariantID: "v-wallet", Quantity: 2, Price: 1000, MaxStock: 10},
		{VariantID: "v-gone", Quantity: 1, Price: 500, MaxStock: 10},
		{VariantID: "v-draft", Quantity: 1, Price: 900, MaxStock: 10},
	})

	res, err := svc.Sync(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "v-wallet", res.Items[0].VariantID)
	require.Len(t, res.Adjustments, 2)
	assert.Equal(t, "no longer available", res.Adjustments[0].Reason)
}

func TestCartSyncClampsToLiveStock(t *testing.T) {
	svc := NewCartService(testCatalog())

	// v-belt has 2 in stock; the stale cart thinks there are 10.
	raw := marshalCart(t, []cart.Item{
		{VariantID: "v-belt", Quantity: 8, Price: 500, MaxStock: 10},
	})

	res, err := svc.Sync(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].Quantity)
	assert.Equal(t, int64(1000), res.Subtotal)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, "quantity reduced to available stock", res.Adjustments[0].Reason)
}

func TestCartSyncCorruptBlobYieldsEmptyCart(t *testing.T) {
	svc := NewCartService(testCatalog())

	res, err := svc.Sync(context.Background(), []byte(`{not json`))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}
