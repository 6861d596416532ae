package kroger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProducts(t *testing.T) {
	t.Run("promo price wins over regular", func(t *testing.T) {
		products := mapProducts([]krogerProduct{
			{
				ProductID:   "0001",
				Description: "Whole Milk",
				Items: []krogerItem{
					{Price: &krogerPrice{Regular: 3.49, Promo: 2.99}},
				},
			},
		})

		require.Len(t, products, 1)
		require.NotNil(t, products[0].Price)
		assert.Equal(t, 2.99, *products[0].Price)
	})

	t.Run("regular price used when no promo", func(t *testing.T) {
		products := mapProducts([]krogerProduct{
			{ProductID: "0001", Items: []krogerItem{{Price: &krogerPrice{Regular: 3.49}}}},
		})

		require.Len(t, products, 1)
		require.NotNil(t, products[0].Price)
		assert.Equal(t, 3.49, *products[0].Price)
	})

	t.Run("missing price stays nil, never zero", func(t *testing.T) {
		products := mapProducts([]krogerProduct{
			{ProductID: "0001", Description: "Saffron Threads"},
		})

		require.Len(t, products, 1)
		assert.Nil(t, products[0].Price)
		// Identified record still counts as available
		require.NotNil(t, products[0].Available)
		assert.True(t, *products[0].Available)
	})

	t.Run("front image preferred", func(t *testing.T) {
		products := mapProducts([]krogerProduct{
			{
				ProductID: "0001",
				Images: []krogerImage{
					{Perspective: "back", Sizes: []struct {
						Size string `json:"size"`
						URL  string `json:"url"`
					}{{Size: "medium", URL: "http://img/back"}}},
					{Perspective: "front", Sizes: []struct {
						Size string `json:"size"`
						URL  string `json:"url"`
					}{{Size: "medium", URL: "http://img/front"}}},
				},
			},
		})

		require.Len(t, products, 1)
		assert.Equal(t, "http://img/front", products[0].Image)
	})

	t.Run("falls back to any image when no front", func(t *testing.T) {
		products := mapProducts([]krogerProduct{
			{
				ProductID: "0001",
				Images: []krogerImage{
					{Perspective: "back", Sizes: []struct {
						Size string `json:"size"`
						URL  string `json:"url"`
					}{{Size: "medium", URL: "http://img/back"}}},
				},
			},
		})

		require.Len(t, products, 1)
		assert.Equal(t, "http://img/back", products[0].Image)
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		assert.Empty(t, mapProducts(nil))
	})
}

func TestMapLocations(t *testing.T) {
	t.Run("formats address and falls back to chain name", func(t *testing.T) {
		locations := mapLocations([]krogerLocation{
			{
				LocationID: "701",
				Chain:      "Kroger",
				Address: &struct {
					AddressLine1 string `json:"addressLine1"`
					City         string `json:"city"`
					State        string `json:"state"`
					ZipCode      string `json:"zipCode"`
				}{
					AddressLine1: "100 Main St",
					City:         "Cincinnati",
					State:        "OH",
					ZipCode:      "45202",
				},
			},
		})

		require.Len(t, locations, 1)
		assert.Equal(t, "Kroger", locations[0].Name)
		assert.Equal(t, "100 Main St, Cincinnati, OH 45202", locations[0].Address)
	})

	t.Run("missing address leaves the field empty", func(t *testing.T) {
		locations := mapLocations([]krogerLocation{
			{LocationID: "702", Name: "Midtown Kroger", Chain: "Kroger"},
		})

		require.Len(t, locations, 1)
		assert.Equal(t, "Midtown Kroger", locations[0].Name)
		assert.Empty(t, locations[0].Address)
	})
}
