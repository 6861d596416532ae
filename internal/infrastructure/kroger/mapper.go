package kroger

import (
	"fmt"

	"github.com/smartcart/backend/internal/domain"
)

// productSearchResponse is the Kroger /v1/products payload.
type productSearchResponse struct {
	Data []krogerProduct `json:"data"`
}

type krogerProduct struct {
	ProductID   string       `json:"productId"`
	Description string       `json:"description"`
	Brand       string       `json:"brand"`
	Categories  []string     `json:"categories"`
	Items       []krogerItem `json:"items"`
	Images      []krogerImage `json:"images"`
}

type krogerItem struct {
	Size        string            `json:"size"`
	Price       *krogerPrice      `json:"price"`
	Fulfillment krogerFulfillment `json:"fulfillment"`
}

type krogerPrice struct {
	Regular float64 `json:"regular"`
	Promo   float64 `json:"promo"`
}

type krogerFulfillment struct {
	InStore bool `json:"inStore"`
}

type krogerImage struct {
	Perspective string `json:"perspective"`
	Sizes       []struct {
		Size string `json:"size"`
		URL  string `json:"url"`
	} `json:"sizes"`
}

// locationsResponse is the Kroger /v1/locations payload.
type locationsResponse struct {
	Data []krogerLocation `json:"data"`
}

type krogerLocation struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Chain      string `json:"chain"`
	Address    *struct {
		AddressLine1 string `json:"addressLine1"`
		City         string `json:"city"`
		State        string `json:"state"`
		ZipCode      string `json:"zipCode"`
	} `json:"address"`
}

// mapProducts converts Kroger catalog records to domain products.
// The promo price wins over the regular price when both are set; a product
// counts as available when it carries a price, in-store fulfillment, or at
// least an identifier.
func mapProducts(records []krogerProduct) []domain.Product {
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		var item *krogerItem
		if len(rec.Items) > 0 {
			item = &rec.Items[0]
		}

		var price *float64
		size := ""
		inStore := false
		if item != nil {
			size = item.Size
			inStore = item.Fulfillment.InStore
			if item.Price != nil {
				if item.Price.Promo > 0 {
					p := item.Price.Promo
					price = &p
				} else if item.Price.Regular > 0 {
					p := item.Price.Regular
					price = &p
				}
			}
		}

		available := price != nil || inStore || rec.ProductID != ""

		products = append(products, domain.Product{
			ProductID:  rec.ProductID,
			Name:       rec.Description,
			Brand:      rec.Brand,
			Size:       size,
			Price:      price,
			Available:  &available,
			Categories: rec.Categories,
			Image:      firstImageURL(rec.Images),
		})
	}
	return products
}

// firstImageURL picks the front-perspective image when present.
func firstImageURL(images []krogerImage) string {
	for _, img := range images {
		if img.Perspective != "" && img.Perspective != "front" {
			continue
		}
		if len(img.Sizes) > 0 {
			return img.Sizes[0].URL
		}
	}
	for _, img := range images {
		if len(img.Sizes) > 0 {
			return img.Sizes[0].URL
		}
	}
	return ""
}

// mapLocations converts Kroger store records to domain locations.
func mapLocations(records []krogerLocation) []domain.StoreLocation {
	locations := make([]domain.StoreLocation, 0, len(records))
	for _, rec := range records {
		name := rec.Name
		if name == "" {
			name = rec.Chain
		}
		address := ""
		if rec.Address != nil {
			address = fmt.Sprintf("%s, %s, %s %s",
				rec.Address.AddressLine1, rec.Address.City, rec.Address.State, rec.Address.ZipCode)
		}
		locations = append(locations, domain.StoreLocation{
			LocationID: rec.LocationID,
			Name:       name,
			Address:    address,
			Chain:      rec.Chain,
		})
	}
	return locations
}
