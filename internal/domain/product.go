package domain

// Product represents a single retail product candidate returned by a
// product-search source. The matching engine only reads these fields.
type Product struct {
	ProductID  string   `json:"productId"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand,omitempty"`
	Size       string   `json:"size,omitempty"`
	Price      *float64 `json:"price"`     // nil = price unknown
	Available  *bool    `json:"available"` // nil = availability unknown
	Categories []string `json:"categories,omitempty"`
	Image      string   `json:"image,omitempty"`
}

// HasPrice reports whether the product carries a known, positive price.
func (p *Product) HasPrice() bool {
	return p.Price != nil && *p.Price > 0
}

// IsAvailable reports whether the product is explicitly marked available.
func (p *Product) IsAvailable() bool {
	return p.Available != nil && *p.Available
}

// SourceID identifies one product-search provider.
type SourceID string

const (
	SourceKroger  SourceID = "kroger"
	SourceWalmart SourceID = "walmart"
)

// RankedResult is the final ordered shortlist of products for one
// ingredient at one source. Never more than MaxRankedProducts entries,
// never a duplicate product ID, internal scores already stripped.
type RankedResult struct {
	Ingredient string    `json:"ingredient"`
	Query      string    `json:"query"` // normalized query actually searched
	Source     SourceID  `json:"source"`
	Products   []Product `json:"products"`
}

// MaxRankedProducts caps the shortlist handed to callers.
const MaxRankedProducts = 3

// TopProduct returns the highest-ranked product, or nil if none matched.
func (r *RankedResult) TopProduct() *Product {
	if r == nil || len(r.Products) == 0 {
		return nil
	}
	return &r.Products[0]
}

// BestPick is the single cross-source choice for one ingredient.
// Found distinguishes a real pick from "not found at any source";
// callers must never render a missing pick as a $0.00 item.
type BestPick struct {
	Ingredient string   `json:"ingredient"`
	Source     SourceID `json:"source,omitempty"`
	Product    *Product `json:"product"`
	Found      bool     `json:"found"`
}

// StoreLocation is one physical store returned by the store locator.
type StoreLocation struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Chain      string `json:"chain"`
}
