package usecase

import "github.com/smartcart/backend/internal/domain"

// BestPickResolver chooses a single product per ingredient across sources.
// Pure selection over already-fetched ranked results; it performs no
// network calls.
type BestPickResolver struct {
	priority []domain.SourceID
}

// NewBestPickResolver creates a resolver with a fixed source priority.
// The order is the tie-break: on an exact lowest-price tie the
// earlier-registered source wins.
func NewBestPickResolver(priority ...domain.SourceID) *BestPickResolver {
	return &BestPickResolver{priority: priority}
}

// Sources returns the registered priority order.
func (r *BestPickResolver) Sources() []domain.SourceID {
	return r.priority
}

// Resolve picks the single best product for one ingredient.
// Among sources offering a priced candidate the strictly lowest price wins.
// A source with any candidate beats sources with none, even unpriced:
// presence beats absence. No candidates anywhere yields an explicit
// not-found pick with a nil product, never a zero-priced entry.
func (r *BestPickResolver) Resolve(ingredient string, perSource map[domain.SourceID]*domain.RankedResult) domain.BestPick {
	pick := domain.BestPick{Ingredient: ingredient}

	var bestPriced, bestAny *domain.Product
	var bestPricedSource, bestAnySource domain.SourceID

	for _, id := range r.priority {
		product := bestOfRanked(perSource[id])
		if product == nil {
			continue
		}
		if bestAny == nil {
			bestAny = product
			bestAnySource = id
		}
		if product.HasPrice() && (bestPriced == nil || *product.Price < *bestPriced.Price) {
			bestPriced = product
			bestPricedSource = id
		}
	}

	switch {
	case bestPriced != nil:
		pick.Source = bestPricedSource
		pick.Product = bestPriced
		pick.Found = true
	case bestAny != nil:
		pick.Source = bestAnySource
		pick.Product = bestAny
		pick.Found = true
	}

	return pick
}

// bestOfRanked picks one product from a source's ranked shortlist,
// preferring available+priced over available over priced over merely first.
func bestOfRanked(result *domain.RankedResult) *domain.Product {
	if result == nil || len(result.Products) == 0 {
		return nil
	}
	for i := range result.Products {
		if result.Products[i].IsAvailable() && result.Products[i].HasPrice() {
			return &result.Products[i]
		}
	}
	for i := range result.Products {
		if result.Products[i].IsAvailable() {
			return &result.Products[i]
		}
	}
	for i := range result.Products {
		if result.Products[i].HasPrice() {
			return &result.Products[i]
		}
	}
	return &result.Products[0]
}
