package usecase

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/smartcart/backend/internal/domain"
)

// ShoppingComparison is the aggregate result of resolving a shopping list
// across every registered source.
type ShoppingComparison struct {
	Picks          []domain.BestPick                            `json:"picks"`
	PerSource      map[domain.SourceID][]*domain.RankedResult   `json:"perSource"`
	SourceTotals   map[domain.SourceID]float64                  `json:"sourceTotals"`
	BestPickTotal  float64                                      `json:"bestPickTotal"`
	CheapestSource domain.SourceID                              `json:"cheapestSource,omitempty"`
	SourceErrors   map[domain.SourceID]string                   `json:"sourceErrors,omitempty"`
}

// ShoppingService resolves whole ingredient lists across sources.
type ShoppingService struct {
	matchers []*MatcherService
	resolver *BestPickResolver
	debug    bool
}

// NewShoppingService creates a shopping service over per-source matchers.
// Matcher order fixes the best-pick priority.
func NewShoppingService(matchers []*MatcherService, debug bool) *ShoppingService {
	priority := make([]domain.SourceID, 0, len(matchers))
	for _, m := range matchers {
		priority = append(priority, m.Source())
	}
	return &ShoppingService{
		matchers: matchers,
		resolver: NewBestPickResolver(priority...),
		debug:    debug,
	}
}

// Resolver exposes the cross-source best-pick resolver.
func (s *ShoppingService) Resolver() *BestPickResolver {
	return s.resolver
}

// Compare looks up every ingredient at every source and resolves a best
// pick per ingredient. Sources run concurrently; lookups within one source
// run sequentially because the upstream APIs throttle bursts per location.
// A missing match or failed lookup for one ingredient never aborts the
// batch; an auth failure silences its source once instead of failing N
// times.
func (s *ShoppingService) Compare(ctx context.Context, ingredients []string, opts domain.SearchOptions) (*ShoppingComparison, error) {
	if len(ingredients) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	perSource := make(map[domain.SourceID][]*domain.RankedResult, len(s.matchers))
	sourceErrs := make(map[domain.SourceID]string)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, matcher := range s.matchers {
		wg.Add(1)
		go func(m *MatcherService) {
			defer wg.Done()
			results, err := s.lookupAll(ctx, m, ingredients, opts)
			mu.Lock()
			defer mu.Unlock()
			perSource[m.Source()] = results
			if err != nil {
				sourceErrs[m.Source()] = err.Error()
			}
		}(matcher)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	comparison := &ShoppingComparison{
		Picks:        make([]domain.BestPick, 0, len(ingredients)),
		PerSource:    perSource,
		SourceTotals: make(map[domain.SourceID]float64, len(s.matchers)),
	}
	if len(sourceErrs) > 0 {
		comparison.SourceErrors = sourceErrs
	}

	for i, ing := range ingredients {
		byIngredient := make(map[domain.SourceID]*domain.RankedResult, len(s.matchers))
		for id, results := range perSource {
			byIngredient[id] = results[i]
		}
		pick := s.resolver.Resolve(ing, byIngredient)
		comparison.Picks = append(comparison.Picks, pick)
		if pick.Found && pick.Product.HasPrice() {
			comparison.BestPickTotal += *pick.Product.Price
		}
	}

	for id, results := range perSource {
		comparison.SourceTotals[id] = sourceTotal(results)
	}
	comparison.CheapestSource = s.cheapestSource(comparison.SourceTotals, perSource)

	return comparison, nil
}

// lookupAll runs the sequential per-ingredient lookups for one source.
// The returned slice is index-aligned with ingredients; failed or aborted
// lookups leave nil entries. Only fatal source errors are returned.
func (s *ShoppingService) lookupAll(ctx context.Context, m *MatcherService, ingredients []string, opts domain.SearchOptions) ([]*domain.RankedResult, error) {
	results := make([]*domain.RankedResult, len(ingredients))
	for i, ing := range ingredients {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := m.FindBestMatches(ctx, ing, opts)
		if err != nil {
			if errors.Is(err, domain.ErrAuthFailed) || ctx.Err() != nil {
				return results, err
			}
			if s.debug {
				log.Printf("[SHOP] %s lookup %q failed: %v", m.Source(), ing, err)
			}
			continue
		}
		results[i] = result
	}
	return results, nil
}

// sourceTotal sums the per-ingredient best product prices for one source.
// Unpriced and unmatched ingredients contribute nothing; the total is a
// lower bound, not a cart price.
func sourceTotal(results []*domain.RankedResult) float64 {
	total := 0.0
	for _, r := range results {
		if best := bestOfRanked(r); best != nil && best.HasPrice() {
			total += *best.Price
		}
	}
	return total
}

// cheapestSource returns the source with the lowest total among sources
// that priced at least one ingredient. Registration order breaks ties.
func (s *ShoppingService) cheapestSource(totals map[domain.SourceID]float64, perSource map[domain.SourceID][]*domain.RankedResult) domain.SourceID {
	var cheapest domain.SourceID
	found := false
	for _, id := range s.resolver.Sources() {
		if !hasAnyPrice(perSource[id]) {
			continue
		}
		if !found || totals[id] < totals[cheapest] {
			cheapest = id
			found = true
		}
	}
	return cheapest
}

// hasAnyPrice reports whether any ingredient at this source has a priced
// best product.
func hasAnyPrice(results []*domain.RankedResult) bool {
	for _, r := range results {
		if best := bestOfRanked(r); best != nil && best.HasPrice() {
			return true
		}
	}
	return false
}
