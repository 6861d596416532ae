package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/smartcart/backend/internal/domain"
)

// MatcherConfig holds configuration for a per-source matcher.
type MatcherConfig struct {
	Policy             RankingPolicy
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// MatcherService turns a free-text ingredient line into a ranked shortlist
// of products from one source. Normalization, scoring and fallback search
// are stateless; the only suspension points are the source calls.
type MatcherService struct {
	source   domain.ProductSource
	policy   RankingPolicy
	cache    domain.CacheRepository
	cacheTTL time.Duration
	debug    bool
}

// NewMatcherService creates a matcher for one product source. Cache may be
// nil to disable ranked-result caching.
func NewMatcherService(source domain.ProductSource, cache domain.CacheRepository, config MatcherConfig) *MatcherService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	return &MatcherService{
		source:   source,
		policy:   config.Policy,
		cache:    cache,
		cacheTTL: cacheTTL,
		debug:    config.EnableDebugLogging,
	}
}

// Source returns the provider this matcher searches.
func (s *MatcherService) Source() domain.SourceID {
	return s.source.ID()
}

// FindBestMatches resolves one ingredient line against the source.
// Flow: normalize -> search -> score/filter -> fallback rounds at the
// relaxed threshold -> policy sort -> top 3 with scores stripped.
// An empty shortlist is a legitimate outcome, not an error; transport
// failures count as empty rounds. Auth failures propagate: retrying them
// per ingredient would multiply one outage into N.
func (s *MatcherService) FindBestMatches(ctx context.Context, ingredientText string, opts domain.SearchOptions) (*domain.RankedResult, error) {
	if strings.TrimSpace(ingredientText) == "" {
		return nil, domain.ErrInvalidRequest
	}

	query := SearchQuery(ingredientText)

	// Keyed by the primary query: a result found via fallback still answers
	// the same normalized ingredient next time.
	key := s.cacheKey(query, opts)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			result := *cached
			result.Ingredient = ingredientText
			return &result, nil
		}
	}

	if s.debug {
		log.Printf("[MATCH] %s search: %q -> %q", s.source.ID(), ingredientText, query)
	}

	kept, err := s.searchRound(ctx, query, opts, s.policy.MinScore)
	if err != nil {
		return nil, err
	}

	// Fallback rounds run only when nothing cleared the primary bar, and
	// stop at the first round that yields an acceptable candidate.
	if len(kept) == 0 {
		for _, fb := range FallbackQueries(query) {
			if s.debug {
				log.Printf("[MATCH] %s fallback search: %q", s.source.ID(), fb)
			}
			kept, err = s.searchRound(ctx, fb, opts, s.policy.FallbackMinScore)
			if err != nil {
				return nil, err
			}
			if len(kept) > 0 {
				query = fb
				break
			}
		}
	}

	s.sortCandidates(kept)

	result := &domain.RankedResult{
		Ingredient: ingredientText,
		Query:      query,
		Source:     s.source.ID(),
		Products:   topProducts(kept),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil && s.debug {
			log.Printf("[MATCH] %s cache set failed: %v", s.source.ID(), err)
		}
	}

	return result, nil
}

// searchRound issues one source search and keeps the candidates clearing
// minScore. Transport failures yield an empty round so the caller can fall
// back; context cancellation and auth failures abort.
func (s *MatcherService) searchRound(ctx context.Context, query string, opts domain.SearchOptions, minScore int) ([]scoredProduct, error) {
	products, err := s.source.SearchProducts(ctx, query, opts)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) || ctx.Err() != nil {
			return nil, err
		}
		if s.debug {
			log.Printf("[MATCH] %s search %q failed, treating as empty: %v", s.source.ID(), query, err)
		}
		return nil, nil
	}

	var kept []scoredProduct
	for i := range products {
		relevance := s.policy.Score(&products[i], query)
		if s.debug {
			log.Printf("[MATCH] %s candidate %q score=%d", s.source.ID(), products[i].Name, relevance)
		}
		if relevance >= minScore {
			kept = append(kept, scoredProduct{product: products[i], relevance: relevance})
		}
	}
	return kept, nil
}

// sortCandidates orders kept candidates by the source ranking policy.
func (s *MatcherService) sortCandidates(candidates []scoredProduct) {
	switch s.policy.Sort {
	case SortPriceFirst:
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := &candidates[i], &candidates[j]
			aPriced, bPriced := a.product.HasPrice(), b.product.HasPrice()
			if aPriced && bPriced {
				return *a.product.Price < *b.product.Price
			}
			if aPriced != bPriced {
				return aPriced
			}
			return a.relevance > b.relevance
		})
	default:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].relevance > candidates[j].relevance
		})
	}
}

// topProducts strips scores, drops duplicate product IDs and truncates to
// the shortlist cap.
func topProducts(candidates []scoredProduct) []domain.Product {
	products := make([]domain.Product, 0, domain.MaxRankedProducts)
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c.product.ProductID != "" && seen[c.product.ProductID] {
			continue
		}
		seen[c.product.ProductID] = true
		products = append(products, c.product)
		if len(products) == domain.MaxRankedProducts {
			break
		}
	}
	return products
}

// cacheKey builds the ranked-result cache key for one (query, location) pair.
func (s *MatcherService) cacheKey(query string, opts domain.SearchOptions) string {
	return fmt.Sprintf("matches:%s:%s:%s", s.source.ID(), query, opts.LocationID)
}
