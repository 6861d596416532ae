package usecase

import (
	"strings"

	"github.com/smartcart/backend/internal/domain"
)

// offDomainTerms flags product categories the grocery search must never
// surface. Product-search APIs routinely return these for generic terms
// ("paste" -> toothpaste, "chicken" -> pet food).
var offDomainTerms = []string{
	"baby food", "baby puree", "teether", "formula",
	"cleaning", "detergent", "shampoo", "soap", "lotion", "diaper",
	"pet food", "dog food", "cat food",
	"supplement", "vitamin",
	"personal care", "toothpaste", "deodorant",
}

// specialtyTerms mark processed/concentrated forms that should not match a
// plain-ingredient query ("ginger" must not land on ginger extract capsules).
var specialtyTerms = []string{
	"powder", "dehydrated", "freeze-dried", "freeze dried",
	"supplement", "extract", "capsule",
}

// freshnessTerms mark ordinary produce-style retail units.
var freshnessTerms = []string{"fresh", "produce", "each", "bunch", "bulb"}

// SortMode selects how a source's kept candidates are ordered.
type SortMode int

const (
	// SortPriceFirst puts priced candidates first, cheapest leading;
	// unpriced candidates trail, ordered by relevance.
	SortPriceFirst SortMode = iota
	// SortScoreFirst orders purely by relevance, for sources whose price
	// data is unreliable.
	SortScoreFirst
)

// RankingPolicy holds the per-source scoring weights and selection rules.
// Retailer differences are data on this value, not per-retailer code.
// The default weights were tuned empirically against live search results;
// they are a starting point, not derived constants.
type RankingPolicy struct {
	ExactMatchBonus      int
	KeywordBonus         int
	CategoryKeywordBonus int
	FullCoverageBonus    int
	MinKeywordLen        int // keywords shorter than or equal to this are ignored

	OffDomainPenalty int // per deny-list term found in name or categories
	BabyLeakPenalty  int // "baby" in name without "baby" in query

	PricePresenceBonus  int
	UnavailablePenalty  int
	OverMaxPricePenalty int
	MaxPlausiblePrice   float64 // 0 disables the implausible-price check

	// FreshnessGuard penalizes specialty-processing forms and rewards
	// produce-style units unless the query itself asks for a processed form.
	FreshnessGuard   bool
	SpecialtyPenalty int
	FreshnessBonus   int

	Sort             SortMode
	MinScore         int
	FallbackMinScore int // relaxed bar for fallback rounds
}

// KrogerPolicy returns the ranking policy for the Kroger catalog.
func KrogerPolicy() RankingPolicy {
	return RankingPolicy{
		ExactMatchBonus:      15,
		KeywordBonus:         3,
		CategoryKeywordBonus: 1,
		FullCoverageBonus:    5,
		MinKeywordLen:        1,
		OffDomainPenalty:     -10,
		BabyLeakPenalty:      -5,
		UnavailablePenalty:   -4,
		OverMaxPricePenalty:  -6,
		MaxPlausiblePrice:    50,
		FreshnessGuard:       true,
		SpecialtyPenalty:     -4,
		FreshnessBonus:       2,
		Sort:                 SortPriceFirst,
		MinScore:             5,
		FallbackMinScore:     3,
	}
}

// WalmartPolicy returns the ranking policy for Walmart search results.
// Prices come from a search aggregator, so ordering stays relevance-based
// and a present price is itself treated as a relevance signal.
func WalmartPolicy() RankingPolicy {
	return RankingPolicy{
		ExactMatchBonus:      10,
		KeywordBonus:         3,
		CategoryKeywordBonus: 1,
		MinKeywordLen:        2,
		OffDomainPenalty:     -10,
		BabyLeakPenalty:      -5,
		PricePresenceBonus:   8,
		Sort:                 SortScoreFirst,
		MinScore:             3,
		FallbackMinScore:     1,
	}
}

// scoredProduct pairs a candidate with its transient relevance score.
// Scores are only comparable within a single query round and are never
// persisted or exposed to callers.
type scoredProduct struct {
	product   domain.Product
	relevance int
}

// Score computes the relevance of one candidate for one normalized query.
// Pure function of its inputs: identical (candidate, query) pairs always
// yield the identical integer.
func (p RankingPolicy) Score(product *domain.Product, normalizedQuery string) int {
	query := strings.ToLower(normalizedQuery)
	name := strings.ToLower(product.Name)
	categories := strings.ToLower(strings.Join(product.Categories, " "))

	relevance := 0

	// Full-query substring match is the strongest positive signal
	if strings.Contains(name, query) {
		relevance += p.ExactMatchBonus
	}

	// Keyword coverage across name and categories
	keywords := queryKeywords(query, p.MinKeywordLen)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			relevance += p.KeywordBonus
			matched++
		} else if strings.Contains(categories, kw) {
			relevance += p.CategoryKeywordBonus
			matched++
		}
	}
	if len(keywords) > 0 && matched == len(keywords) {
		relevance += p.FullCoverageBonus
	}

	// Off-domain deny list
	for _, term := range offDomainTerms {
		if strings.Contains(name, term) || strings.Contains(categories, term) {
			relevance += p.OffDomainPenalty
		}
	}
	// Compound baby products slip past the deny list
	if strings.Contains(name, "baby") && !strings.Contains(query, "baby") {
		relevance += p.BabyLeakPenalty
	}

	// Price and availability signals
	if product.HasPrice() {
		relevance += p.PricePresenceBonus
		if p.MaxPlausiblePrice > 0 && *product.Price > p.MaxPlausiblePrice {
			relevance += p.OverMaxPricePenalty
		}
	}
	if product.Available != nil && !*product.Available {
		relevance += p.UnavailablePenalty
	}

	if p.FreshnessGuard && !queryWantsSpecialty(query) {
		for _, term := range specialtyTerms {
			if strings.Contains(name, term) {
				relevance += p.SpecialtyPenalty
			}
		}
		for _, term := range freshnessTerms {
			if strings.Contains(name, term) {
				relevance += p.FreshnessBonus
			}
		}
	}

	return relevance
}

// queryKeywords splits a normalized query into scoring keywords, dropping
// words at or below the policy's minimum length.
func queryKeywords(query string, minLen int) []string {
	var keywords []string
	for _, w := range strings.Fields(query) {
		if len(w) > minLen {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// queryWantsSpecialty reports whether the query itself asks for a
// processed/concentrated form, which disables the freshness guard.
func queryWantsSpecialty(query string) bool {
	for _, term := range specialtyTerms {
		if strings.Contains(query, term) {
			return true
		}
	}
	return false
}
