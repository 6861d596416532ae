package usecase

import (
	"regexp"
	"strings"
)

// Compiled regex patterns for ingredient normalization.
// Order matters: later rules assume earlier ones already removed numeric noise.
var (
	// Leading quantities like "2 ", "1/2 ", "2-3 ", "1.5 "
	leadingQuantityPattern = regexp.MustCompile(`^[\d\s/\-.]+`)

	// Number+unit compounds like "2 cups", "1 tbsp", "16 fl oz", "3 cans"
	numberUnitPattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(cups?|tbsp|tsp|tablespoons?|teaspoons?|lbs?|oz|pounds?|ounces?|fl\s*oz|quarts?|gallons?|ml|liters?|inch|inches|cm|pinch(es)?|dash(es)?|cans?|pkg|package|bag|bottle|jar)\b`)

	// Standalone count/form nouns like "cloves", "heads", "sprigs"
	countNounPattern = regexp.MustCompile(`(?i)\b(cloves?|heads?|stalks?|bunche?s?|pieces?|sticks?|slices?|fillets?|breasts?|thighs?|legs?|sprigs?|sheets?|strips?|cubes?|wedges?|ears?|ribs?)\b`)

	// Preparation and quality adjectives that never help a product search
	prepAdjectivePattern = regexp.MustCompile(`(?i)\b(fresh|organic|large|medium|small|jumbo|whole|half|ground|minced|dried|frozen|raw|pure|extra|virgin|boneless|skinless|thin|thick|fine|coarse|chopped|diced|sliced|shredded|grated|crushed|peeled|deveined|trimmed|packed|loosely|firmly|divided|optional|to taste|for garnish|as needed|about|approximately|roughly|ripe|uncooked|cooked|softened|melted|room temperature|cold|warm|hot)\b`)

	// Parenthetical asides like "(stems removed)"
	parentheticalPattern = regexp.MustCompile(`\(.*?\)`)

	// Residual standalone numbers and fractions like "3", "1.5", "1/2"
	residualNumberPattern = regexp.MustCompile(`\b\d+(\.\d+|/\d+)?\b`)

	// Comma/hyphen runs left behind by the strips above
	separatorRunPattern = regexp.MustCompile(`[,\-]+`)

	// Multiple spaces cleanup
	whitespaceRunPattern = regexp.MustCompile(`\s+`)
)

// Normalize reduces a raw recipe ingredient line to a minimal base-ingredient
// search string: quantities, units, count nouns, preparation adjectives,
// parentheticals and residual numbers are stripped, separators collapsed.
// May return an empty string for symbol-only input; callers must substitute
// the original text rather than search with an empty query.
func Normalize(ingredientText string) string {
	// Units are stripped together with their number before the leading
	// quantity run, otherwise "3 tbsp olive oil" loses the "3" first and
	// the orphaned "tbsp" survives every later rule.
	s := numberUnitPattern.ReplaceAllString(ingredientText, "")
	s = leadingQuantityPattern.ReplaceAllString(s, "")
	s = countNounPattern.ReplaceAllString(s, "")
	s = prepAdjectivePattern.ReplaceAllString(s, "")
	s = parentheticalPattern.ReplaceAllString(s, "")
	s = residualNumberPattern.ReplaceAllString(s, "")
	s = separatorRunPattern.ReplaceAllString(s, " ")
	s = whitespaceRunPattern.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// SearchQuery normalizes an ingredient line, falling back to the raw text
// when normalization erases everything.
func SearchQuery(ingredientText string) string {
	if q := Normalize(ingredientText); q != "" {
		return q
	}
	return ingredientText
}

// FallbackQueries proposes broader search terms for a normalized query that
// yielded nothing: edge-trimmed variants first (they keep more context),
// then single-word variants. De-duplicated in proposal order, terms of
// length <= 2 dropped, empty for single-word queries.
func FallbackQueries(normalizedQuery string) []string {
	words := strings.Fields(normalizedQuery)
	if len(words) < 2 {
		return nil
	}

	proposals := []string{
		strings.Join(words[1:], " "),
		strings.Join(words[:len(words)-1], " "),
	}
	if len(words) >= 3 {
		proposals = append(proposals, words[0], words[len(words)-1])
	}

	seen := make(map[string]bool)
	var fallbacks []string
	for _, p := range proposals {
		if len(p) <= 2 || seen[p] {
			continue
		}
		seen[p] = true
		fallbacks = append(fallbacks, p)
	}
	return fallbacks
}
