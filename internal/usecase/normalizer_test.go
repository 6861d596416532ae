package usecase

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "leading quantity and unit",
			input: "3 tbsp olive oil",
			want:  "olive oil",
		},
		{
			name:  "quantity unit and preparation adjectives",
			input: "2 cups finely chopped fresh cilantro (stems removed)",
			want:  "finely cilantro",
		},
		{
			name:  "single word passes through",
			input: "Salt",
			want:  "salt",
		},
		{
			name:  "fraction quantity",
			input: "1/2 cup sugar",
			want:  "sugar",
		},
		{
			name:  "range quantity with cans",
			input: "2-3 cans crushed tomatoes",
			want:  "tomatoes",
		},
		{
			name:  "count noun",
			input: "3 cloves garlic, minced",
			want:  "garlic",
		},
		{
			name:  "multiword adjective",
			input: "1 stick butter, room temperature",
			want:  "butter",
		},
		{
			name:  "parenthetical fully removed",
			input: "1 lb chicken thighs (bone-in, skin-on)",
			want:  "chicken",
		},
		{
			name:  "no quantity at all",
			input: "soy sauce",
			want:  "soy sauce",
		},
		{
			name:  "symbol only input normalizes to empty",
			input: "1 1/2 - 2",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_NoUnitTokensSurvive(t *testing.T) {
	inputs := []string{
		"3 tbsp olive oil",
		"2 cups flour",
		"16 fl oz heavy cream",
		"1 lb ground beef",
		"250 ml coconut milk",
	}
	units := []string{"tbsp", "cups", "cup", "oz", "fl", "lb", "ml"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := Normalize(input)
			for _, word := range strings.Fields(got) {
				for _, unit := range units {
					if word == unit {
						t.Errorf("Normalize(%q) = %q, unit token %q survived", input, got, unit)
					}
				}
			}
			if strings.ContainsAny(got, "0123456789") {
				t.Errorf("Normalize(%q) = %q, digits survived", input, got)
			}
		})
	}
}

func TestNormalize_NoUnbalancedParentheses(t *testing.T) {
	got := Normalize("2 cups cilantro (stems removed)")
	if strings.ContainsAny(got, "()") {
		t.Errorf("Normalize() = %q, parenthetical content not fully removed", got)
	}
	if strings.Contains(got, "stems") || strings.Contains(got, "removed") {
		t.Errorf("Normalize() = %q, parenthetical words leaked", got)
	}
}

func TestSearchQuery(t *testing.T) {
	t.Run("uses normalized form", func(t *testing.T) {
		if got := SearchQuery("2 cups flour"); got != "flour" {
			t.Errorf("SearchQuery() = %q, want %q", got, "flour")
		}
	})

	t.Run("falls back to raw text when normalization empties", func(t *testing.T) {
		if got := SearchQuery("1 1/2"); got != "1 1/2" {
			t.Errorf("SearchQuery() = %q, want original text back", got)
		}
	})
}

func TestFallbackQueries(t *testing.T) {
	t.Run("three word query", func(t *testing.T) {
		got := FallbackQueries("tamarind date chutney")
		want := []string{"date chutney", "tamarind date", "tamarind", "chutney"}
		if len(got) != len(want) {
			t.Fatalf("FallbackQueries() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("FallbackQueries()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("two word query proposes edge trims only", func(t *testing.T) {
		got := FallbackQueries("garam masala")
		want := []string{"masala", "garam"}
		if len(got) != len(want) {
			t.Fatalf("FallbackQueries() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("FallbackQueries()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("single word returns empty", func(t *testing.T) {
		if got := FallbackQueries("salt"); len(got) != 0 {
			t.Errorf("FallbackQueries(\"salt\") = %v, want empty", got)
		}
	})

	t.Run("drops short terms", func(t *testing.T) {
		for _, fb := range FallbackQueries("og beef rib") {
			if len(fb) <= 2 {
				t.Errorf("FallbackQueries() contains short term %q", fb)
			}
		}
	})

	t.Run("de-duplicates repeated words", func(t *testing.T) {
		got := FallbackQueries("corn corn corn")
		seen := make(map[string]bool)
		for _, fb := range got {
			if seen[fb] {
				t.Errorf("FallbackQueries() contains duplicate %q", fb)
			}
			seen[fb] = true
		}
	})
}
