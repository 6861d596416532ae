package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/smartcart/backend/internal/domain"
)

func newTestShopping(sources ...*stubSource) *ShoppingService {
	matchers := make([]*MatcherService, 0, len(sources))
	for _, src := range sources {
		policy := KrogerPolicy()
		if src.id == domain.SourceWalmart {
			policy = WalmartPolicy()
		}
		matchers = append(matchers, NewMatcherService(src, nil, MatcherConfig{Policy: policy}))
	}
	return NewShoppingService(matchers, false)
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty ingredient list", func(t *testing.T) {
		svc := newTestShopping(&stubSource{id: domain.SourceKroger})
		if _, err := svc.Compare(ctx, nil, domain.SearchOptions{}); err != domain.ErrInvalidRequest {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("picks cheapest source per ingredient and totals the list", func(t *testing.T) {
		kroger := &stubSource{id: domain.SourceKroger, results: map[string][]domain.Product{
			"milk": {{ProductID: "km", Name: "Whole Milk", Price: floatPtr(3.49), Available: boolPtr(true)}},
			"eggs": {{ProductID: "ke", Name: "Large Eggs", Price: floatPtr(2.49), Available: boolPtr(true)}},
		}}
		walmart := &stubSource{id: domain.SourceWalmart, results: map[string][]domain.Product{
			"milk": {{ProductID: "wm", Name: "Whole Milk", Price: floatPtr(2.99), Available: boolPtr(true)}},
			"eggs": {{ProductID: "we", Name: "Large Eggs", Price: floatPtr(2.99), Available: boolPtr(true)}},
		}}
		svc := newTestShopping(kroger, walmart)

		comparison, err := svc.Compare(ctx, []string{"milk", "eggs"}, domain.SearchOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(comparison.Picks) != 2 {
			t.Fatalf("len(Picks) = %d, want 2", len(comparison.Picks))
		}
		if comparison.Picks[0].Source != domain.SourceWalmart {
			t.Errorf("milk pick from %s, want walmart at $2.99", comparison.Picks[0].Source)
		}
		if comparison.Picks[1].Source != domain.SourceKroger {
			t.Errorf("eggs pick from %s, want kroger at $2.49", comparison.Picks[1].Source)
		}
		if got, want := comparison.BestPickTotal, 2.99+2.49; math.Abs(got-want) > 1e-9 {
			t.Errorf("BestPickTotal = %.2f, want %.2f", got, want)
		}
		if got, want := comparison.SourceTotals[domain.SourceKroger], 3.49+2.49; math.Abs(got-want) > 1e-9 {
			t.Errorf("kroger total = %.2f, want %.2f", got, want)
		}
		if got, want := comparison.SourceTotals[domain.SourceWalmart], 2.99+2.99; math.Abs(got-want) > 1e-9 {
			t.Errorf("walmart total = %.2f, want %.2f", got, want)
		}
		if comparison.CheapestSource != domain.SourceKroger {
			t.Errorf("CheapestSource = %s, want kroger at 5.98", comparison.CheapestSource)
		}
	})

	t.Run("equal totals favor the earlier-registered source", func(t *testing.T) {
		kroger := &stubSource{id: domain.SourceKroger, results: map[string][]domain.Product{
			"milk": {{ProductID: "km", Name: "Whole Milk", Price: floatPtr(2.99), Available: boolPtr(true)}},
		}}
		walmart := &stubSource{id: domain.SourceWalmart, results: map[string][]domain.Product{
			"milk": {{ProductID: "wm", Name: "Whole Milk", Price: floatPtr(2.99), Available: boolPtr(true)}},
		}}
		svc := newTestShopping(kroger, walmart)

		comparison, err := svc.Compare(ctx, []string{"milk"}, domain.SearchOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if comparison.CheapestSource != domain.SourceKroger {
			t.Errorf("CheapestSource = %s, want kroger on a tie", comparison.CheapestSource)
		}
		if comparison.Picks[0].Source != domain.SourceKroger {
			t.Errorf("pick from %s, want kroger on a tie", comparison.Picks[0].Source)
		}
	})

	t.Run("unmatched ingredient stays in picks as not-found", func(t *testing.T) {
		kroger := &stubSource{id: domain.SourceKroger, results: map[string][]domain.Product{
			"milk": {{ProductID: "km", Name: "Whole Milk", Price: floatPtr(2.99), Available: boolPtr(true)}},
		}}
		svc := newTestShopping(kroger)

		comparison, err := svc.Compare(ctx, []string{"milk", "unobtainium spice"}, domain.SearchOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(comparison.Picks) != 2 {
			t.Fatalf("len(Picks) = %d, want 2: batch preserves ingredient order", len(comparison.Picks))
		}
		if !comparison.Picks[0].Found {
			t.Error("milk pick not found")
		}
		if comparison.Picks[1].Found {
			t.Error("unmatched ingredient reported Found = true")
		}
		if got, want := comparison.BestPickTotal, 2.99; math.Abs(got-want) > 1e-9 {
			t.Errorf("BestPickTotal = %.2f, want %.2f: missing picks contribute nothing", got, want)
		}
	})

	t.Run("auth failure silences one source, not the batch", func(t *testing.T) {
		kroger := &stubSource{id: domain.SourceKroger, errs: map[string]error{
			"milk": domain.ErrAuthFailed,
		}}
		walmart := &stubSource{id: domain.SourceWalmart, results: map[string][]domain.Product{
			"milk": {{ProductID: "wm", Name: "Whole Milk", Price: floatPtr(2.99), Available: boolPtr(true)}},
		}}
		svc := newTestShopping(kroger, walmart)

		comparison, err := svc.Compare(ctx, []string{"milk", "eggs"}, domain.SearchOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if comparison.SourceErrors[domain.SourceKroger] == "" {
			t.Error("kroger auth failure not surfaced in SourceErrors")
		}
		if !comparison.Picks[0].Found || comparison.Picks[0].Source != domain.SourceWalmart {
			t.Errorf("milk pick = %+v, want walmart despite kroger outage", comparison.Picks[0])
		}
		// Outage surfaced once, not retried per ingredient
		if len(kroger.queries) != 1 {
			t.Errorf("kroger searched %d times after auth failure, want 1", len(kroger.queries))
		}
	})

	t.Run("all sources empty leaves cheapest source unset", func(t *testing.T) {
		svc := newTestShopping(&stubSource{id: domain.SourceKroger})

		comparison, err := svc.Compare(ctx, []string{"unobtainium spice"}, domain.SearchOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if comparison.CheapestSource != "" {
			t.Errorf("CheapestSource = %q, want empty when nothing is priced", comparison.CheapestSource)
		}
		if comparison.BestPickTotal != 0 {
			t.Errorf("BestPickTotal = %.2f, want 0", comparison.BestPickTotal)
		}
	})

	t.Run("cancelled context aborts the batch", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		svc := newTestShopping(&stubSource{id: domain.SourceKroger})
		if _, err := svc.Compare(cancelled, []string{"milk"}, domain.SearchOptions{}); err == nil {
			t.Error("expected error from cancelled context")
		}
	})
}
