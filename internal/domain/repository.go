package domain

import (
	"context"
	"time"
)

// SearchOptions carries per-call context for a product search.
type SearchOptions struct {
	LocationID string
}

// ProductSource defines the interface for one product-search provider.
type ProductSource interface {
	ID() SourceID
	SearchProducts(ctx context.Context, query string, opts SearchOptions) ([]Product, error)
}

// StoreLocator finds physical stores near a ZIP code.
type StoreLocator interface {
	FindLocations(ctx context.Context, zip string) ([]StoreLocation, error)
}

// CacheRepository defines the interface for caching ranked results
type CacheRepository interface {
	Get(ctx context.Context, key string) (*RankedResult, error)
	Set(ctx context.Context, key string, value *RankedResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
