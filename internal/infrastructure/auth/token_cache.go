package auth

import (
	"context"
	"sync"
	"time"
)

// FetchFunc acquires a fresh access token from the upstream auth endpoint
// and returns it with its lifetime.
type FetchFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// expirySkew refreshes slightly early so an in-flight request never carries
// a token that expires mid-call.
const expirySkew = 30 * time.Second

// TokenCache holds one upstream collaborator's access token and its expiry.
// It is an explicit, injectable object rather than package-level state so
// tests can swap the fetcher without global leakage. Concurrent callers
// discovering an expired token trigger exactly one refresh: the lock is
// held across the fetch.
type TokenCache struct {
	mu        sync.Mutex
	fetch     FetchFunc
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenCache creates a token cache around the given fetcher.
func NewTokenCache(fetch FetchFunc) *TokenCache {
	return &TokenCache{
		fetch: fetch,
		now:   time.Now,
	}
}

// Token returns the cached token, refreshing it first if missing or within
// the expiry skew. Errors come straight from the fetcher.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(expirySkew).Before(c.expiresAt) {
		return c.token, nil
	}

	token, ttl, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = c.now().Add(ttl)
	return token, nil
}

// Invalidate drops the cached token so the next Token call refreshes.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
