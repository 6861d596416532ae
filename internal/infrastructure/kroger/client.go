package kroger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/auth"
	"golang.org/x/time/rate"
)

const (
	productScope = "product.compact"
	searchLimit  = 10

	// Kroger token responses carry expires_in, but the certification
	// environment occasionally omits it; 25 minutes is safely inside the
	// documented 30-minute lifetime.
	defaultTokenTTL = 25 * time.Minute
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Client handles communication with the Kroger catalog API.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	baseURL      string
	tokens       *auth.TokenCache
	rateLimiter  *rate.Limiter
	debug        bool
}

// NewClient creates a Kroger API client. Tokens are acquired lazily through
// the shared token cache so concurrent lookups never race on a refresh.
func NewClient(clientID, clientSecret, baseURL string) *Client {
	// Kroger throttles bursts per client; 5/sec with a small burst keeps
	// sequential ingredient lookups under the limit.
	limiter := rate.NewLimiter(rate.Limit(5), 5)

	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		rateLimiter:  limiter,
	}
	c.tokens = auth.NewTokenCache(c.fetchToken)
	return c
}

// ID returns the source identifier for this provider.
func (c *Client) ID() domain.SourceID {
	return domain.SourceKroger
}

// SetDebug toggles request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// fetchToken performs the OAuth2 client-credentials exchange.
func (c *Client) fetchToken(ctx context.Context) (string, time.Duration, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", 0, fmt.Errorf("%w: kroger credentials not configured", domain.ErrAuthFailed)
	}

	body := strings.NewReader("grant_type=client_credentials&scope=" + productScope)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/connect/oauth2/token", body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+encoded)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("[KROGER] token error - status: %d, body: %s", resp.StatusCode, string(respBody))
		return "", 0, fmt.Errorf("%w: token status %d", domain.ErrAuthFailed, resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", 0, fmt.Errorf("%w: decoding token response: %v", domain.ErrAuthFailed, err)
	}
	if tokenResp.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", domain.ErrAuthFailed)
	}

	ttl := defaultTokenTTL
	if tokenResp.ExpiresIn > 0 {
		ttl = time.Duration(tokenResp.ExpiresIn) * time.Second
	}
	return tokenResp.AccessToken, ttl, nil
}

// doRequest executes an authorized GET with proper headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return resp, nil
}

// SearchProducts searches the Kroger catalog for a term, optionally scoped
// to a store location for local pricing and availability.
func (c *Client) SearchProducts(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Product, error) {
	params := url.Values{}
	params.Add("filter.term", query)
	params.Add("filter.limit", fmt.Sprintf("%d", searchLimit))
	if opts.LocationID != "" {
		params.Add("filter.locationId", opts.LocationID)
	}
	reqURL := fmt.Sprintf("%s/v1/products?%s", c.baseURL, params.Encode())

	// Retry transient failures; auth failures abort immediately
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if isFatal(err, ctx) {
				return nil, err
			}
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.tokens.Invalidate()
			return nil, fmt.Errorf("%w: search status %d", domain.ErrAuthFailed, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[KROGER] search error (attempt %d) - status: %d, body: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var searchResp productSearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrSourceUnavailable, err)
		}

		products := mapProducts(searchResp.Data)
		if c.debug {
			log.Printf("[KROGER] found %d products for query: %q", len(products), query)
		}
		return products, nil
	}

	return nil, lastErr
}

// FindLocations returns stores near a 5-digit ZIP code.
func (c *Client) FindLocations(ctx context.Context, zip string) ([]domain.StoreLocation, error) {
	if !zipPattern.MatchString(zip) {
		return nil, fmt.Errorf("%w: valid 5-digit ZIP required", domain.ErrInvalidRequest)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("filter.zipCode.near", zip)
	params.Add("filter.limit", "5")
	params.Add("filter.radiusInMiles", "10")
	reqURL := fmt.Sprintf("%s/v1/locations?%s", c.baseURL, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[KROGER] locations error - status: %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: locations status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var locResp locationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&locResp); err != nil {
		return nil, fmt.Errorf("%w: decoding locations: %v", domain.ErrSourceUnavailable, err)
	}

	return mapLocations(locResp.Data), nil
}

// isFatal reports errors that must not be retried.
func isFatal(err error, ctx context.Context) bool {
	return ctx.Err() != nil || errors.Is(err, domain.ErrAuthFailed)
}

// exponentialBackoff returns the wait before the next retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
