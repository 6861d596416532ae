package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/smartcart/backend/internal/domain"
)

// Client searches Walmart's catalog through the SerpAPI aggregator.
type Client struct {
	client *resty.Client
	apiKey string
	debug  bool
}

// NewClient creates a SerpAPI-backed Walmart product source.
func NewClient(apiKey, baseURL string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		apiKey: apiKey,
	}
}

// ID returns the source identifier for this provider.
func (c *Client) ID() domain.SourceID {
	return domain.SourceWalmart
}

// SetDebug toggles request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// searchResponse is the subset of the SerpAPI Walmart engine payload the
// matcher consumes.
type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	USItemID     string          `json:"us_item_id"`
	ProductID    string          `json:"product_id"`
	Title        string          `json:"title"`
	Brand        string          `json:"brand"`
	Thumbnail    string          `json:"thumbnail"`
	Price        json.RawMessage `json:"price"`
	PrimaryOffer *struct {
		OfferPrice json.RawMessage `json:"offer_price"`
	} `json:"primary_offer"`
}

// SearchProducts runs one Walmart search. LocationID is ignored: these are
// walmart.com online prices, not store-local ones.
func (c *Client) SearchProducts(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Product, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: serpapi key not configured", domain.ErrAuthFailed)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":  "walmart",
			"query":   query,
			"api_key": c.apiKey,
		}).
		Get("/search.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return nil, fmt.Errorf("%w: serpapi status %d", domain.ErrAuthFailed, resp.StatusCode())
	}
	if resp.StatusCode() != http.StatusOK {
		if c.debug {
			log.Printf("[SERPAPI] search error - status: %d, body: %s", resp.StatusCode(), resp.String())
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode())
	}

	var searchResp searchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrSourceUnavailable, err)
	}

	products := mapResults(searchResp.OrganicResults)
	if c.debug {
		log.Printf("[SERPAPI] found %d products for query: %q", len(products), query)
	}
	return products, nil
}

// mapResults converts SerpAPI organic results to domain products.
// Results with neither item ID are dropped rather than given synthetic IDs.
func mapResults(results []organicResult) []domain.Product {
	products := make([]domain.Product, 0, len(results))
	for _, r := range results {
		id := r.USItemID
		if id == "" {
			id = r.ProductID
		}
		if id == "" {
			continue
		}

		price := parsePrice(r)
		available := true

		products = append(products, domain.Product{
			ProductID: id,
			Name:      r.Title,
			Brand:     r.Brand,
			Price:     price,
			Available: &available,
			Image:     r.Thumbnail,
		})
	}
	return products
}

// parsePrice extracts a price from the offer or top-level field; SerpAPI
// serves both numbers and strings like "4.98".
func parsePrice(r organicResult) *float64 {
	raw := r.Price
	if r.PrimaryOffer != nil && len(r.PrimaryOffer.OfferPrice) > 0 {
		raw = r.PrimaryOffer.OfferPrice
	}
	if len(raw) == 0 {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if parsed, err := strconv.ParseFloat(str, 64); err == nil {
			return &parsed
		}
	}
	return nil
}
