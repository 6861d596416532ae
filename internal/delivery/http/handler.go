package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matchers map[domain.SourceID]*usecase.MatcherService
	shopping *usecase.ShoppingService
	locator  domain.StoreLocator
}

// NewHandler creates a new HTTP handler. locator may be nil when the Kroger
// source is disabled.
func NewHandler(matchers []*usecase.MatcherService, shopping *usecase.ShoppingService, locator domain.StoreLocator) *Handler {
	byID := make(map[domain.SourceID]*usecase.MatcherService, len(matchers))
	for _, m := range matchers {
		byID[m.Source()] = m
	}
	return &Handler{
		matchers: byID,
		shopping: shopping,
		locator:  locator,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smartcart-backend",
		"version": "1.0.0",
	})
}

// searchRequest is the body of POST /api/v1/products/search
type searchRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
	Source     string `json:"source,omitempty"`
	LocationID string `json:"locationId,omitempty"`
}

// SearchProducts resolves one ingredient line to ranked product shortlists.
// Without a source filter every registered source is searched.
func (h *Handler) SearchProducts(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient is required"})
		return
	}

	matchers := h.matchers
	if req.Source != "" {
		m, ok := h.matchers[domain.SourceID(req.Source)]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown source: " + req.Source})
			return
		}
		matchers = map[domain.SourceID]*usecase.MatcherService{m.Source(): m}
	}

	opts := domain.SearchOptions{LocationID: req.LocationID}
	results := make(map[domain.SourceID]*domain.RankedResult, len(matchers))
	for id, m := range matchers {
		result, err := m.FindBestMatches(c.Request.Context(), req.Ingredient, opts)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Auth outage for one source: report it, keep the others
			results[id] = nil
			continue
		}
		results[id] = result
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// compareRequest is the body of POST /api/v1/shopping/compare
type compareRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
	LocationID  string   `json:"locationId,omitempty"`
}

// CompareShopping resolves a whole shopping list across sources and returns
// best picks and per-source totals.
func (h *Handler) CompareShopping(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients list is required"})
		return
	}

	comparison, err := h.shopping.Compare(c.Request.Context(), req.Ingredients, domain.SearchOptions{LocationID: req.LocationID})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// FindStores returns stores near a ZIP code
func (h *Handler) FindStores(c *gin.Context) {
	if h.locator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store locator is not configured"})
		return
	}

	zip := c.Query("zip")
	locations, err := h.locator.FindLocations(c.Request.Context(), zip)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid 5-digit ZIP required"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
