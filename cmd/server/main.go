package main

import (
	"fmt"
	"log"
	"os"

	"github.com/smartcart/backend/config"
	httpDelivery "github.com/smartcart/backend/internal/delivery/http"
	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/cache"
	"github.com/smartcart/backend/internal/infrastructure/kroger"
	"github.com/smartcart/backend/internal/infrastructure/serpapi"
	"github.com/smartcart/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debug := cfg.Matching.EnableDebugLogging || cfg.Server.Environment == "development"

	log.Printf("Starting SmartCart Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Ranked-result cache shared by all matchers
	resultCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Product sources and their matchers. Registration order fixes the
	// best-pick tie-break: Kroger wins an exact price tie over Walmart.
	var matchers []*usecase.MatcherService
	var locator domain.StoreLocator

	if cfg.Kroger.Enabled {
		krogerClient := kroger.NewClient(cfg.Kroger.ClientID, cfg.Kroger.ClientSecret, cfg.Kroger.BaseURL)
		krogerClient.SetDebug(debug)
		locator = krogerClient
		matchers = append(matchers, usecase.NewMatcherService(krogerClient, resultCache, usecase.MatcherConfig{
			Policy:             usecase.KrogerPolicy(),
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: debug,
		}))
		log.Printf("Kroger source enabled: %s", cfg.Kroger.BaseURL)
	}

	if cfg.SerpAPI.Enabled {
		walmartClient := serpapi.NewClient(cfg.SerpAPI.APIKey, cfg.SerpAPI.BaseURL)
		walmartClient.SetDebug(debug)
		matchers = append(matchers, usecase.NewMatcherService(walmartClient, resultCache, usecase.MatcherConfig{
			Policy:             usecase.WalmartPolicy(),
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: debug,
		}))
		log.Printf("Walmart source enabled via SerpAPI: %s", cfg.SerpAPI.BaseURL)
	}

	shoppingService := usecase.NewShoppingService(matchers, debug)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matchers, shoppingService, locator)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
