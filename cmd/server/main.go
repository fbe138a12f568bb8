// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/javajoker/grocery-browser/internal/catalog"
	"github.com/javajoker/grocery-browser/internal/config"
	"github.com/javajoker/grocery-browser/internal/database"
	"github.com/javajoker/grocery-browser/internal/logger"
	"github.com/javajoker/grocery-browser/internal/metrics"
	"github.com/javajoker/grocery-browser/internal/middleware"
	"github.com/javajoker/grocery-browser/internal/router"
	"github.com/javajoker/grocery-browser/internal/search"
	"github.com/javajoker/grocery-browser/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	logger.Configure(cfg.Log, cfg.IsProduction(), os.Stdout)

	weights, err := search.LoadWeights(cfg.Search.ScoringConfig)
	if err != nil {
		logrus.Fatal("Failed to load scoring config: ", err)
	}

	reg := metrics.NewRegistry()

	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		logrus.Fatal("Failed to initialize storage: ", err)
	}

	catalogService := services.NewCatalogService(storageService, services.CatalogServiceOptions{
		Source:  cfg.Catalog.Source,
		Timeout: cfg.Catalog.Timeout(),
		Normalizer: catalog.NewNormalizer(catalog.NormalizerOptions{
			SearchURLTemplate: cfg.Catalog.SearchURLTemplate,
			ItemURLTemplate:   cfg.Catalog.ItemURLTemplate,
		}),
		Engine:  search.NewEngine(search.NewScorer(weights), cfg.Search.MaxResults),
		Metrics: reg,
	})

	cartService := services.NewCartService(catalogService, cfg.Cart.ChargeModel, cfg.Cart.TaxRate, cfg.Cart.TTL(), reg)
	cartService.StartSweeper(time.Minute)
	defer cartService.Stop()

	// Price history is optional; the browser works without a database.
	var historyService *services.HistoryService
	if cfg.Database.Enabled {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.Fatal("Failed to initialize database: ", err)
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.Fatal("Failed to run migrations: ", err)
		}
		historyService = services.NewHistoryService(db, reg)
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	defer limiter.Stop()

	// Initialize router
	r := router.Initialize(cfg, router.Deps{
		Catalog:     catalogService,
		Cart:        cartService,
		History:     historyService,
		Metrics:     reg,
		RateLimiter: limiter,
	})

	// Catalog loads in the background; search reports "loading" until it lands.
	catalogService.LoadAsync(context.Background())

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
		return
	}

	logrus.Info("Server exited")
}
