// internal/router/router.go
package router

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/grocery-browser/internal/config"
	"github.com/javajoker/grocery-browser/internal/handlers"
	"github.com/javajoker/grocery-browser/internal/metrics"
	"github.com/javajoker/grocery-browser/internal/middleware"
	"github.com/javajoker/grocery-browser/internal/services"
	"github.com/javajoker/grocery-browser/internal/utils"
)

// Deps are the services the HTTP layer is wired to. History may be nil.
type Deps struct {
	Catalog     *services.CatalogService
	Cart        *services.CartService
	History     *services.HistoryService
	Metrics     *metrics.Registry
	RateLimiter *middleware.RateLimiter
}

func Initialize(cfg *config.Config, deps Deps) *gin.Engine {
	pagination := utils.PaginationDefaults{
		Limit:    cfg.Search.DefaultLimit,
		MaxLimit: cfg.Search.MaxLimit,
	}

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, pagination)
	cartHandler := handlers.NewCartHandler(deps.Cart)
	historyHandler := handlers.NewHistoryHandler(deps.History, pagination)

	// Initialize Gin router
	r := gin.New()
	// Product ids come from retailer data and may contain an escaped "/".
	r.UseRawPath = true
	r.UnescapePathValues = true

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := deps.Catalog.Status()
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"catalog": status.State,
		})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// API v1 routes
	v1 := r.Group("/v1")
	if cfg.RateLimit.Enabled {
		limiter := deps.RateLimiter
		if limiter == nil {
			limiter = middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
		}
		v1.Use(limiter.Middleware())
	}
	{
		catalogRoutes := v1.Group("/catalog")
		{
			catalogRoutes.GET("/status", catalogHandler.GetStatus)
			catalogRoutes.POST("/reload", catalogHandler.Reload)
		}

		products := v1.Group("/products")
		{
			products.GET("/search", catalogHandler.Search)
			products.GET("/:id", catalogHandler.GetProduct)
			products.GET("/:id/prices", historyHandler.GetProductPrices)
		}

		v1.POST("/cart", cartHandler.CreateCart)
		cartRoutes := v1.Group("/cart")
		cartRoutes.Use(middleware.CartSessionRequired())
		{
			cartRoutes.GET("", cartHandler.GetCart)
			cartRoutes.DELETE("", cartHandler.ClearCart)
			cartRoutes.POST("/items", cartHandler.AddItem)
			cartRoutes.POST("/items/:id/increment", cartHandler.IncrementItem)
			cartRoutes.POST("/items/:id/decrement", cartHandler.DecrementItem)
			cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
			cartRoutes.PUT("/items/:id/offer", cartHandler.SelectOffer)
		}
	}

	if dir := cfg.Server.StaticDir; dir != "" {
		r.StaticFile("/", filepath.Join(dir, "index.html"))
		r.NoRoute(staticFiles(dir))
	}

	return r
}

// staticFiles serves files under dir for unmatched GET requests.
func staticFiles(dir string) gin.HandlerFunc {
	fs := http.Dir(dir)
	fileServer := http.FileServer(fs)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			utils.NotFoundResponse(c, "Route")
			return
		}
		f, err := fs.Open(c.Request.URL.Path)
		if err != nil {
			utils.NotFoundResponse(c, "Route")
			return
		}
		f.Close()
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
