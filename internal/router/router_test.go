// internal/router/router_test.go
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/grocery-browser/internal/config"
	"github.com/javajoker/grocery-browser/internal/database"
	"github.com/javajoker/grocery-browser/internal/metrics"
	"github.com/javajoker/grocery-browser/internal/middleware"
	"github.com/javajoker/grocery-browser/internal/services"
)

const catalogJSON = `[
	{"item_id":"milk-1","product_name":"Whole Milk 1L","brand":"Dairyland","price":4.49},
	{"item_id":"almond-1","product_name":"Almond Beverage","brand":"Silk","price":3.99},
	{"item_id":"milk-2","product_name":"Milk 2% 4L","brand":"Natrel","price":6.49},
	{"item_id":"cola-6","product_name":"Cola 6 x 355 mL","offers":[
		{"store":"walmart","product_id":"w1","price_numeric":4.99},
		{"store":"superstore","product_id":"s1","price_numeric":4.49}
	]},
	{"sku":"ABC 123","product_name":"Oat Bar 6 Pack","brand":"Quaker","price":3.49},
	{"sku":"gr/9 #2","product_name":"Rye Crackers","price":2.99}
]`

type staticOpener string

func (o staticOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(o))), nil
}

type RouterTestSuite struct {
	suite.Suite
	router  *gin.Engine
	catalog *services.CatalogService
	carts   *services.CartService
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{AllowedOrigins: []string{"*"}},
		Search:      config.SearchConfig{MaxResults: 300, DefaultLimit: 24, MaxLimit: 100},
		Cart:        config.CartConfig{ChargeModel: "tax", TaxRate: 0.05, SessionTTL: 60},
		RateLimit:   config.RateLimitConfig{Enabled: false},
	}
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	reg := metrics.NewRegistry()
	suite.catalog = services.NewCatalogService(staticOpener(catalogJSON), services.CatalogServiceOptions{
		Source:  "test.json",
		Metrics: reg,
	})
	suite.Require().NoError(suite.catalog.Load(context.Background()))
	suite.carts = services.NewCartService(suite.catalog, "tax", 0.05, time.Hour, reg)

	suite.router = Initialize(testConfig(), Deps{
		Catalog: suite.catalog,
		Cart:    suite.carts,
		Metrics: reg,
	})
}

func (suite *RouterTestSuite) do(method, path string, body interface{}, session string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewBuffer(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func (suite *RouterTestSuite) newSession() string {
	w, response := suite.do("POST", "/v1/cart", nil, "")
	suite.Require().Equal(http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	return data["session_id"].(string)
}

func (suite *RouterTestSuite) TestHealth() {
	w, response := suite.do("GET", "/health", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "healthy", response["status"])
	assert.Equal(suite.T(), "ready", response["catalog"])
}

func (suite *RouterTestSuite) TestCatalogStatus() {
	w, response := suite.do("GET", "/v1/catalog/status", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "ready", data["state"])
	assert.Equal(suite.T(), float64(6), data["products"])
}

func (suite *RouterTestSuite) TestSearchResults() {
	w, response := suite.do("GET", "/v1/products/search?q=milk", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.True(suite.T(), response["success"].(bool))
	assert.Equal(suite.T(), "2", w.Header().Get("X-Total-Count"))

	meta := response["meta"].(map[string]interface{})
	assert.Equal(suite.T(), "results", meta["state"])
	assert.Equal(suite.T(), "milk", meta["query"])

	items := response["data"].([]interface{})
	suite.Require().Len(items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(suite.T(), "milk-2", first["id"])
	assert.Greater(suite.T(), first["score"].(float64), 0.5)
}

func (suite *RouterTestSuite) TestSearchPagination() {
	w, response := suite.do("GET", "/v1/products/search?q=milk&page=2&limit=1", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	items := response["data"].([]interface{})
	suite.Require().Len(items, 1)
	assert.Equal(suite.T(), "milk-1", items[0].(map[string]interface{})["id"])

	pagination := response["meta"].(map[string]interface{})["pagination"].(map[string]interface{})
	assert.Equal(suite.T(), float64(2), pagination["total_pages"])

	_, response = suite.do("GET", "/v1/products/search?q=milk&page=9", nil, "")
	assert.Empty(suite.T(), response["data"])
}

func (suite *RouterTestSuite) TestSearchHugePage() {
	w, response := suite.do("GET", "/v1/products/search?q=milk&page=9223372036854775807&limit=24", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Empty(suite.T(), response["data"])
	assert.Equal(suite.T(), "2", w.Header().Get("X-Total-Count"))
}

func (suite *RouterTestSuite) TestSearchStates() {
	_, response := suite.do("GET", "/v1/products/search", nil, "")
	assert.Equal(suite.T(), "idle", response["meta"].(map[string]interface{})["state"])

	_, response = suite.do("GET", "/v1/products/search?q=zzzz", nil, "")
	assert.Equal(suite.T(), "no_matches", response["meta"].(map[string]interface{})["state"])
}

func (suite *RouterTestSuite) TestGetProduct() {
	w, response := suite.do("GET", "/v1/products/cola-6", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Len(suite.T(), data["offers"], 2)
	assert.InDelta(suite.T(), 0.60, data["deposit_per_unit"].(float64), 1e-9)

	w, response = suite.do("GET", "/v1/products/nope", nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "NOT_FOUND", response["error"].(map[string]interface{})["code"])

	w, _ = suite.do("GET", "/v1/products/"+strings.Repeat("x", 129), nil, "")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestPriceHistoryDisabled() {
	w, _ := suite.do("GET", "/v1/products/milk-1/prices", nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestCartFlow() {
	session := suite.newSession()

	for i := 0; i < 3; i++ {
		w, _ := suite.do("POST", "/v1/cart/items", map[string]interface{}{"product_id": "milk-1"}, session)
		suite.Require().Equal(http.StatusOK, w.Code)
	}

	w, response := suite.do("GET", "/v1/cart", nil, session)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	totals := response["data"].(map[string]interface{})["totals"].(map[string]interface{})
	assert.Equal(suite.T(), float64(3), totals["item_count"])
	assert.InDelta(suite.T(), 13.47, totals["subtotal"].(float64), 1e-9)
	assert.InDelta(suite.T(), 0.6735, totals["secondary_charge"].(float64), 1e-9)
	assert.InDelta(suite.T(), 14.1435, totals["grand_total"].(float64), 1e-9)

	w, response = suite.do("POST", "/v1/cart/items/milk-1/decrement", nil, session)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	totals = response["data"].(map[string]interface{})["totals"].(map[string]interface{})
	assert.Equal(suite.T(), float64(2), totals["item_count"])

	w, response = suite.do("DELETE", "/v1/cart", nil, session)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Empty(suite.T(), response["data"].(map[string]interface{})["entries"])
}

func (suite *RouterTestSuite) TestCartOffers() {
	session := suite.newSession()

	_, response := suite.do("POST", "/v1/cart/items", map[string]interface{}{"product_id": "cola-6"}, session)
	entries := response["data"].(map[string]interface{})["entries"].([]interface{})
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), float64(1), entries[0].(map[string]interface{})["selected_offer_index"])

	w, response := suite.do("PUT", "/v1/cart/items/cola-6/offer", map[string]interface{}{"offer_index": 0}, session)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	totals := response["data"].(map[string]interface{})["totals"].(map[string]interface{})
	assert.InDelta(suite.T(), 4.99, totals["subtotal"].(float64), 1e-9)

	w, _ = suite.do("PUT", "/v1/cart/items/cola-6/offer", map[string]interface{}{"offer_index": 5}, session)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestCartValidation() {
	session := suite.newSession()

	w, response := suite.do("POST", "/v1/cart/items", map[string]interface{}{"product_id": "bad\x01id"}, session)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])

	w, _ = suite.do("POST", "/v1/cart/items", map[string]interface{}{"product_id": "nope"}, session)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w, response = suite.do("PUT", "/v1/cart/items/cola-6/offer", map[string]interface{}{}, session)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])
}

func (suite *RouterTestSuite) TestRetailerIDsWithSpacesAndSlashes() {
	w, response := suite.do("GET", "/v1/products/ABC%20123", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "Oat Bar 6 Pack", response["data"].(map[string]interface{})["name"])

	w, response = suite.do("GET", "/v1/products/gr%2F9%20%232", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "gr/9 #2", response["data"].(map[string]interface{})["id"])

	session := suite.newSession()
	w, _ = suite.do("POST", "/v1/cart/items", map[string]interface{}{"product_id": "ABC 123"}, session)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	w, _ = suite.do("POST", "/v1/cart/items", map[string]interface{}{"product_id": "gr/9 #2"}, session)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w, response = suite.do("POST", "/v1/cart/items/gr%2F9%20%232/increment", nil, session)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	totals := response["data"].(map[string]interface{})["totals"].(map[string]interface{})
	assert.Equal(suite.T(), float64(3), totals["item_count"])
	assert.InDelta(suite.T(), 3.49+2*2.99, totals["subtotal"].(float64), 1e-9)
}

func (suite *RouterTestSuite) TestCartSessionRequired() {
	w, _ := suite.do("GET", "/v1/cart", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w, _ = suite.do("GET", "/v1/cart", nil, "not-a-uuid")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w, _ = suite.do("GET", "/v1/cart", nil, "7f1c5b8e-3f6a-4c1e-9b7d-2a4e6c8d0f12")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestMetricsEndpoint() {
	suite.do("GET", "/v1/products/search?q=milk", nil, "")

	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `grocery_search_requests_total{state="results"} 1`)
	assert.Contains(suite.T(), w.Body.String(), "grocery_catalog_products 6")
}

func (suite *RouterTestSuite) TestReload() {
	w, _ := suite.do("POST", "/v1/catalog/reload", nil, "")
	assert.Equal(suite.T(), http.StatusAccepted, w.Code)

	assert.Eventually(suite.T(), func() bool {
		return suite.catalog.Status().State == "ready"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestStaticFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>browser</h1>"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	cfg := testConfig()
	cfg.Server.StaticDir = dir
	catalogService := services.NewCatalogService(staticOpener(catalogJSON), services.CatalogServiceOptions{})
	r := Initialize(cfg, Deps{
		Catalog: catalogService,
		Cart:    services.NewCartService(catalogService, "tax", 0.05, time.Hour, nil),
	})

	for path, want := range map[string]string{"/": "<h1>browser</h1>", "/app.js": "console.log(1)"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, want, w.Body.String(), path)
	}

	req, _ := http.NewRequest("GET", "/missing.css", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPriceHistoryEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"})
	if !assert.NoError(t, err) {
		return
	}
	defer database.Close(db)
	assert.NoError(t, database.RunMigrations(db))

	history := services.NewHistoryService(db, nil)
	for _, price := range []string{"4.49", "4.29"} {
		_, err := history.Import(context.Background(), strings.NewReader(`{"item_id":"milk-1","product_name":"Whole Milk 1L","price":`+price+`}`), nil)
		assert.NoError(t, err)
	}

	catalogService := services.NewCatalogService(staticOpener(catalogJSON), services.CatalogServiceOptions{})
	r := Initialize(testConfig(), Deps{
		Catalog: catalogService,
		Cart:    services.NewCartService(catalogService, "tax", 0.05, time.Hour, nil),
		History: history,
	})

	req, _ := http.NewRequest("GET", "/v1/products/milk-1/prices?limit=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	rows := response["data"].([]interface{})
	if assert.Len(t, rows, 1) {
		assert.Equal(t, "milk-1", rows[0].(map[string]interface{})["item_id"])
	}
}
