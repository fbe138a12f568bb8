// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                 *prometheus.Registry
	SearchRequests      *prometheus.CounterVec
	SearchLatencySec    prometheus.Histogram
	CatalogProducts     prometheus.Gauge
	CatalogLoadFailures prometheus.Counter
	CatalogLoadSec      prometheus.Histogram
	CartMutations       *prometheus.CounterVec
	CartSessions        prometheus.Gauge
	HistoryImported     prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	searchRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grocery_search_requests_total",
		Help: "Search requests by outcome state.",
	}, []string{"state"})
	searchLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "grocery_search_latency_seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})
	catalogProducts := prometheus.NewGauge(prometheus.GaugeOpts{Name: "grocery_catalog_products"})
	loadFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "grocery_catalog_load_failures_total"})
	loadLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "grocery_catalog_load_seconds",
		Buckets: prometheus.DefBuckets,
	})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grocery_cart_mutations_total",
	}, []string{"op"})
	cartSessions := prometheus.NewGauge(prometheus.GaugeOpts{Name: "grocery_cart_sessions"})
	historyImported := prometheus.NewCounter(prometheus.CounterOpts{Name: "grocery_price_history_imported_total"})

	r.MustRegister(searchRequests, searchLatency, catalogProducts, loadFailures, loadLatency, cartMutations, cartSessions, historyImported)
	return &Registry{
		reg:                 r,
		SearchRequests:      searchRequests,
		SearchLatencySec:    searchLatency,
		CatalogProducts:     catalogProducts,
		CatalogLoadFailures: loadFailures,
		CatalogLoadSec:      loadLatency,
		CartMutations:       cartMutations,
		CartSessions:        cartSessions,
		HistoryImported:     historyImported,
	}
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
