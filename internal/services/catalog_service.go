// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/grocery-browser/internal/catalog"
	"github.com/javajoker/grocery-browser/internal/metrics"
	"github.com/javajoker/grocery-browser/internal/models"
	"github.com/javajoker/grocery-browser/internal/search"
)

// CatalogOpener fetches the raw catalog document.
type CatalogOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

type CatalogStatus struct {
	State    models.CatalogState `json:"state"`
	Message  string              `json:"message,omitempty"`
	Products int                 `json:"products"`
	Source   string              `json:"source"`
	LoadedAt *time.Time          `json:"loaded_at,omitempty"`
}

type SearchOutcome struct {
	State   models.SearchState `json:"state"`
	Query   string             `json:"query"`
	Message string             `json:"message,omitempty"`
	Results []search.Result    `json:"-"`
}

type CatalogService struct {
	opener     CatalogOpener
	normalizer *catalog.Normalizer
	engine     *search.Engine
	metrics    *metrics.Registry
	source     string
	timeout    time.Duration

	mu       sync.RWMutex
	state    models.CatalogState
	products []models.Product
	byID     map[string]int
	loadedAt time.Time
	gen      uint64
}

type CatalogServiceOptions struct {
	Source     string
	Timeout    time.Duration
	Normalizer *catalog.Normalizer
	Engine     *search.Engine
	Metrics    *metrics.Registry
}

func NewCatalogService(opener CatalogOpener, opts CatalogServiceOptions) *CatalogService {
	if opts.Normalizer == nil {
		opts.Normalizer = catalog.NewNormalizer(catalog.NormalizerOptions{})
	}
	if opts.Engine == nil {
		opts.Engine = search.NewEngine(nil, 0)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &CatalogService{
		opener:     opener,
		normalizer: opts.Normalizer,
		engine:     opts.Engine,
		metrics:    opts.Metrics,
		source:     opts.Source,
		timeout:    opts.Timeout,
		state:      models.CatalogStateLoading,
		byID:       map[string]int{},
	}
}

// LoadAsync starts a load in the background and returns immediately.
func (s *CatalogService) LoadAsync(ctx context.Context) {
	gen := s.begin()
	go s.load(ctx, gen)
}

// Load fetches, decodes and normalizes the catalog, then swaps it in. A newer
// load started meanwhile wins over this one.
func (s *CatalogService) Load(ctx context.Context) error {
	return s.load(ctx, s.begin())
}

func (s *CatalogService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = models.CatalogStateLoading
	return s.gen
}

func (s *CatalogService) load(ctx context.Context, gen uint64) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	products, err := s.fetch(ctx)
	s.metrics.CatalogLoadSec.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}

	if err != nil {
		s.state = models.CatalogStateFailed
		s.products = nil
		s.byID = map[string]int{}
		s.metrics.CatalogLoadFailures.Inc()
		s.metrics.CatalogProducts.Set(0)
		logrus.WithError(err).WithField("source", s.source).Error("Catalog load failed")
		return err
	}

	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	s.products = products
	s.byID = byID
	s.state = models.CatalogStateReady
	s.loadedAt = time.Now()
	s.metrics.CatalogProducts.Set(float64(len(products)))

	logrus.WithFields(logrus.Fields{
		"source":   s.source,
		"products": len(products),
		"duration": time.Since(start).Milliseconds(),
	}).Info("Catalog loaded")
	return nil
}

func (s *CatalogService) fetch(ctx context.Context) ([]models.Product, error) {
	body, err := s.opener.Open(ctx, s.source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raws, err := catalog.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", s.source, err)
	}
	return s.normalizer.NormalizeAll(raws), nil
}

func (s *CatalogService) Status() CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := CatalogStatus{
		State:    s.state,
		Products: len(s.products),
		Source:   s.source,
	}
	if s.state == models.CatalogStateFailed {
		status.Message = CatalogLoadFailedMessage
	}
	if !s.loadedAt.IsZero() {
		loadedAt := s.loadedAt
		status.LoadedAt = &loadedAt
	}
	return status
}

// Search ranks the current snapshot. Until a load has succeeded it reports
// the load state and no results.
func (s *CatalogService) Search(query string) SearchOutcome {
	start := time.Now()
	outcome := s.search(query)
	s.metrics.SearchLatencySec.Observe(time.Since(start).Seconds())
	s.metrics.SearchRequests.WithLabelValues(string(outcome.State)).Inc()
	return outcome
}

func (s *CatalogService) search(query string) SearchOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.TrimSpace(query)
	outcome := SearchOutcome{Query: query, Results: []search.Result{}}
	switch s.state {
	case models.CatalogStateLoading:
		outcome.State = models.SearchStateLoading
		return outcome
	case models.CatalogStateFailed:
		outcome.State = models.SearchStateFailed
		outcome.Message = CatalogLoadFailedMessage
		return outcome
	}

	if query == "" {
		outcome.State = models.SearchStateIdle
		return outcome
	}

	outcome.Results = s.engine.Rank(s.products, query)
	if len(outcome.Results) == 0 {
		outcome.State = models.SearchStateNoMatches
	} else {
		outcome.State = models.SearchStateResults
	}
	return outcome
}

func (s *CatalogService) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != models.CatalogStateReady {
		return models.Product{}, ErrCatalogNotReady
	}
	idx, ok := s.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return s.products[idx], nil
}
