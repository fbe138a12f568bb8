// internal/search/engine.go
package search

import (
	"sort"
	"strings"

	"github.com/javajoker/grocery-browser/internal/catalog"
	"github.com/javajoker/grocery-browser/internal/models"
)

const DefaultMaxResults = 300

type Result struct {
	Product models.Product `json:"product"`
	Score   float64        `json:"score"`
}

type Engine struct {
	scorer     *Scorer
	maxResults int
}

func NewEngine(scorer *Scorer, maxResults int) *Engine {
	if scorer == nil {
		scorer = NewScorer(DefaultWeights())
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Engine{scorer: scorer, maxResults: maxResults}
}

func (e *Engine) MaxResults() int {
	return e.maxResults
}

// Search returns the ranked products matching rawQuery.
func (e *Engine) Search(products []models.Product, rawQuery string) []models.Product {
	ranked := e.Rank(products, rawQuery)
	out := make([]models.Product, len(ranked))
	for i, r := range ranked {
		out[i] = r.Product
	}
	return out
}

// Rank scores every product, keeps those above the relevance floor and orders
// them by score desc, price asc (unknown last), then name. The result is
// capped at the engine's maximum. A blank query yields an empty slice.
func (e *Engine) Rank(products []models.Product, rawQuery string) []Result {
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return []Result{}
	}
	tokens := catalog.Tokenize(query)
	if len(tokens) == 0 {
		return []Result{}
	}

	floor := e.scorer.Weights().RelevanceFloor
	results := make([]Result, 0)
	for _, p := range products {
		if score := e.scorer.Score(p, tokens); score > floor {
			results = append(results, Result{Product: p, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		pa, pb := a.Product.PriceOrInf(), b.Product.PriceOrInf()
		if pa != pb {
			return pa < pb
		}
		return a.Product.Name < b.Product.Name
	})

	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}
	return results
}
