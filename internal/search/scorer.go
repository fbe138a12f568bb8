// internal/search/scorer.go
package search

import (
	"strings"

	"github.com/javajoker/grocery-browser/internal/models"
)

type Scorer struct {
	w Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{w: w}
}

func (s *Scorer) Weights() Weights {
	return s.w
}

// Score rates product against the query tokens. Price and rating nudges only
// apply to products that matched at least one token, so they can reorder
// matches but never admit a product on their own.
func (s *Scorer) Score(p models.Product, queryTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	name := strings.ToLower(p.Name)
	brand := strings.ToLower(p.Brand)
	category := strings.ToLower(p.Category)

	score := 0.0
	for _, qt := range queryTokens {
		if qt == "" {
			continue
		}

		switch {
		case strings.HasPrefix(name, qt):
			score += s.w.NamePrefix
		case strings.Contains(name, qt):
			score += s.w.NameContains
		}

		if brand != "" {
			switch {
			case strings.HasPrefix(brand, qt):
				score += s.w.BrandPrefix
			case strings.Contains(brand, qt):
				score += s.w.BrandContains
			}
		}

		if category != "" && strings.Contains(category, qt) {
			score += s.w.CategoryContains
		}

		if best := s.bestSimilarity(qt, p.Tokens); best >= s.w.FuzzyThreshold {
			score += s.w.Fuzzy * best
		}
	}

	if score <= 0 {
		return 0
	}
	if p.Price != nil {
		score += 1 / (1 + *p.Price*s.w.PriceNudgeFactor)
	}
	if p.Rating != nil {
		score += *p.Rating * s.w.RatingNudge
	}
	return score
}

func (s *Scorer) bestSimilarity(qt string, tokens []string) float64 {
	best := 0.0
	for _, tok := range tokens {
		if s.w.FuzzyAnchorFirst && !sameFirstRune(qt, tok) {
			continue
		}
		if sim := Similarity(qt, tok); sim > best {
			best = sim
			if best >= s.w.FuzzyShortCircuit {
				break
			}
		}
	}
	return best
}

func sameFirstRune(a, b string) bool {
	for _, ra := range a {
		for _, rb := range b {
			return ra == rb
		}
		return false
	}
	return false
}
