// internal/search/weights.go
package search

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights are the relevance scoring constants.
type Weights struct {
	NamePrefix        float64 `yaml:"name_prefix"`
	NameContains      float64 `yaml:"name_contains"`
	BrandPrefix       float64 `yaml:"brand_prefix"`
	BrandContains     float64 `yaml:"brand_contains"`
	CategoryContains  float64 `yaml:"category_contains"`
	Fuzzy             float64 `yaml:"fuzzy"`
	FuzzyThreshold    float64 `yaml:"fuzzy_threshold"`
	FuzzyShortCircuit float64 `yaml:"fuzzy_short_circuit"`
	// FuzzyAnchorFirst limits fuzzy candidates to tokens sharing the query
	// token's first character.
	FuzzyAnchorFirst bool    `yaml:"fuzzy_anchor_first"`
	PriceNudgeFactor float64 `yaml:"price_nudge_factor"`
	RatingNudge      float64 `yaml:"rating_nudge"`
	RelevanceFloor   float64 `yaml:"relevance_floor"`
}

func DefaultWeights() Weights {
	return Weights{
		NamePrefix:        10,
		NameContains:      6,
		BrandPrefix:       4,
		BrandContains:     2,
		CategoryContains:  1,
		Fuzzy:             4,
		FuzzyThreshold:    0.7,
		FuzzyShortCircuit: 0.95,
		FuzzyAnchorFirst:  true,
		PriceNudgeFactor:  0.04,
		RatingNudge:       0.15,
		RelevanceFloor:    0.5,
	}
}

// LoadWeights overlays the YAML file at path on DefaultWeights. An empty path
// returns the defaults.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("failed to read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("failed to parse scoring config: %w", err)
	}
	if err := w.Validate(); err != nil {
		return DefaultWeights(), err
	}
	return w, nil
}

func (w Weights) Validate() error {
	if w.FuzzyThreshold < 0 || w.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold must be within [0,1], got %v", w.FuzzyThreshold)
	}
	if w.FuzzyShortCircuit < w.FuzzyThreshold || w.FuzzyShortCircuit > 1 {
		return fmt.Errorf("fuzzy_short_circuit must be within [fuzzy_threshold,1], got %v", w.FuzzyShortCircuit)
	}
	if w.PriceNudgeFactor < 0 {
		return fmt.Errorf("price_nudge_factor must not be negative")
	}
	if w.RelevanceFloor < 0 {
		return fmt.Errorf("relevance_floor must not be negative")
	}
	return nil
}
