// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"math"
)

var inf = math.Inf(1)

// RawRecord is a scraped catalog record with producer-specific keys.
// Only the catalog normalizer inspects its field names.
type RawRecord map[string]interface{}

// JSONB stores arbitrary JSON in a text/jsonb column
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type CatalogState string

const (
	CatalogStateLoading CatalogState = "loading"
	CatalogStateReady   CatalogState = "ready"
	CatalogStateFailed  CatalogState = "failed"
)

type SearchState string

const (
	SearchStateIdle      SearchState = "idle"
	SearchStateLoading   SearchState = "loading"
	SearchStateFailed    SearchState = "failed"
	SearchStateNoMatches SearchState = "no_matches"
	SearchStateResults   SearchState = "results"
)

type ChargeModel string

const (
	ChargeModelTax     ChargeModel = "tax"
	ChargeModelDeposit ChargeModel = "deposit"
)
