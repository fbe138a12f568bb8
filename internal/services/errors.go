// internal/services/errors.go
package services

import "errors"

var (
	ErrCatalogNotReady = errors.New("catalog not ready")
	ErrProductNotFound = errors.New("product not found")
	ErrSessionNotFound = errors.New("cart session not found")
)

// CatalogLoadFailedMessage is the only text exposed for a failed load.
const CatalogLoadFailedMessage = "Failed to load products."
