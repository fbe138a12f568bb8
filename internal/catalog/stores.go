// internal/catalog/stores.go
package catalog

var DefaultStoreNames = map[string]string{
	"walmart":    "Walmart",
	"superstore": "Real Canadian Superstore",
}
