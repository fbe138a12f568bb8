// internal/catalog/id.go
package catalog

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// fallbackID derives a stable identifier from name and brand. Records with
// neither fall back to their position in the source document.
func fallbackID(name, brand string, index int) string {
	if name == "" && brand == "" {
		return "item-" + strconv.Itoa(index)
	}
	sum := blake2b.Sum256([]byte(strings.ToLower(name) + "|" + strings.ToLower(brand)))
	return "p_" + hex.EncodeToString(sum[:8])
}
