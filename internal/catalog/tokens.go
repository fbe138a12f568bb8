// internal/catalog/tokens.go
package catalog

import "strings"

func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '%'
}

// Tokenize lowercases s and splits it on every run of characters outside
// [a-z0-9%]. Empty tokens are dropped and order is preserved.
func Tokenize(s string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isTokenRune(r)
	})
	if tokens == nil {
		return []string{}
	}
	return tokens
}
