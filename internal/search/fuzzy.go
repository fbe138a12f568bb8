// internal/search/fuzzy.go
package search

import "strings"

func lowerRunes(s string) []rune {
	return []rune(strings.ToLower(s))
}

// Distance returns the case-insensitive Levenshtein distance between a and b,
// counted in runes. A single DP row sized to the shorter string is kept.
func Distance(a, b string) int {
	return distance(lowerRunes(a), lowerRunes(b))
}

func distance(ra, rb []rune) int {
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			up := row[j]
			row[j] = min(up+1, row[j-1]+1, diag+cost)
			diag = up
		}
	}
	return row[len(rb)]
}

// Similarity is 1 - Distance/max(len), with lengths taken after lowercasing
// so the result stays within [0,1]. Two empty strings score 0.
func Similarity(a, b string) float64 {
	ra, rb := lowerRunes(a), lowerRunes(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}
	return 1 - float64(distance(ra, rb))/float64(longest)
}
