// internal/catalog/deposit.go
package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// Container deposit schedule
const (
	DepositSmallMaxLitres = 1.0
	DepositSmall          = 0.10
	DepositLarge          = 0.25
)

var (
	packPattern   = regexp.MustCompile(`(?i)(\d+)\s*[x×]\s*(\d+(?:\.\d+)?)\s*(ml|litres?|liters?|l)\b`)
	volumePattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(ml|litres?|liters?|l)\b`)
)

func depositRate(volume float64, unit string) float64 {
	litres := volume
	if strings.HasPrefix(strings.ToLower(unit), "m") {
		litres = volume / 1000
	}
	if litres <= DepositSmallMaxLitres {
		return DepositSmall
	}
	return DepositLarge
}

// EstimateDeposit returns the per-unit container deposit implied by text.
// Every "<count> x <volume><unit>" pack contributes; a lone "<volume><unit>"
// is only considered when no pack was found.
func EstimateDeposit(text string) float64 {
	packs := packPattern.FindAllStringSubmatch(text, -1)
	if len(packs) > 0 {
		total := 0.0
		for _, m := range packs {
			count, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			volume, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			total += float64(count) * depositRate(volume, m[3])
		}
		return total
	}

	m := volumePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	volume, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return depositRate(volume, m[2])
}
