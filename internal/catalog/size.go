// internal/catalog/size.go
package catalog

import (
	"regexp"
	"strconv"
)

var (
	multiSize  = regexp.MustCompile(`(\d+)\s*[x×]\s*(\d+(?:\.\d+)?)\s*(ml|l|g|kg|oz|lb)s?\b`)
	singleSize = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(ml|litres?|l|grams?|g|kg|oz|lb)s?\b`)
)

// ExtractSize returns the total package size in litres ("l") or kilograms
// ("kg"). ok is false when no size is present.
func ExtractSize(text string) (size float64, unit string, ok bool) {
	s := foldText(text)
	if m := multiSize.FindStringSubmatch(s); m != nil {
		count, _ := strconv.ParseFloat(m[1], 64)
		each, _ := strconv.ParseFloat(m[2], 64)
		size, unit = toStandardUnit(count*each, m[3])
		return size, unit, unit != ""
	}
	if m := singleSize.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		size, unit = toStandardUnit(v, m[2])
		return size, unit, unit != ""
	}
	return 0, "", false
}

func toStandardUnit(v float64, unit string) (float64, string) {
	switch unit {
	case "ml":
		return v / 1000, "l"
	case "l", "litre", "litres":
		return v, "l"
	case "g", "gram", "grams":
		return v / 1000, "kg"
	case "kg":
		return v, "kg"
	case "oz":
		return v * 0.0295735, "l"
	case "lb":
		return v * 0.453592, "kg"
	}
	return 0, ""
}
