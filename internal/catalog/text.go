// internal/catalog/text.go
package catalog

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases s and removes combining accents.
func foldText(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
	nonAlnumWS   = regexp.MustCompile(`[^a-z0-9\s]+`)
	alnumTokens  = regexp.MustCompile(`[a-z0-9]+`)
	spaceRun     = regexp.MustCompile(`\s+`)
	sizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d+\s*[x×]\s*\d+(?:\.\d+)?\s*(?:ml|l|g|kg|oz|lb)s?\b`),
		regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:ml|l|litres?|liters?)\b`),
		regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:g|grams?|kg|kilograms?|oz|ounces?|lb|lbs|pounds?)\b`),
		regexp.MustCompile(`(?i)\b\d+\s*(?:pack|pk|count|ct|case|bottles?|cans?)\b`),
		regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:fl\s*oz|fluid\s*ounce)\b`),
	}
	milkPercents = []struct {
		pattern *regexp.Regexp
		word    string
	}{
		{regexp.MustCompile(`\b3\.25\s*(?:%|percent)`), " wholefat "},
		{regexp.MustCompile(`\b0\s*%`), " nonfat "},
		{regexp.MustCompile(`\b1\s*%`), " lowfat1 "},
		{regexp.MustCompile(`\b2\s*%`), " lowfat2 "},
	}
)

var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "of": {}, "for": {}, "in": {}, "to": {}, "a": {}, "an": {},
	"with": {}, "by": {}, "or": {}, "from": {}, "on": {}, "at": {}, "is": {}, "are": {},
	"bottle": {}, "bottles": {}, "case": {}, "pack": {},
}

var brandAliases = map[string][]string{
	"milk2go":     {"milk2go", "milk 2 go", "milk2 go", "milk to go"},
	"pc":          {"presidents choice", "president's choice", "pc"},
	"no name":     {"no name", "noname", "nn"},
	"great value": {"great value", "greatvalue", "gv"},
	"neilson":     {"neilson", "nielson"},
	"dairyland":   {"dairyland", "dairy land"},
	"natrel":      {"natrel", "na trel"},
}

// wordSynonyms is applied longest phrase first.
var wordSynonyms = map[string]string{
	"homogenized":    "wholefat",
	"homo":           "wholefat",
	"partly skimmed": "lowfat",
	"part skimmed":   "lowfat",
	"part skim":      "lowfat",
	"low fat":        "lowfat",
	"skim":           "nonfat",
	"skimmed":        "nonfat",
	"non fat":        "nonfat",
	"whole milk":     "wholefat",
	"whole":          "wholefat",
	"choc":           "chocolate",
	"chocolat":       "chocolate",
	"cocoa":          "chocolate",
	"strawb":         "strawberry",
	"vanil":          "vanilla",
	"original":       "",
	"classic":        "",
}

var synonymPatterns = compileSynonyms()

type synonym struct {
	pattern     *regexp.Regexp
	replacement string
}

func compileSynonyms() []synonym {
	phrases := make([]string, 0, len(wordSynonyms))
	for phrase := range wordSynonyms {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	out := make([]synonym, 0, len(phrases))
	for _, phrase := range phrases {
		out = append(out, synonym{
			pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`),
			replacement: wordSynonyms[phrase],
		})
	}
	return out
}

// NormalizeBrand folds accents, punctuation and known aliases.
func NormalizeBrand(brand string) string {
	if brand == "" {
		return ""
	}
	s := nonAlnum.ReplaceAllString(foldText(brand), "")
	for canonical, aliases := range brandAliases {
		for _, alias := range aliases {
			if s == nonAlnum.ReplaceAllString(foldText(alias), "") {
				return canonical
			}
		}
	}
	return s
}

// TitleCore reduces a product title to an order-independent key: brand,
// sizes, stopwords and bare numbers are removed and the tokens sorted.
func TitleCore(title, brand string) string {
	if title == "" {
		return ""
	}
	s := foldText(title)
	for _, mp := range milkPercents {
		s = mp.pattern.ReplaceAllString(s, mp.word)
	}

	if brand != "" {
		for _, b := range []string{foldText(brand), NormalizeBrand(brand), nonAlnum.ReplaceAllString(foldText(brand), "")} {
			if b == "" {
				continue
			}
			s = regexp.MustCompile(`\b`+regexp.QuoteMeta(b)+`\b`).ReplaceAllString(s, " ")
		}
	}

	for _, syn := range synonymPatterns {
		s = syn.pattern.ReplaceAllString(s, syn.replacement)
	}
	for _, p := range sizePatterns {
		s = p.ReplaceAllString(s, " ")
	}
	s = spaceRun.ReplaceAllString(nonAlnumWS.ReplaceAllString(s, " "), " ")

	var kept []string
	for _, tok := range alnumTokens.FindAllString(s, -1) {
		if _, stop := stopwords[tok]; stop || len(tok) < 2 || isDigits(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	sort.Strings(kept)
	return strings.Join(kept, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
