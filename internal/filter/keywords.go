package filter

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldText lowercases and strips combining marks so "Señor Développeur"
// matches a plain-ASCII keyword list.
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// MatchKeywords returns the configured terms present in text as
// case-insensitive substrings. Each distinct term counts once no matter how
// often it repeats; the relevance score is the set's cardinality. A hashtag
// term matches with or without its leading '#', since post bodies render
// tags inconsistently.
func MatchKeywords(text string, terms []string) (mapset.Set[string], int) {
	matched := mapset.NewSet[string]()
	folded := FoldText(text)

	for _, term := range terms {
		needle := FoldText(term)
		if needle == "" {
			continue
		}
		bare := strings.TrimPrefix(needle, "#")
		if strings.Contains(folded, needle) || (bare != "" && strings.Contains(folded, bare)) {
			matched.Add(term)
		}
	}

	return matched, matched.Cardinality()
}
