package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLen is the shortest token that takes part in a comparison.
const minTokenLen = 3

// Similarity is the Jaccard index of the word sets of a and b. Words are
// lowercased, punctuation separates words and words shorter than three
// characters are ignored. It returns 0 when either input is empty.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	ta := tokens(a)
	tb := tokens(b)

	union := len(ta)
	intersection := 0

	for t := range tb {
		if _, ok := ta[t]; ok {
			intersection++
			continue
		}

		union++
	}

	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

func tokens(s string) map[string]struct{} {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}

		return ' '
	}, strings.ToLower(s))

	set := make(map[string]struct{})

	for _, f := range strings.Fields(clean) {
		if utf8.RuneCountInString(f) < minTokenLen {
			continue
		}

		set[f] = struct{}{}
	}

	return set
}
