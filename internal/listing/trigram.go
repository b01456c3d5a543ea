package listing

import (
	"strings"
	"unicode"
)

// Similarity scores two strings by shared trigrams, the way Postgres pg_trgm
// does: lowercased words of letters and digits, each padded with two leading
// spaces and one trailing space, compared as sets. The result is
// |common| / |union| in [0, 1].
func Similarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	common := 0
	for t := range ta {
		if tb[t] {
			common++
		}
	}
	union := len(ta) + len(tb) - common
	return float64(common) / float64(union)
}

func trigrams(s string) map[string]bool {
	set := make(map[string]bool)
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = true
		}
	}
	return set
}
