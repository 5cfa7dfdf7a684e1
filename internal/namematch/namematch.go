// Package namematch resolves free-text player names against the league index.
package namematch

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritics so "Jokić" compares equal to "Jokic"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func normalize(s string) string {
	s = strings.ToLower(Fold(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokenSort(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return levenshtein.Similarity(a, b, nil)
}

// Score returns a 0-100 similarity, the better of the plain and token-sorted ratios
func Score(a, b string) int {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	best := math.Max(ratio(na, nb), ratio(tokenSort(na), tokenSort(nb)))
	return int(math.Round(best * 100))
}

// Best returns the index and score of the closest candidate, or -1 when there are none.
// Ties keep the earliest candidate.
func Best(query string, candidates []string) (int, int) {
	bestIdx, bestScore := -1, -1
	for i, c := range candidates {
		s := Score(query, c)
		if s > bestScore {
			bestIdx, bestScore = i, s
		}
		if s == 100 {
			break
		}
	}
	if bestIdx < 0 {
		return -1, 0
	}
	return bestIdx, bestScore
}
