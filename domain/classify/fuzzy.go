package classify

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	lo "github.com/samber/lo"
)

// Scores are 0..100 similarities on the 2*M/T scale of a difflib sequence
// matcher, combined as a weighted ratio: the plain ratio, the best aligned
// window of the longer string, and token sort/set variants.

// normalize lowercases s and blanks everything but letters, digits and
// underscores. Inner runs of blanks are kept.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}

func chars(s string) []string {
	rs := []rune(s)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

func round(f float64) int { return int(math.RoundToEven(f)) }

func matcherRatio(a, b []string) float64 {
	return difflib.NewMatcher(a, b).Ratio()
}

func ratio(a, b string) int {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return round(100 * matcherRatio(chars(a), chars(b)))
}

// partialRatio scores the shorter string against the windows of the longer
// one that start where their matching blocks line up.
func partialRatio(a, b string) int {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	short, long := chars(a), chars(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	best := 0.0
	for _, m := range difflib.NewMatcher(short, long).GetMatchingBlocks() {
		start := max(m.B-m.A, 0)
		end := min(start+len(short), len(long))
		r := matcherRatio(short, long[start:end])
		if r > 0.995 {
			return 100
		}
		best = max(best, r)
	}
	return round(100 * best)
}

func sortedTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func tokenSort(a, b string, partial bool) int {
	sa, sb := sortedTokens(a), sortedTokens(b)
	if partial {
		return partialRatio(sa, sb)
	}
	return ratio(sa, sb)
}

func tokenSet(a, b string, partial bool) int {
	ta, tb := lo.Uniq(strings.Fields(a)), lo.Uniq(strings.Fields(b))
	inter := lo.Intersect(ta, tb)
	onlyA, onlyB := lo.Difference(ta, tb)
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(inter, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	score := ratio
	if partial {
		score = partialRatio
	}
	return max(score(base, withA), score(base, withB), score(withA, withB))
}

// Score returns the weighted similarity of a and b after normalisation.
func Score(a, b string) int {
	p1, p2 := normalize(a), normalize(b)
	if p1 == "" || p2 == "" {
		return 0
	}
	l1, l2 := float64(len([]rune(p1))), float64(len([]rune(p2)))
	lenRatio := math.Max(l1, l2) / math.Min(l1, l2)

	base := float64(ratio(p1, p2))
	if lenRatio < 1.5 {
		return round(max(base,
			float64(tokenSort(p1, p2, false))*0.95,
			float64(tokenSet(p1, p2, false))*0.95))
	}
	scale := 0.9
	if lenRatio > 8 {
		scale = 0.6
	}
	return round(max(base,
		float64(partialRatio(p1, p2))*scale,
		float64(tokenSort(p1, p2, true))*0.95*scale,
		float64(tokenSet(p1, p2, true))*0.95*scale))
}

// BestMatch returns the highest scoring choice; ties keep the earlier one.
func BestMatch[T ~string](query string, choices []T) (T, int) {
	var best T
	bestScore := -1
	for _, c := range choices {
		if s := Score(query, string(c)); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return best, bestScore
}
