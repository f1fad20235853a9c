package pricing

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s, strips accents (NFD, drop combining marks), turns
// punctuation into spaces and collapses whitespace. Extracted descriptions
// and unit tokens are matched in this folded form.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokens splits an already-folded string into its words.
func tokens(folded string) []string {
	return strings.Fields(folded)
}

// sortedTokens returns the folded string with its words in lexical order,
// used for word-order-insensitive comparison.
func sortedTokens(folded string) string {
	ts := tokens(folded)
	sort.Strings(ts)
	return strings.Join(ts, " ")
}
