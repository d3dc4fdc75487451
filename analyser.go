package crush

import (
	"github.com/itgcl/ahocorasick"
)

// maxPatternLen caps candidate substring length, per spec.md §4.1: the used
// cap is min(100, |text|/2).
func maxPatternLen(n int) int {
	cap := n / 2
	if cap > 100 {
		cap = 100
	}
	return cap
}

// countNonOverlapping returns the number of non-overlapping occurrences of
// needle in haystack, scanning left to right and skipping past each match.
func countNonOverlapping(haystack, needle []rune) int {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return 0
	}
	count := 0
	i := 0
	limit := len(haystack) - len(needle)
	for i <= limit {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			count++
			i += len(needle)
			continue
		}
		i++
	}
	return count
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isLoneSurrogate reports whether r is a UTF-16 surrogate half. Go's string
// decoding never produces these as valid runes (invalid UTF-8 decodes to
// utf8.RuneError instead), so a substring boundary chosen over a []rune can
// never split a surrogate pair the way a UTF-16 code-unit boundary could.
// This predicate exists to keep spec.md §3's invariant an explicit, tested
// contract rather than an implicit consequence of using []rune.
func isLoneSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// Enumerate returns every substring of text with length >= 2 occurring at
// least twice, per spec.md §4.1. The first pass (this function) explores
// ascending lengths until a full length adds no newly-discovered pattern,
// matching the documented first-token/later-token asymmetry: only this
// initial enumeration pays the full O(n^2) substring scan.
func Enumerate(text string, delim rune) []*Pattern {
	runes := []rune(text)
	n := len(runes)
	cap := maxPatternLen(n)
	if cap < 2 {
		return nil
	}

	seen := map[string]bool{}
	var patterns []*Pattern

	for length := 2; length <= cap; length++ {
		addedThisLength := false
		for start := 0; start+length <= n; start++ {
			if isLoneSurrogate(runes[start]) || isLoneSurrogate(runes[start+length-1]) {
				continue
			}
			sub := runes[start : start+length]
			key := string(sub)
			if seen[key] {
				continue
			}
			seen[key] = true

			count := countNonOverlapping(runes, sub)
			if count < 2 {
				continue
			}
			original := make([]rune, len(sub))
			copy(original, sub)
			p := newPattern(append([]rune(nil), sub...), original, delim)
			p.Copies = count
			patterns = append(patterns, p)
			addedThisLength = true
		}
		if !addedThisLength && length > 2 {
			break
		}
	}
	return patterns
}

// Recount re-counts each retained pattern's non-overlapping occurrences
// against a new text and drops those whose count falls below 2. It does
// not itself decide on gain; callers apply the scorer afterwards.
//
// Later search iterations only ever recount an already-discovered pattern
// set (spec.md §4.1's documented asymmetry), so this builds a multi-pattern
// Aho-Corasick automaton over the live pattern strings to get, in one O(n)
// sweep, the subset of patterns still present in text at all -- avoiding an
// independent O(n) scan per pattern for the (common, as the text shrinks)
// case where most patterns have vanished entirely.
func Recount(patterns []*Pattern, text []rune) []*Pattern {
	if len(patterns) == 0 {
		return patterns
	}

	dict := make([]string, len(patterns))
	for i, p := range patterns {
		dict[i] = string(p.Runes)
	}
	matcher := ahocorasick.NewStringMatcher(dict)
	present := map[int]struct{}{}
	for _, idx := range matcher.MatchString(string(text)) {
		present[idx] = struct{}{}
	}

	kept := patterns[:0]
	for i, p := range patterns {
		if _, ok := present[i]; !ok {
			continue
		}
		count := countNonOverlapping(text, p.Runes)
		if count < 2 {
			continue
		}
		p.Copies = count
		kept = append(kept, p)
	}
	return kept
}
