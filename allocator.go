package crush

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crushlang/crush/internal/crushlog"
)

// TokenRange is one maximal contiguous interval of free ASCII bytes, per
// spec.md §4.5 step 2.
type TokenRange struct {
	First, Last       rune
	Count             int
	Cost              int // serialised length of this range inside a char class
	OneByteTokenCount int
	hasBackslash      bool
}

// AllocationResult is the token allocator's output: either a usable
// character class and final token bindings, or a failure (Length == -1),
// per spec.md §4.5's failure-modes paragraph.
type AllocationResult struct {
	CharClass    string
	Replacements []*Pattern // final order, dependency-sorted for decode
	FinalText    []rune     // packed literal's runtime value: one pattern+token header per replacement, in Replacements order, followed by the substituted body (see packedBody)
	Length       int        // -1 on failure
	Report       string
	Err          error // errors.Is-checkable failure kind; nil on success (Report still carries the human-readable detail)
}

// classByteCost and classByteString handle the handful of bytes that need
// backslash-escaping to appear literally inside a `[...]` character class.
func classByteCost(b rune) int {
	switch b {
	case ']', '\\', '^', '-':
		return 2
	default:
		return 1
	}
}

func classByteString(b rune) string {
	switch b {
	case ']', '\\', '^', '-':
		return "\\" + string(b)
	default:
		return string(b)
	}
}

func newTokenRange(first, last rune) TokenRange {
	count := int(last-first) + 1
	hasBackslash := first <= '\\' && '\\' <= last
	var cost int
	if count == 1 {
		cost = classByteCost(first)
	} else {
		cost = classByteCost(first) + 1 + classByteCost(last)
	}
	oneByte := count
	if hasBackslash {
		oneByte--
	}
	return TokenRange{First: first, Last: last, Count: count, Cost: cost, OneByteTokenCount: oneByte, hasBackslash: hasBackslash}
}

func (r TokenRange) recompute() TokenRange {
	return newTokenRange(r.First, r.Last)
}

// discoverRanges scans bytes 1..126, accumulating maximal contiguous
// intervals of printable bytes (0x20 and up) absent from text and not equal
// to delim, per spec.md §4.5 step 2. Control bytes, CR and LF included, are
// never free, so no range contains them.
//
// Ranges are discovered over the *original* input, matching spec.md's
// "absent from the original text" wording -- every provisional token chosen
// during search is, by construction, already absent from that same input,
// so this independent re-derivation never conflicts with it.
func discoverRanges(text []rune, delim rune) []TokenRange {
	present := map[rune]bool{}
	for _, r := range text {
		present[r] = true
	}
	free := func(b rune) bool { return b >= ' ' && b != delim && !present[b] }

	var ranges []TokenRange
	b := rune(1)
	for b <= 126 {
		if !free(b) || b == '\r' {
			b++
			continue
		}
		start, end := b, b
		for end+1 <= 126 && free(end+1) && end+1 != '\r' {
			end++
		}
		if start == '\n' {
			start++
		}
		if end == '\n' {
			end--
		}
		if start > end {
			b = end + 2
			continue
		}
		ranges = append(ranges, newTokenRange(start, end))
		b = end + 1
	}
	return ranges
}

// rangeKey is spec.md §4.5 step 3's sort key.
func rangeKey(r TokenRange) float64 {
	return 10*float64(r.OneByteTokenCount) - float64(r.Cost) + float64(r.First)/1000
}

func sortRanges(ranges []TokenRange) {
	sort.SliceStable(ranges, func(i, j int) bool { return rangeKey(ranges[i]) > rangeKey(ranges[j]) })
}

// repairLeadingCaret drops a sorted-first range's leading '^' when keeping
// it would force a negated character class, per spec.md §4.5 step 4.
func repairLeadingCaret(ranges []TokenRange, replacementCount int) []TokenRange {
	if len(ranges) == 0 || ranges[0].First != '^' {
		return ranges
	}
	if replacementCount < ranges[0].Count || len(ranges) == 1 {
		r := ranges[0]
		r.First++
		if r.First > r.Last {
			// the whole range was just '^'; drop it entirely.
			return ranges[1:]
		}
		ranges[0] = r.recompute()
	}
	return ranges
}

// tokenSupply flattens ranges into the ordered candidate byte sequence:
// every one-byte token from every selected range, in range order, followed
// by the two-byte backslash token if any range covers it, per spec.md §4.5
// step 5.
func tokenSupply(ranges []TokenRange) []rune {
	var out []rune
	hasBackslash := false
	for _, r := range ranges {
		for b := r.First; b <= r.Last; b++ {
			if b == '\\' {
				hasBackslash = true
				continue
			}
			out = append(out, b)
		}
	}
	if hasBackslash {
		out = append(out, '\\')
	}
	return out
}

// dependencySort returns replacements ordered so that, for every pair where
// one's Original contains the other's, the contained (inner) one precedes
// the containing (outer) one -- spec.md §8's "dependency ordering" testable
// property. Ties keep the allocator's bind order (stable sort).
//
// In this engine Original fields are always literal substrings of the
// pristine input (patterns are discovered once, up front, against
// unmodified text; see analyser.go), so no Original ever contains another
// replacement's *token* -- only plain literal containment occurs, and a
// single topological pass over Depends/UsedBy is enough to satisfy the
// property; no token-expansion step (spec.md §4.5 step 1's first sentence)
// is needed because Original is already fully expanded.
func dependencySort(replacements []*Pattern) []*Pattern {
	out := append([]*Pattern(nil), replacements...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		_, aUsedByB := a.UsedBy[b.Token]
		_, bUsedByA := b.UsedBy[a.Token]
		if aUsedByB && !bUsedByA {
			return true // a is contained by b: a first
		}
		if bUsedByA && !aUsedByB {
			return false
		}
		return false
	})
	return out
}

// Allocate runs the token-allocator post-pass over a search result, per
// spec.md §4.5: it replaces every provisional search-time token with a
// final byte drawn from the cheapest free-byte ranges, builds the decoder's
// character class, and reorders the replacement list for decode.
func Allocate(result *SolverResult, weights ScorerWeights, delim rune) *AllocationResult {
	if len(result.Replacements) == 0 {
		return &AllocationResult{Length: 0, Report: "no gain found", Replacements: nil}
	}

	original := []rune(result.Input)
	ranges := discoverRanges(original, delim)
	if len(ranges) == 0 {
		crushlog.L().Warnw("allocator: no free bytes", "input_len", len(original))
		return &AllocationResult{Length: -1, Report: "no tokens available", Err: ErrNoFreeTokens}
	}
	sortRanges(ranges)
	ranges = repairLeadingCaret(ranges, len(result.Replacements))
	supply := tokenSupply(ranges)
	if len(supply) == 0 {
		return &AllocationResult{Length: -1, Report: "no tokens available", Err: ErrNoFreeTokens}
	}

	text := append([]rune(nil), result.Text...)
	remaining := append([]*Pattern(nil), result.Replacements...)
	var bound []*Pattern
	cursor := 0
	usedLast := -1
	rename := map[rune][]rune{} // provisional token -> final token, or Original when cleared

	for len(remaining) > 0 {
		if cursor >= len(supply) {
			crushlog.L().Warnw("allocator: token cursor exhausted supply", "remaining", len(remaining))
			return &AllocationResult{Length: -1, Report: "no tokens available", Err: ErrNoFreeTokens}
		}

		eligible := make([]*Pattern, 0, len(remaining))
		for _, p := range remaining {
			if len(p.UsedBy) == 0 {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 {
			eligible = remaining // dependency cycle guard: fall back to all
		}
		idx := bestPattern(weights, eligible)
		if idx == -1 {
			idx = 0
		}
		cand := eligible[idx]

		tokenByte := supply[cursor]
		tokenCost := 1
		if tokenByte == '\\' {
			tokenCost = 2
		}
		g := gainWithTokenCost(cand.Copies, cand.Len, tokenCost)
		if g <= 0 {
			cand.Cleared = true
			if old := []rune(cand.Token); len(old) == 1 {
				rename[old[0]] = cand.Original
			}
			clearUsedBy(remaining, cand.Token)
			remaining = removePattern(remaining, cand)
			continue
		}

		if old := []rune(cand.Token); len(old) == 1 {
			rename[old[0]] = []rune{tokenByte}
		}
		cand.Token = string(tokenByte)
		cand.Gain = g
		cand.NewOrder = len(bound)

		bound = append(bound, cand)
		remaining = removePattern(remaining, cand)
		usedLast = cursor
		cursor++
	}

	// One pass over the text, so a final byte that equals another pattern's
	// provisional token is never substituted a second time.
	var renamed []rune
	for _, r := range text {
		if rep, ok := rename[r]; ok {
			renamed = append(renamed, rep...)
		} else {
			renamed = append(renamed, r)
		}
	}
	text = renamed

	ranges = trimRangeTail(ranges, usedLast)
	ranges = fixLeadingCaretFinal(ranges)
	charClass := buildClassString(ranges)

	if err := validateCharClass(charClass); err != nil {
		crushlog.L().Errorw("allocator: built an invalid character class", "class", charClass, "error", err)
		return &AllocationResult{
			Length: -1,
			Report: "internal invariant broken: " + err.Error(),
			Err:    fmt.Errorf("%w: %s", ErrAllocatorInvariant, err),
		}
	}

	final := dependencySort(bound)
	packed := packedBody(final, text)
	return &AllocationResult{
		CharClass:    charClass,
		Replacements: final,
		FinalText:    packed,
		Length:       len(packed),
		Report:       "ok",
	}
}

// packedBody builds the runtime value the decoder's packed literal
// evaluates to: for each replacement, in order, its original pattern text
// immediately followed by its own final token byte, then the substituted
// body. Per spec.md §4.4 step 5 ("append the pattern after the token
// inline"), this lets the emitted split/shift/join loop recover each
// pattern: splitting the current text on one token byte, shifting the
// resulting array's first element (that token's own header, since its
// token byte is the first occurrence of any token anywhere in the current
// text) and joining the remainder with it expands every occurrence of that
// token in a single step. Repeating leftmost-first peels headers off in
// the order they were appended here, so no header may contain another
// replacement's token byte -- true by construction, since token bytes are
// drawn from the ranges discoverRanges found absent from the original
// input, and Original is always a literal substring of that same input.
func packedBody(replacements []*Pattern, body []rune) []rune {
	var out []rune
	for _, p := range replacements {
		out = append(out, p.Original...)
		out = append(out, []rune(p.Token)...)
	}
	out = append(out, body...)
	return out
}

func removePattern(patterns []*Pattern, target *Pattern) []*Pattern {
	out := patterns[:0]
	for _, p := range patterns {
		if p != target {
			out = append(out, p)
		}
	}
	return out
}

// substituteToken replaces every occurrence of the (single-rune) old token
// with newToken in text.
func substituteToken(text []rune, oldToken []rune, newToken rune) []rune {
	if len(oldToken) != 1 {
		return text
	}
	out := make([]rune, len(text))
	copy(out, text)
	for i, r := range out {
		if r == oldToken[0] {
			out[i] = newToken
		}
	}
	return out
}

// trimRangeTail shrinks the last range actually drawn from so unused tail
// bytes aren't serialised into the class, per spec.md §4.5 step 7's first
// sentence. The "move `]`-bearing range edges into the final range" half of
// step 7 is a pure cost optimisation on top of an already-valid class; since
// classByteString already escapes `]` wherever it lands, this implementation
// keeps the simpler, always-correct form and does not additionally relocate
// those bytes.
func trimRangeTail(ranges []TokenRange, lastCursorUsed int) []TokenRange {
	if lastCursorUsed < 0 || len(ranges) == 0 {
		return ranges
	}
	consumed := 0
	out := make([]TokenRange, 0, len(ranges))
	for _, r := range ranges {
		oneByteTokens := r.Count
		if r.hasBackslash {
			oneByteTokens--
		}
		if consumed+oneByteTokens <= lastCursorUsed+1 {
			out = append(out, r)
			consumed += oneByteTokens
			continue
		}
		remainingNeeded := lastCursorUsed + 1 - consumed
		if remainingNeeded <= 0 {
			break
		}
		newLast := r.First + rune(remainingNeeded) - 1
		if newLast > r.Last {
			newLast = r.Last
		}
		out = append(out, newTokenRange(r.First, newLast))
		consumed += remainingNeeded
		break
	}
	return out
}

// fixLeadingCaretFinal is spec.md §4.5 step 8.
func fixLeadingCaretFinal(ranges []TokenRange) []TokenRange {
	if len(ranges) > 1 && ranges[0].First == '^' {
		ranges[0], ranges[1] = ranges[1], ranges[0]
	}
	return ranges
}

// buildClassString is spec.md §4.5 step 9: concatenate range strings, with a
// bare `-` range prepended (so it reads as a literal hyphen, not a range
// operator).
func buildClassString(ranges []TokenRange) string {
	var dash *TokenRange
	var rest []TokenRange
	for i := range ranges {
		r := ranges[i]
		if r.Count == 1 && r.First == '-' {
			dash = &r
			continue
		}
		rest = append(rest, r)
	}

	var b strings.Builder
	if dash != nil {
		b.WriteByte('-')
	}
	for _, r := range rest {
		if r.Count == 1 {
			b.WriteString(classByteString(r.First))
		} else {
			b.WriteString(classByteString(r.First))
			b.WriteByte('-')
			b.WriteString(classByteString(r.Last))
		}
	}
	return b.String()
}

// validateCharClass compiles `/[<class>]/` with the same regex engine the
// decode-simulation verifier uses, per spec.md §8's "character-class
// well-formedness" property.
func validateCharClass(class string) error {
	_, err := coregexCompileClass(class)
	return err
}
