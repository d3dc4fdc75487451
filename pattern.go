package crush

// Pattern is a candidate (or bound) substring substitution, per spec.md §3.
//
// Runes holds the substring that is matched against the working text;
// Original holds the substring as it appears in the *input* text. Patterns
// are discovered once on the input (analyser.go), so both hold the same
// literal input substring. Depends/UsedBy are small sets of token strings recording
// containment edges: if j's Original contains i's Original, j depends on i
// and i is used by j, so the allocator must bind j before it may retire i.
type Pattern struct {
	Runes    []rune // the substring as it currently appears, as runes
	Original []rune // the substring as it appears in the original input
	Token    string // the byte (or, for '\', the two-byte escape) bound to this pattern
	Copies   int    // live non-overlapping occurrence count
	Len      int    // escaped byte length of Runes
	Gain     int    // net byte saving, per scorer.go's gain formula
	Score    float64

	Depends map[string]struct{} // tokens this pattern's Original contains
	UsedBy  map[string]struct{} // tokens whose Original contains this pattern's Original

	Cleared  bool // true once bound or dominated/retired
	NewOrder int  // index at which the allocator finally bound this pattern
}

// Text returns Runes as a string. Pattern has no String method.
func (p *Pattern) Text() string { return string(p.Runes) }

// OriginalText returns the pattern's original-input substring as a string.
func (p *Pattern) OriginalText() string { return string(p.Original) }

// newPattern builds a Pattern from its current and original rune forms,
// computing Len via escapedLen with the given delimiter.
func newPattern(runes, original []rune, delim rune) *Pattern {
	return &Pattern{
		Runes:    runes,
		Original: original,
		Len:      escapedLen(runes, delim),
		Depends:  map[string]struct{}{},
		UsedBy:   map[string]struct{}{},
	}
}

// dependsOn records that p's Original contains other's Original: other must
// be bound (and is therefore reachable at decode time) before p can retire.
func (p *Pattern) dependsOn(other *Pattern) {
	if other.Token == "" || other == p {
		return
	}
	p.Depends[other.Token] = struct{}{}
	other.UsedBy[p.Token] = struct{}{}
}

// clearUsedBy removes token from every pattern's UsedBy set. Used when a
// pattern is retired/cleared during allocator rebinding (spec.md §4.5 step
// 6), so that patterns it was blocking become eligible again.
func clearUsedBy(patterns []*Pattern, token string) {
	for _, p := range patterns {
		delete(p.UsedBy, token)
	}
}
