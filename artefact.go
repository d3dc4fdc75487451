package crush

import (
	"fmt"
	"strings"

	"github.com/coregx/coregex"
)

// Artefact is the final self-extracting output plus its human-readable
// build report, per spec.md §4.6 and §6's ResultStage.
type Artefact struct {
	Output  string
	Length  int
	Details string
	Passed  bool
	Err     error // errors.Is-checkable failure kind; nil when Passed
}

// decoderGlue holds the fixed strings around the decoder loop, per spec.md
// §4.6 ("<wrappedInit>, <env>, <interp> are fixed glue strings").
type decoderGlue struct {
	Variable    string // default "_"
	WrappedInit string // default ""
	Env         string // default ""
	Interp      string // default "eval(_)"
}

func defaultDecoderGlue() decoderGlue {
	return decoderGlue{Variable: "_", WrappedInit: "", Env: "", Interp: "eval(_)"}
}

// coregexCompileClass compiles /[<class>]/ so allocator.go and BuildArtefact
// can validate the character class with the same engine, per spec.md §8's
// well-formedness property.
func coregexCompileClass(class string) (*coregex.Regex, error) {
	return coregex.Compile("[" + class + "]")
}

// escapeLiteral backslash-escapes delim and backslash itself inside the
// packed literal, per spec.md §3's escaped-length accounting (bytelen.go).
func escapeLiteral(s string, delim rune) string {
	var b strings.Builder
	for _, r := range s {
		if r == delim || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BuildArtefact assembles the decoder artefact from an allocation result,
// per spec.md §4.6: the packed literal (headers plus body, see packedBody)
// inside the split/shift/join loop over the character class, followed by
// the glue strings. The token list appears only in the report, not in the
// output. It then runs the decode simulation and reports pass/fail.
//
// This builds the pattern-token decoder form (§4.6's first template); the
// digit-token variant is produced by BuildDigitArtefact.
func BuildArtefact(alloc *AllocationResult, input string, delim rune, glue decoderGlue) *Artefact {
	if alloc.Length < 0 {
		return &Artefact{Length: -1, Details: alloc.Report, Passed: false, Err: alloc.Err}
	}
	if len(alloc.Replacements) == 0 {
		packed := string(delim) + escapeLiteral(input, delim) + string(delim)
		return &Artefact{
			Output:  packed,
			Length:  utf8LenString(packed),
			Details: "no gain found",
			Passed:  true,
		}
	}

	// alloc.FinalText already carries every header (pattern+token, per
	// packedBody) ahead of the substituted body, so escaping it whole is
	// enough to embed the dictionary the split/shift/join loop below reads
	// at runtime -- spec.md §3's artefact layout.
	packedLiteral := escapeLiteral(string(alloc.FinalText), delim)

	// tokenList: the same dictionary, rendered for the human-readable
	// report only -- spec.md §3/§4.6's Artefact structure.
	var tokenList strings.Builder
	for i, r := range alloc.Replacements {
		if i > 0 {
			tokenList.WriteRune(delim)
		}
		tokenList.WriteString(escapeLiteral(r.OriginalText(), delim))
	}

	decoder := fmt.Sprintf(
		"for(%s=%c%s%c;G=/[%s]/.exec(%s);)with(%s.split(G))%s=join(shift(%s));%s%s",
		glue.Variable, delim, packedLiteral, delim, alloc.CharClass, glue.Variable,
		glue.Variable, glue.Variable, glue.WrappedInit, glue.Env, glue.Interp,
	)

	passed, detail := simulateDecode(decoder, alloc.CharClass, delim, input)
	var verifyErr error
	if !passed {
		verifyErr = ErrVerificationFailed
	}
	report := fmt.Sprintf("replacements=%d tokens=%s class=[%s] final check: %s%s",
		len(alloc.Replacements), tokenList.String(), alloc.CharClass,
		passStatus(passed), detail)

	return &Artefact{
		Output:  decoder,
		Length:  utf8LenString(decoder),
		Details: report,
		Passed:  passed,
		Err:     verifyErr,
	}
}

// BuildDigitArtefact assembles the digit-token decoder variant, per spec.md
// §4.6's second template. alloc.Replacements must all carry single-digit
// tokens (digit.go's DigitReplacer guarantees this).
func BuildDigitArtefact(alloc *AllocationResult, input string, delim rune, glue decoderGlue) *Artefact {
	if alloc.Length < 0 {
		return &Artefact{Length: -1, Details: alloc.Report, Passed: false, Err: alloc.Err}
	}
	if len(alloc.Replacements) == 0 {
		packed := string(delim) + escapeLiteral(input, delim) + string(delim)
		return &Artefact{Output: packed, Length: utf8LenString(packed), Details: "no gain found", Passed: true}
	}

	packedLiteral := escapeLiteral(string(alloc.FinalText), delim)

	order := append([]*Pattern(nil), alloc.Replacements...)
	sortByNewOrder(order)
	parts := make([]string, len(order))
	for i, p := range order {
		parts[i] = escapeLiteral(p.OriginalText(), delim)
	}
	splitList := strings.Join(parts, "|")

	decoder := fmt.Sprintf("%c%s%c.replace(/\\d/g, i => %c%s%c.split`|`[i])",
		delim, packedLiteral, delim, delim, splitList, delim)

	passed, detail := simulateDigitDecode(decoder, delim, input)
	var verifyErr error
	if !passed {
		verifyErr = ErrVerificationFailed
	}
	report := fmt.Sprintf("replacements=%d digits=%s final check: %s%s",
		len(alloc.Replacements), splitList, passStatus(passed), detail)

	return &Artefact{
		Output:  decoder,
		Length:  utf8LenString(decoder),
		Details: report,
		Passed:  passed,
		Err:     verifyErr,
	}
}

func passStatus(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

func sortByNewOrder(patterns []*Pattern) {
	for i := 1; i < len(patterns); i++ {
		for j := i; j > 0 && patterns[j-1].NewOrder > patterns[j].NewOrder; j-- {
			patterns[j-1], patterns[j] = patterns[j], patterns[j-1]
		}
	}
}

// simulateDecode drives the pattern-token decoder's own mechanism: find the
// leftmost byte in the packed literal matching the emitted character
// class, split the literal on every occurrence of that one byte, shift off
// the first fragment as a separator, and join the rest with it -- exactly
// what `with(_.split(G))_=join(shift())` does in the decoder string
// `output` holds. Repeating until the class no longer matches reconstructs
// the original input if, and only if, the class and the embedded headers
// (packedBody) are both correct, so this is a genuine re-execution of the
// emitted Output, not a replay from Pattern bookkeeping.
func simulateDecode(output, class string, delim rune, input string) (bool, string) {
	literal, ok := extractLiteral(output, delim, 0)
	if !ok {
		return false, " (no packed literal found in output)"
	}
	re, err := coregexCompileClass(class)
	if err != nil {
		return false, fmt.Sprintf(" (invalid character class: %s)", err)
	}

	text := literal
	for {
		loc := re.FindStringIndex(text)
		if loc == nil {
			break
		}
		tok := text[loc[0]:loc[1]]
		parts := strings.Split(text, tok)
		if len(parts) < 2 {
			break
		}
		def, rest := parts[0], parts[1:]
		text = strings.Join(rest, def)
	}
	if text == input {
		return true, ""
	}
	return false, fmt.Sprintf(" (decoded length %d, want %d)", len(text), len(input))
}

// simulateDigitDecode drives the digit-token decoder's mechanism: every
// decimal digit in the packed literal is replaced by the matching entry of
// the split-list, mirroring `` `literal`.replace(/\d/g, i => splitList.split`|`[i]) ``.
func simulateDigitDecode(output string, delim rune, input string) (bool, string) {
	literal, ok := extractLiteral(output, delim, 0)
	if !ok {
		return false, " (no packed literal found in output)"
	}
	splitList, ok := extractLiteral(output, delim, 1)
	if !ok {
		return false, " (no split list found in output)"
	}
	parts := strings.Split(splitList, "|")

	var b strings.Builder
	for _, r := range literal {
		if r < '0' || r > '9' {
			b.WriteRune(r)
			continue
		}
		idx := int(r - '0')
		if idx >= len(parts) {
			return false, fmt.Sprintf(" (digit %d has no split-list entry)", idx)
		}
		b.WriteString(parts[idx])
	}
	if b.String() == input {
		return true, ""
	}
	return false, fmt.Sprintf(" (decoded length %d, want %d)", b.Len(), len(input))
}

// extractLiteral returns the contents of the (n+1)th delim-delimited
// literal inside output, undoing escapeLiteral's backslash-escaping. Used
// to pull the real runtime values of the packed literal (and, for the
// digit form, the split-list) back out of an emitted Output string.
func extractLiteral(output string, delim rune, n int) (string, bool) {
	runes := []rune(output)
	seen := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != delim {
			continue
		}
		i++
		var b []rune
		closed := false
		for ; i < len(runes); i++ {
			r := runes[i]
			if r == '\\' && i+1 < len(runes) {
				i++
				b = append(b, runes[i])
				continue
			}
			if r == delim {
				closed = true
				break
			}
			b = append(b, r)
		}
		if !closed {
			return "", false
		}
		if seen == n {
			return string(b), true
		}
		seen++
	}
	return "", false
}
