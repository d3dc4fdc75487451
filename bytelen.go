package crush

import "unicode/utf8"

// runeLen returns the UTF-8 byte length of a rune slice.
func runeLen(r []rune) int {
	n := 0
	for _, c := range r {
		n += utf8.RuneLen(c)
	}
	return n
}

// escapedLen returns the UTF-8 byte length of s after escaping backslashes
// and the given string delimiter, as it would need to appear inside the
// packed literal. Every backslash and every occurrence of delim costs one
// extra byte for the escaping backslash.
func escapedLen(r []rune, delim rune) int {
	n := runeLen(r)
	for _, c := range r {
		if c == '\\' || c == delim {
			n++
		}
	}
	return n
}

// escapedLenString is the string-argument convenience form of escapedLen.
func escapedLenString(s string, delim rune) int {
	return escapedLen([]rune(s), delim)
}

// utf8LenString returns the UTF-8 byte length of s.
func utf8LenString(s string) int {
	return len(s) // Go strings are already UTF-8 encoded byte sequences.
}
