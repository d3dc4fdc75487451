// Package crush packs JavaScript source into a self-extracting literal by
// finding repeated substrings, replacing each with a single free byte, and
// emitting a short decoder that reverses the substitution at load time.
//
// # Overview
//
// Crush trades a training phase for a per-input search: it enumerates every
// repeated substring of the input, scores each by the bytes it would save
// if hoisted out into a token, and greedily or heuristically assigns tokens
// until no more net savings are available. The result is an artefact
// string, not a binary format -- it is meant to be pasted directly into a
// JS host, most often for code-golf or size-constrained demos (4K intros,
// tweet-sized programs).
//
// # Strategies
//
// Three search strategies trade search effort for compression:
//   - Crush: a single greedy pass, picking the best-scoring pattern each
//     iteration. Fast, deterministic, and usually close to optimal.
//   - BeamSearchSolver: keeps the best W partial solutions at each depth,
//     expanding each by its top candidates and using a bounded-depth gain
//     predictor to look past the immediate step. Slower, sometimes better.
//   - DigitReplacer: restricted to the ten decimal digits as tokens,
//     decoded by a shorter `.replace(/\d/g, ...)` form instead of a
//     character-class loop. Rejects inputs that already contain digits.
//
// # Basic usage
//
//	data, err := crush.Pack(source, crush.DefaultPackerOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range data {
//	    fmt.Println(d.Strategy, d.Result[1].Length, d.Result[1].Details)
//	}
//
// # Performance characteristics
//
// Pattern enumeration is O(n^2 * maxLen) against the input once, up front;
// every subsequent search iteration only recounts the already-discovered
// candidate set. Intended input sizes are hundreds to low thousands of
// bytes, where this is comfortably fast; much larger inputs should replace
// the enumerator with a suffix-array/LCP-table implementation (the
// analyser's external contract is unchanged either way).
package crush
