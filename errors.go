package crush

import "errors"

// Error kinds, per spec.md §7.
var (
	// ErrReservedChar is returned by the digit-replacer variant when the
	// input already contains one of the reserved digit characters.
	ErrReservedChar = errors.New("crush: input contains a reserved token character")

	// ErrNoFreeTokens is set on AllocationResult.Err (allocator.go) when no
	// printable ASCII byte, or no byte from a discovered range, is left to
	// draw a token from. Callers must surface the uncompressed input
	// unchanged; BuildArtefact/BuildDigitArtefact carry it through to
	// Artefact.Err.
	ErrNoFreeTokens = errors.New("crush: no free tokens available")

	// ErrVerificationFailed is set on Artefact.Err (artefact.go) when
	// simulateDecode/simulateDigitDecode could not reproduce the original
	// input from the emitted decoder. This is always a bug, never a
	// legitimate runtime outcome.
	ErrVerificationFailed = errors.New("crush: round-trip verification failed")

	// ErrBudgetExhausted is returned by Result.BudgetErr (worker.go) when
	// the wall-clock or state-count budget ended a worker-driven search.
	// Spec.md §7 classifies this as a non-error "timeout" outcome carried
	// on Result() rather than Errors(), so it's exposed as a sentinel via
	// an accessor rather than sent down the error channel itself.
	ErrBudgetExhausted = errors.New("crush: search budget exhausted")

	// ErrAllocatorInvariant is wrapped into AllocationResult.Err
	// (allocator.go) when the character class the allocator built fails
	// its own well-formedness check (spec.md §7, "internal invariant
	// broken"). Always fatal.
	ErrAllocatorInvariant = errors.New("crush: allocator invariant broken")
)
