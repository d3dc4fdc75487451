package crush

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/crushlang/crush/internal/crushlog"
)

// Progress is emitted by a Worker as the search advances, per spec.md §5.
type Progress struct {
	Fraction float64 // in [0,1], monotone non-decreasing within one run
	Phase    string
	Message  string
	Detail   string
}

// Result is the final successful outcome of a Worker run.
type Result struct {
	Solution      *SolverResult
	NodesExplored int
	Elapsed       time.Duration
	TimedOut      bool // true if the budget, not convergence, ended the run
}

// BudgetErr reports the budget outcome as an errors.Is-checkable value:
// ErrBudgetExhausted when TimedOut, nil otherwise. spec.md §7 classifies a
// budget stop as a non-error outcome delivered on Result() rather than
// Errors(), so callers that want to branch on it with errors.Is can do so
// through this accessor instead of the channel carrying an error itself.
func (r Result) BudgetErr() error {
	if r.TimedOut {
		return ErrBudgetExhausted
	}
	return nil
}

// Worker runs the digit-replacer's beam search on a background goroutine,
// per spec.md §5's message protocol: Progress may be emitted any number of
// times in monotone order; exactly one of Result or an error terminates the
// run, and nothing follows it. Only the channel that carried the terminal
// message is then closed; the other stays open. Cancel ctx to abort; the
// worker then closes both channels without a terminal message.
type Worker struct {
	opts DigitOptions

	progressCh chan Progress
	resultCh   chan Result
	errCh      chan error

	sem *semaphore.Weighted
}

// NewWorker builds a Worker with the given digit-variant options (spec.md
// §5's maxStates/timeLimit budgets live on DigitOptions).
func NewWorker(opts DigitOptions) *Worker {
	def := DefaultDigitOptions()
	if opts.MaxInt == 0 {
		opts.MaxInt = def.MaxInt
	}
	if opts.MaxStates == 0 {
		opts.MaxStates = def.MaxStates
	}
	if opts.TimeLimit == 0 {
		opts.TimeLimit = def.TimeLimit
	}
	return &Worker{
		opts:       opts,
		progressCh: make(chan Progress, 32),
		resultCh:   make(chan Result, 1),
		errCh:      make(chan error, 1),
		sem:        semaphore.NewWeighted(4),
	}
}

// Progress returns the channel of progress messages.
func (w *Worker) Progress() <-chan Progress { return w.progressCh }

// Result returns the channel the single terminal Result arrives on.
func (w *Worker) Result() <-chan Result { return w.resultCh }

// Errors returns the channel the single terminal error arrives on.
func (w *Worker) Errors() <-chan error { return w.errCh }

// Run starts the search on a new goroutine ("init" received) and returns
// immediately. Cancel ctx to request cooperative cancellation; the search
// checks it at the next iteration boundary.
func (w *Worker) Run(ctx context.Context, input string) {
	go w.run(ctx, input)
}

func (w *Worker) run(ctx context.Context, input string) {
	start := time.Now()
	defer close(w.progressCh)

	if present := digitsPresent(input); len(present) > 0 {
		w.errCh <- fmt.Errorf("%w: input contains %s", ErrReservedChar, describeDigits(present))
		close(w.errCh)
		return
	}

	budgetCtx, cancel := context.WithTimeout(ctx, time.Duration(w.opts.TimeLimit)*time.Millisecond)
	defer cancel()

	var nodesSeen int64
	timedOut := int32(0)

	w.progressCh <- Progress{Fraction: 0, Phase: "search", Message: "starting digit beam search"}

	solver := NewBeamSearchSolver(BeamOptions{
		BeamWidth:       w.opts.BeamWidth,
		BranchFactor:    w.opts.BranchFactor,
		LookAheadDepth:  w.opts.LookAheadDepth,
		MaxReplacements: w.opts.MaxInt,
		Discount:        w.opts.Discount,
		Delimiter:       w.opts.Delimiter,
		AlphabetFunc:    digitAlphabet,
		OnIteration: func(replacements, maxReplacements, nodes int) {
			atomic.StoreInt64(&nodesSeen, int64(nodes))
			frac := 0.0
			if maxReplacements > 0 {
				frac = float64(replacements) / float64(maxReplacements)
			}
			if frac > 1 {
				frac = 1
			}
			w.progressCh <- Progress{
				Fraction: frac,
				Phase:    "search",
				Message:  fmt.Sprintf("%d/%d replacements bound", replacements, maxReplacements),
				Detail:   fmt.Sprintf("nodes=%d", nodes),
			}
		},
		Stop: func() bool {
			if budgetCtx.Err() != nil {
				atomic.StoreInt32(&timedOut, 1)
				return true
			}
			if int(atomic.LoadInt64(&nodesSeen)) >= w.opts.MaxStates {
				atomic.StoreInt32(&timedOut, 1)
				return true
			}
			return false
		},
	})

	// The solve below holds one unit of this Worker's own semaphore
	// (capacity 4) for its whole run. The semaphore is not shared with the
	// solver, so it does not limit predictor recursion or beam expansion.
	if err := w.sem.Acquire(budgetCtx, 1); err != nil && ctx.Err() != nil {
		close(w.errCh)
		close(w.resultCh)
		return
	}
	defer w.sem.Release(1)

	result, err := solver.Solve(input)
	if ctx.Err() != nil {
		// Cancelled: no terminal message required.
		close(w.errCh)
		close(w.resultCh)
		return
	}
	if err != nil {
		crushlog.L().Errorw("digit worker failed", "error", err)
		w.errCh <- err
		close(w.errCh)
		return
	}

	phase := "done"
	if atomic.LoadInt32(&timedOut) == 1 {
		phase = "timeout"
	}
	w.progressCh <- Progress{Fraction: 1, Phase: phase, Message: "search complete"}

	w.resultCh <- Result{
		Solution:      result,
		NodesExplored: len(result.Graph.Nodes),
		Elapsed:       time.Since(start),
		TimedOut:      atomic.LoadInt32(&timedOut) == 1,
	}
	close(w.resultCh)
}
