package batch

import (
	"context"
	"fmt"
	"time"

	"shopseo/internal/domain/seo"

	"golang.org/x/time/rate"
)

const (
	// DefaultBatchSize matches the chunking used by the bulk admin actions.
	DefaultBatchSize = 10
	// DefaultDelay spaces out remote calls so bursts of mutations stay under
	// the platform's leaky-bucket limits.
	DefaultDelay = 100 * time.Millisecond

	// maxReportedFailures caps how many per-unit errors a summary spells out.
	maxReportedFailures = 5
)

// Op processes a single unit and reports its outcome. Ops never abort the
// run; anything that goes wrong for one unit is folded into its outcome.
type Op func(ctx context.Context, u seo.Unit) seo.Outcome

// Runner walks a slice of units sequentially, pacing each call through a
// token bucket. A run always visits every unit; individual failures are
// collected, not propagated.
type Runner struct {
	batchSize int
	limiter   *rate.Limiter
}

func New(batchSize int, delay time.Duration) *Runner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Runner{
		batchSize: batchSize,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
	}
}

// BatchSize reports the configured chunk size, mainly for logging.
func (r *Runner) BatchSize() int { return r.batchSize }

// Result holds the per-unit outcomes of one run, keyed by unit key, plus the
// visit order so summaries stay stable.
type Result struct {
	Outcomes map[seo.UnitKey]seo.Outcome
	Order    []seo.UnitKey
}

func (res *Result) SuccessCount() int {
	n := 0
	for _, o := range res.Outcomes {
		if !o.Failed() {
			n++
		}
	}
	return n
}

// Failures lists the failed units in visit order, each entry carrying the
// unit key and the reason.
func (res *Result) Failures() []string {
	var out []string
	for _, key := range res.Order {
		if o := res.Outcomes[key]; o.Failed() {
			out = append(out, fmt.Sprintf("%s: %s", key, o.Reason))
		}
	}
	return out
}

// FailureSummary renders at most maxReportedFailures entries and a "+N more"
// tail, the shape surfaced to admin users after a bulk run.
func (res *Result) FailureSummary() []string {
	failures := res.Failures()
	if len(failures) <= maxReportedFailures {
		return failures
	}
	out := failures[:maxReportedFailures:maxReportedFailures]
	return append(out, fmt.Sprintf("+%d more", len(failures)-maxReportedFailures))
}

// Run applies op to every unit in order, waiting on the limiter before each
// call. Context cancellation stops the run early; units not yet visited get a
// RemoteFailure outcome so the result still covers the whole input.
func (r *Runner) Run(ctx context.Context, units []seo.Unit, op Op) *Result {
	res := &Result{
		Outcomes: make(map[seo.UnitKey]seo.Outcome, len(units)),
		Order:    make([]seo.UnitKey, 0, len(units)),
	}
	cancelled := false
	for _, u := range units {
		key := u.Key()
		res.Order = append(res.Order, key)
		if cancelled {
			res.Outcomes[key] = seo.RemoteFailure("run cancelled")
			continue
		}
		if err := r.limiter.Wait(ctx); err != nil {
			cancelled = true
			res.Outcomes[key] = seo.RemoteFailure("run cancelled")
			continue
		}
		res.Outcomes[key] = op(ctx, u)
	}
	return res
}

// GenerateThenUpdate composes a generation op with an update op. The update
// only runs when generation did not fail outright; sentinel text still flows
// through so the stored values make the gap visible.
func GenerateThenUpdate(gen Op, upd func(ctx context.Context, u seo.Unit, text seo.GeneratedText) seo.Outcome) Op {
	return func(ctx context.Context, u seo.Unit) seo.Outcome {
		out := gen(ctx, u)
		if out.Failed() {
			return out
		}
		return upd(ctx, u, out.Text)
	}
}
