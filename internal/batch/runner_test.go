package batch

import (
	"context"
	"strings"
	"testing"
	"time"

	"shopseo/internal/domain/seo"
)

func imageUnits(n int) []seo.Unit {
	units := make([]seo.Unit, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, seo.ImageUnit{
			ProductID: "gid://shopify/Product/1",
			ImageID:   "gid://shopify/MediaImage/" + string(rune('a'+i)),
			Title:     "Mug",
		})
	}
	return units
}

func TestRunVisitsEveryUnitOnce(t *testing.T) {
	t.Parallel()

	units := imageUnits(4)
	calls := map[seo.UnitKey]int{}
	r := New(2, time.Microsecond)

	res := r.Run(context.Background(), units, func(_ context.Context, u seo.Unit) seo.Outcome {
		calls[u.Key()]++
		return seo.Success(seo.GeneratedText{AltText: "ok"})
	})

	if len(res.Outcomes) != 4 || len(res.Order) != 4 {
		t.Fatalf("outcomes = %d, order = %d", len(res.Outcomes), len(res.Order))
	}
	for key, n := range calls {
		if n != 1 {
			t.Errorf("unit %s visited %d times", key, n)
		}
	}
	if res.SuccessCount() != 4 {
		t.Fatalf("success count = %d", res.SuccessCount())
	}
}

func TestRunCollectsFailuresWithoutAborting(t *testing.T) {
	t.Parallel()

	units := imageUnits(3)
	failKey := units[1].Key()
	r := New(0, time.Microsecond)

	res := r.Run(context.Background(), units, func(_ context.Context, u seo.Unit) seo.Outcome {
		if u.Key() == failKey {
			return seo.RemoteFailure("Media: image could not be processed")
		}
		return seo.Success(seo.GeneratedText{AltText: "ok"})
	})

	if res.SuccessCount() != 2 {
		t.Fatalf("success count = %d", res.SuccessCount())
	}
	failures := res.Failures()
	if len(failures) != 1 {
		t.Fatalf("failures = %v", failures)
	}
	if !strings.Contains(failures[0], string(failKey)) {
		t.Fatalf("failure entry %q does not name the unit", failures[0])
	}
}

func TestRunOrderIsStable(t *testing.T) {
	t.Parallel()

	units := imageUnits(5)
	r := New(10, time.Microsecond)
	res := r.Run(context.Background(), units, func(_ context.Context, _ seo.Unit) seo.Outcome {
		return seo.Success(seo.GeneratedText{})
	})

	for i, key := range res.Order {
		if key != units[i].Key() {
			t.Fatalf("order[%d] = %s, want %s", i, key, units[i].Key())
		}
	}
}

func TestRunPacesCalls(t *testing.T) {
	t.Parallel()

	delay := 30 * time.Millisecond
	r := New(10, delay)
	start := time.Now()
	r.Run(context.Background(), imageUnits(3), func(_ context.Context, _ seo.Unit) seo.Outcome {
		return seo.Success(seo.GeneratedText{})
	})
	// First token is free; the remaining two calls each wait one interval.
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Fatalf("run finished in %v, want at least %v", elapsed, 2*delay)
	}
}

func TestRunCancelledContextMarksRemainingUnits(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := New(10, time.Hour) // second wait would block without cancellation
	visited := 0

	res := r.Run(ctx, imageUnits(3), func(_ context.Context, _ seo.Unit) seo.Outcome {
		visited++
		cancel()
		return seo.Success(seo.GeneratedText{})
	})

	if visited != 1 {
		t.Fatalf("visited = %d", visited)
	}
	if len(res.Outcomes) != 3 {
		t.Fatalf("outcomes = %d", len(res.Outcomes))
	}
	for _, key := range res.Order[1:] {
		if o := res.Outcomes[key]; o.Kind != seo.OutcomeRemote {
			t.Fatalf("unit %s outcome = %s", key, o.Kind)
		}
	}
}

func TestFailureSummaryCapsEntries(t *testing.T) {
	t.Parallel()

	units := imageUnits(8)
	r := New(10, time.Microsecond)
	res := r.Run(context.Background(), units, func(_ context.Context, _ seo.Unit) seo.Outcome {
		return seo.RemoteFailure("boom")
	})

	summary := res.FailureSummary()
	if len(summary) != 6 {
		t.Fatalf("summary has %d entries: %v", len(summary), summary)
	}
	if summary[5] != "+3 more" {
		t.Fatalf("tail = %q", summary[5])
	}
}

func TestGenerateThenUpdateSkipsUpdateOnFailure(t *testing.T) {
	t.Parallel()

	updates := 0
	op := GenerateThenUpdate(
		func(_ context.Context, _ seo.Unit) seo.Outcome {
			return seo.RemoteFailure("generation unavailable")
		},
		func(_ context.Context, _ seo.Unit, _ seo.GeneratedText) seo.Outcome {
			updates++
			return seo.Success(seo.GeneratedText{})
		},
	)

	out := op(context.Background(), imageUnits(1)[0])
	if out.Kind != seo.OutcomeRemote {
		t.Fatalf("kind = %s", out.Kind)
	}
	if updates != 0 {
		t.Fatal("update must not run after a failed generation")
	}
}

func TestGenerateThenUpdatePassesSentinelTextThrough(t *testing.T) {
	t.Parallel()

	var got seo.GeneratedText
	op := GenerateThenUpdate(
		func(_ context.Context, _ seo.Unit) seo.Outcome {
			return seo.Success(seo.GeneratedText{AltText: seo.SentinelInvalidJSON, Sentinel: true})
		},
		func(_ context.Context, _ seo.Unit, text seo.GeneratedText) seo.Outcome {
			got = text
			return seo.Success(text)
		},
	)

	out := op(context.Background(), imageUnits(1)[0])
	if out.Failed() {
		t.Fatalf("outcome failed: %s", out.Reason)
	}
	if !got.Sentinel || got.AltText != seo.SentinelInvalidJSON {
		t.Fatalf("update received %+v", got)
	}
}
