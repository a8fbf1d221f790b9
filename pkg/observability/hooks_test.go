package observability

import (
	"context"
	"testing"
	"time"
)

type recordingSolverHooks struct {
	NoopSolverHooks
	observed       int
	contradictions int
}

func (h *recordingSolverHooks) OnObserve(context.Context, int, float64) {
	h.observed++
}

func (h *recordingSolverHooks) OnContradiction(context.Context, int, string) {
	h.contradictions++
}

func TestSetSolverHooks(t *testing.T) {
	defer Reset()

	rec := &recordingSolverHooks{}
	SetSolverHooks(rec)

	ctx := context.Background()
	Solver().OnObserve(ctx, 1, 0.5)
	Solver().OnObserve(ctx, 2, 0.25)
	Solver().OnContradiction(ctx, 3, "n1")

	if rec.observed != 2 {
		t.Errorf("observed = %d, want 2", rec.observed)
	}
	if rec.contradictions != 1 {
		t.Errorf("contradictions = %d, want 1", rec.contradictions)
	}

	// Embedded no-op methods keep partial implementations valid.
	Solver().OnSetupStart(ctx, 1, 4)
	Solver().OnSolveComplete(ctx, "success", 2, time.Millisecond, nil)
}

func TestSetNilKeepsCurrent(t *testing.T) {
	defer Reset()

	rec := &recordingSolverHooks{}
	SetSolverHooks(rec)
	SetSolverHooks(nil)

	Solver().OnObserve(context.Background(), 1, 0.5)
	if rec.observed != 1 {
		t.Error("nil registration replaced the active hooks")
	}
}

func TestReset(t *testing.T) {
	rec := &recordingSolverHooks{}
	SetSolverHooks(rec)
	Reset()

	Solver().OnObserve(context.Background(), 1, 0.5)
	if rec.observed != 0 {
		t.Error("Reset() left custom hooks registered")
	}

	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() did not restore no-op cache hooks")
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Error("Reset() did not restore no-op API hooks")
	}
}
