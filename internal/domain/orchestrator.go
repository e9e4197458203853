package domain

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/movemut/movemut/internal/adapter"
	m "github.com/movemut/movemut/internal/model"
)

// RunOptions bounds one orchestrator run.
type RunOptions struct {
	// Workers is the worker pool size. Values below 1 are treated as 1.
	Workers int
	// MutantTimeout bounds a single judge invocation. Zero means no
	// per-mutant bound beyond the run context.
	MutantTimeout time.Duration
}

// Orchestrator drives materialize→judge→cleanup cycles across a bounded
// worker pool. Each run is independent; the orchestrator holds no state
// between runs.
type Orchestrator struct {
	materializer *Materializer
	judge        adapter.JudgeAdapter
}

// NewOrchestrator constructs an Orchestrator over the given materializer and
// judge.
func NewOrchestrator(materializer *Materializer, judge adapter.JudgeAdapter) *Orchestrator {
	return &Orchestrator{materializer: materializer, judge: judge}
}

// Run resolves every spec to exactly one outcome and closes the returned
// channel once all are resolved. The context carries the global deadline:
// when it fires, unscheduled mutants resolve as Skipped and in-flight judge
// processes are terminated and resolve as Timeout. A crash of one judge
// invocation never aborts the run for other mutants.
func (o *Orchestrator) Run(ctx context.Context, specs []m.MutantSpec, opts RunOptions) <-chan m.Outcome {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	out := make(chan m.Outcome, workers)

	go func() {
		defer close(out)

		var group errgroup.Group
		group.SetLimit(workers)

		for _, spec := range specs {
			if ctx.Err() != nil {
				out <- m.Outcome{Spec: spec, Verdict: m.Skipped}
				continue
			}

			spec := spec
			group.Go(func() error {
				out <- o.testMutant(ctx, spec, opts.MutantTimeout)
				return nil
			})
		}

		_ = group.Wait()
	}()

	return out
}

func (o *Orchestrator) testMutant(ctx context.Context, spec m.MutantSpec, timeout time.Duration) m.Outcome {
	started := time.Now()

	if ctx.Err() != nil {
		return m.Outcome{Spec: spec, Verdict: m.Skipped}
	}

	ws, err := o.materializer.Materialize(ctx, spec)
	if err != nil {
		if ctx.Err() != nil {
			return m.Outcome{Spec: spec, Verdict: m.Skipped, Duration: time.Since(started)}
		}

		slog.Error("Failed to materialize mutant", "mutant", spec.ID, "error", err)

		return m.Outcome{
			Spec:        spec,
			Verdict:     m.JudgeError,
			Diagnostics: err.Error(),
			Duration:    time.Since(started),
		}
	}

	defer ws.Release(context.WithoutCancel(ctx))

	judgeCtx := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		judgeCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := o.judge.Judge(judgeCtx, ws.Root, spec.Function)
	outcome := m.Outcome{Spec: spec, Diagnostics: result.Output, Duration: time.Since(started)}

	switch {
	case judgeCtx.Err() != nil:
		// Per-mutant budget or global deadline cut the judge off.
		outcome.Verdict = m.Timeout
	case err != nil:
		slog.Error("Judge invocation failed", "mutant", spec.ID, "error", err)

		outcome.Verdict = m.JudgeError
		if result.Output == "" {
			outcome.Diagnostics = err.Error()
		}
	default:
		outcome.Verdict = verdictForStatus(result.Status)
	}

	return outcome
}

func verdictForStatus(status adapter.JudgeStatus) m.Verdict {
	switch status {
	case adapter.JudgePassed:
		return m.Survived
	case adapter.JudgeFailed:
		return m.Killed
	case adapter.JudgeBuildFailed:
		return m.BuildError
	default:
		return m.JudgeError
	}
}
