package domain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/movemut/movemut/internal/adapter"
	m "github.com/movemut/movemut/internal/model"
)

// fakeJudge resolves mutants via a caller-supplied function and counts
// invocations.
type fakeJudge struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, root m.Path, filter string) (adapter.JudgeResult, error)
}

func (f *fakeJudge) Judge(ctx context.Context, root m.Path, filter string) (adapter.JudgeResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	return f.fn(ctx, root, filter)
}

func (f *fakeJudge) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func collectOutcomes(out <-chan m.Outcome) map[string]m.Outcome {
	outcomes := map[string]m.Outcome{}
	for outcome := range out {
		outcomes[outcome.Spec.ID] = outcome
	}

	return outcomes
}

func TestRunResolvesEveryMutant(t *testing.T) {
	root, file := writeCounterPackage(t)
	specs := counterSpecs(t, root, file)

	judge := &fakeJudge{fn: func(context.Context, m.Path, string) (adapter.JudgeResult, error) {
		return adapter.JudgeResult{Status: adapter.JudgeFailed, Output: "assertion failed"}, nil
	}}

	orch := NewOrchestrator(NewMaterializer(adapter.NewLocalSourceFSAdapter(), root), judge)
	outcomes := collectOutcomes(orch.Run(context.Background(), specs, RunOptions{Workers: 4}))

	require.Len(t, outcomes, len(specs))
	require.Equal(t, len(specs), judge.callCount())

	for _, spec := range specs {
		outcome, ok := outcomes[spec.ID]
		require.True(t, ok, "mutant %s has no verdict", spec.ID)
		require.Equal(t, m.Killed, outcome.Verdict)
		require.Equal(t, "assertion failed", outcome.Diagnostics)
	}
}

func TestRunMapsJudgeStatuses(t *testing.T) {
	root, file := writeCounterPackage(t)
	specs := counterSpecs(t, root, file)
	require.GreaterOrEqual(t, len(specs), 3)

	statuses := []adapter.JudgeStatus{adapter.JudgePassed, adapter.JudgeFailed, adapter.JudgeBuildFailed}

	// A single worker keeps invocation order equal to spec order.
	var mu sync.Mutex

	idx := 0

	judge := &fakeJudge{fn: func(context.Context, m.Path, string) (adapter.JudgeResult, error) {
		mu.Lock()
		status := statuses[idx]
		idx++
		mu.Unlock()

		return adapter.JudgeResult{Status: status}, nil
	}}

	orch := NewOrchestrator(NewMaterializer(adapter.NewLocalSourceFSAdapter(), root), judge)
	outcomes := collectOutcomes(orch.Run(context.Background(), specs[:3], RunOptions{Workers: 1}))

	require.Equal(t, m.Survived, outcomes[specs[0].ID].Verdict)
	require.Equal(t, m.Killed, outcomes[specs[1].ID].Verdict)
	require.Equal(t, m.BuildError, outcomes[specs[2].ID].Verdict)
}

func TestRunIsolatesJudgeFailures(t *testing.T) {
	root, file := writeCounterPackage(t)
	specs := counterSpecs(t, root, file)

	var once sync.Once

	judge := &fakeJudge{fn: func(context.Context, m.Path, string) (adapter.JudgeResult, error) {
		var fail bool

		once.Do(func() { fail = true })
		if fail {
			return adapter.JudgeResult{Status: adapter.JudgeInternal}, errors.New("judge crashed")
		}

		return adapter.JudgeResult{Status: adapter.JudgeFailed}, nil
	}}

	orch := NewOrchestrator(NewMaterializer(adapter.NewLocalSourceFSAdapter(), root), judge)
	outcomes := collectOutcomes(orch.Run(context.Background(), specs, RunOptions{Workers: 2}))

	require.Len(t, outcomes, len(specs))

	counts := map[m.Verdict]int{}
	for _, outcome := range outcomes {
		counts[outcome.Verdict]++
	}

	require.Equal(t, 1, counts[m.JudgeError])
	require.Equal(t, len(specs)-1, counts[m.Killed])
}

func TestRunTimeout(t *testing.T) {
	root, file := writeCounterPackage(t)
	specs := counterSpecs(t, root, file)[:3]

	judge := &fakeJudge{fn: func(ctx context.Context, _ m.Path, _ string) (adapter.JudgeResult, error) {
		<-ctx.Done()
		return adapter.JudgeResult{Status: adapter.JudgeInternal}, ctx.Err()
	}}

	orch := NewOrchestrator(NewMaterializer(adapter.NewLocalSourceFSAdapter(), root), judge)
	outcomes := collectOutcomes(orch.Run(context.Background(), specs, RunOptions{
		Workers:       3,
		MutantTimeout: 20 * time.Millisecond,
	}))

	// The run completes even though every judge invocation hit its budget.
	require.Len(t, outcomes, len(specs))

	for _, outcome := range outcomes {
		require.Equal(t, m.Timeout, outcome.Verdict)
	}
}

func TestRunSkipsAfterCancellation(t *testing.T) {
	root, file := writeCounterPackage(t)
	specs := counterSpecs(t, root, file)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	judge := &fakeJudge{fn: func(context.Context, m.Path, string) (adapter.JudgeResult, error) {
		return adapter.JudgeResult{Status: adapter.JudgeFailed}, nil
	}}

	orch := NewOrchestrator(NewMaterializer(adapter.NewLocalSourceFSAdapter(), root), judge)
	outcomes := collectOutcomes(orch.Run(ctx, specs, RunOptions{Workers: 2}))

	require.Len(t, outcomes, len(specs))
	require.Zero(t, judge.callCount())

	for _, outcome := range outcomes {
		require.Equal(t, m.Skipped, outcome.Verdict)
	}
}

func TestRunMaterializationFailureBecomesVerdict(t *testing.T) {
	root, file := writeCounterPackage(t)
	specs := counterSpecs(t, root, file)[:1]

	// Drift the recorded text so materialization fails the span re-validation.
	specs[0].Original = "!="

	judge := &fakeJudge{fn: func(context.Context, m.Path, string) (adapter.JudgeResult, error) {
		return adapter.JudgeResult{Status: adapter.JudgeFailed}, nil
	}}

	orch := NewOrchestrator(NewMaterializer(adapter.NewLocalSourceFSAdapter(), root), judge)
	outcomes := collectOutcomes(orch.Run(context.Background(), specs, RunOptions{Workers: 1}))

	require.Len(t, outcomes, 1)
	require.Equal(t, m.JudgeError, outcomes[specs[0].ID].Verdict)
	require.Zero(t, judge.callCount())
}

func TestVerdictForStatus(t *testing.T) {
	require.Equal(t, m.Survived, verdictForStatus(adapter.JudgePassed))
	require.Equal(t, m.Killed, verdictForStatus(adapter.JudgeFailed))
	require.Equal(t, m.BuildError, verdictForStatus(adapter.JudgeBuildFailed))
	require.Equal(t, m.JudgeError, verdictForStatus(adapter.JudgeInternal))
}
