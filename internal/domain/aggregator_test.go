package domain

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "github.com/movemut/movemut/internal/model"
)

func outcomeN(i int, verdict m.Verdict) m.Outcome {
	return m.Outcome{
		Spec: m.MutantSpec{
			ID:          fmt.Sprintf("mutant-%03d", i),
			Index:       i,
			File:        "sources/counter.move",
			Module:      "counter",
			Function:    "bump",
			Operator:    m.OperatorCompareFlip,
			Original:    "<",
			Replacement: ">=",
		},
		Verdict:  verdict,
		Duration: time.Millisecond,
	}
}

func TestAggregatorFinalize(t *testing.T) {
	agg, err := NewAggregator(5, m.ScorePolicy{})
	require.NoError(t, err)

	defer func() { require.NoError(t, agg.Close()) }()

	verdicts := []m.Verdict{m.Killed, m.Killed, m.Killed, m.Survived, m.BuildError}
	for i, verdict := range verdicts {
		require.NoError(t, agg.Record(outcomeN(i, verdict)))
	}

	report, err := agg.Finalize()
	require.NoError(t, err)

	require.Equal(t, agg.RunID(), report.RunID)
	require.Equal(t, 5, report.Total)
	require.False(t, report.Incomplete)
	require.Equal(t, 3, report.Counts[m.Killed])
	require.Equal(t, 1, report.Counts[m.Survived])
	require.Equal(t, 1, report.Counts[m.BuildError])
	require.InDelta(t, 0.75, report.Score, 1e-9)

	t.Run("groups by file, function and operator", func(t *testing.T) {
		require.Len(t, report.ByFile, 1)
		require.Len(t, report.ByOperator, 1)
		require.Contains(t, report.ByFunction, "counter::bump")
	})
}

func TestAggregatorRejectsDuplicateVerdicts(t *testing.T) {
	agg, err := NewAggregator(2, m.ScorePolicy{})
	require.NoError(t, err)

	defer func() { require.NoError(t, agg.Close()) }()

	require.NoError(t, agg.Record(outcomeN(0, m.Killed)))

	err = agg.Record(outcomeN(0, m.Survived))
	require.ErrorIs(t, err, ErrDuplicateVerdict)
	require.Equal(t, 1, agg.Resolved())
}

func TestAggregatorConcurrentRecord(t *testing.T) {
	const workers = 64

	agg, err := NewAggregator(workers, m.ScorePolicy{})
	require.NoError(t, err)

	defer func() { require.NoError(t, agg.Close()) }()

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		i := i

		go func() {
			defer wg.Done()
			errs <- agg.Record(outcomeN(i, m.Killed))
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, workers, agg.Resolved())

	report, err := agg.Finalize()
	require.NoError(t, err)
	require.Equal(t, workers, report.Total)

	t.Run("records come back in generation order", func(t *testing.T) {
		for i, record := range report.Mutants {
			require.Equal(t, i, record.Index)
		}
	})
}

func TestAggregatorIncompleteReport(t *testing.T) {
	agg, err := NewAggregator(3, m.ScorePolicy{})
	require.NoError(t, err)

	defer func() { require.NoError(t, agg.Close()) }()

	require.NoError(t, agg.Record(outcomeN(0, m.Survived)))

	report, err := agg.Finalize()
	require.NoError(t, err)
	require.True(t, report.Incomplete)
	require.Equal(t, 1, report.Total)
}

func TestAggregatorDiagnosticsExcerpt(t *testing.T) {
	agg, err := NewAggregator(2, m.ScorePolicy{})
	require.NoError(t, err)

	defer func() { require.NoError(t, agg.Close()) }()

	long := outcomeN(0, m.Survived)
	long.Diagnostics = strings.Repeat("x", diagnosticsLimit+500)

	killed := outcomeN(1, m.Killed)
	killed.Diagnostics = "irrelevant"

	require.NoError(t, agg.Record(long))
	require.NoError(t, agg.Record(killed))

	report, err := agg.Finalize()
	require.NoError(t, err)
	require.Len(t, report.Mutants, 2)

	require.Len(t, report.Mutants[0].Diagnostics, diagnosticsLimit)
	require.Empty(t, report.Mutants[1].Diagnostics)
}
