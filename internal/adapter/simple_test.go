package adapter

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "github.com/movemut/movemut/internal/model"
)

func TestSimpleUIDisplayProgress(t *testing.T) {
	var out bytes.Buffer

	ui := NewSimpleUI(&out)

	ui.DisplayProgress(context.Background(), m.Outcome{
		Spec: m.MutantSpec{
			ID:          "abc123def456",
			Module:      "counter",
			Function:    "bump",
			Original:    "<",
			Replacement: ">=",
		},
		Verdict:  m.Killed,
		Duration: 5 * time.Millisecond,
	}, 1, 8)

	require.Contains(t, out.String(), "[1/8]")
	require.Contains(t, out.String(), "abc123def456")
	require.Contains(t, out.String(), "counter::bump")
}

func TestSimpleUIDisplayEstimation(t *testing.T) {
	var out bytes.Buffer

	ui := NewSimpleUI(&out)

	t.Run("empty scope", func(t *testing.T) {
		ui.DisplayEstimation(context.Background(), nil)
		require.Contains(t, out.String(), "No mutants")
	})

	t.Run("counts per file and operator", func(t *testing.T) {
		out.Reset()

		ui.DisplayEstimation(context.Background(), []m.MutantSpec{
			{File: "sources/counter.move", Operator: m.OperatorCompareFlip},
			{File: "sources/counter.move", Operator: m.OperatorCompareFlip},
			{File: "sources/vault.move", Operator: m.OperatorLiteral},
		})

		require.Contains(t, out.String(), "counter.move")
		require.Contains(t, out.String(), "vault.move")
		require.Contains(t, out.String(), "3")
	})
}

func TestSimpleUIDisplayReport(t *testing.T) {
	var out bytes.Buffer

	ui := NewSimpleUI(&out)

	report := m.MutationReport{
		RunID:  "run-1",
		Total:  3,
		Counts: map[m.Verdict]int{m.Killed: 2, m.Survived: 1},
		Score:  2.0 / 3.0,
		ByOperator: map[m.OperatorKind]m.GroupStats{
			m.OperatorDeleteStmt: {Killed: 2, Survived: 1, Score: 2.0 / 3.0},
		},
		Mutants: []m.MutantRecord{
			{
				ID:          "abc123def456",
				Module:      "counter",
				Function:    "bump",
				File:        "sources/counter.move",
				Operator:    m.OperatorDeleteStmt,
				Original:    "counter = counter + 1;",
				Replacement: "",
				Verdict:     m.Survived,
			},
		},
	}

	ui.DisplayReport(context.Background(), report)

	require.Contains(t, out.String(), "run-1")
	require.Contains(t, out.String(), "66.7%")
	require.Contains(t, out.String(), "counter::bump")

	t.Run("deletions are rendered visibly", func(t *testing.T) {
		require.Contains(t, out.String(), "<deleted>")
	})

	t.Run("incomplete runs are flagged", func(t *testing.T) {
		out.Reset()

		report.Incomplete = true
		ui.DisplayReport(context.Background(), report)

		require.Contains(t, out.String(), "incomplete")
	})
}
