package adapter

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/movemut/movemut/internal/controller"
	m "github.com/movemut/movemut/internal/model"
)

// SimpleUI renders plain text output, suitable for CI logs and piped output.
type SimpleUI struct {
	out io.Writer
}

// NewSimpleUI creates a SimpleUI writing to out.
func NewSimpleUI(out io.Writer) *SimpleUI {
	return &SimpleUI{out: out}
}

// Start implements controller.UI.
func (p *SimpleUI) Start(_ context.Context, _ ...controller.StartOption) error {
	return nil
}

// Close implements controller.UI.
func (p *SimpleUI) Close(_ context.Context) {}

// Wait implements controller.UI; plain output never blocks.
func (p *SimpleUI) Wait(_ context.Context) {}

// DisplayConcurrencyInfo prints the worker and shard configuration.
func (p *SimpleUI) DisplayConcurrencyInfo(_ context.Context, workers, shardIndex, totalShards int) {
	if totalShards > 1 {
		fmt.Fprintf(p.out, "Running with %d worker(s), shard %d/%d\n", workers, shardIndex, totalShards)
		return
	}

	fmt.Fprintf(p.out, "Running with %d worker(s)\n", workers)
}

// DisplayProgress prints one line per resolved mutant.
func (p *SimpleUI) DisplayProgress(_ context.Context, outcome m.Outcome, resolved, total int) {
	marker := "✗"
	if outcome.Verdict == m.Killed {
		marker = "✓"
	}

	fmt.Fprintf(p.out, "[%d/%d] %s %s %s %s::%s (%s → %s)\n",
		resolved, total, marker, outcome.Spec.ID, outcome.Verdict,
		outcome.Spec.Module, outcome.Spec.Function,
		outcome.Spec.Original, displayReplacement(outcome.Spec.Replacement))
}

// DisplayEstimation renders mutant counts per file and operator.
func (p *SimpleUI) DisplayEstimation(_ context.Context, specs []m.MutantSpec) {
	if len(specs) == 0 {
		fmt.Fprintln(p.out, "No mutants can be generated for the selected scope.")
		return
	}

	type key struct {
		file m.Path
		op   m.OperatorKind
	}

	counts := map[key]int{}

	for _, spec := range specs {
		counts[key{file: spec.File, op: spec.Operator}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].file != keys[j].file {
			return keys[i].file < keys[j].file
		}

		return keys[i].op < keys[j].op
	})

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"File", "Operator", "Mutants"})

	for _, k := range keys {
		table.Append([]string{string(k.file), string(k.op), fmt.Sprintf("%d", counts[k])})
	}

	table.SetFooter([]string{"", "Total", fmt.Sprintf("%d", len(specs))})
	table.Render()
}

// DisplayReport renders the summary tables and unified diffs for mutants
// that survived.
func (p *SimpleUI) DisplayReport(_ context.Context, report m.MutationReport) {
	fmt.Fprintf(p.out, "\nMutation run %s", report.RunID)

	if report.Incomplete {
		fmt.Fprint(p.out, " (incomplete)")
	}

	fmt.Fprintln(p.out)

	summary := tablewriter.NewWriter(p.out)
	summary.SetHeader([]string{"Verdict", "Count"})

	for _, verdict := range []m.Verdict{m.Killed, m.Survived, m.BuildError, m.Timeout, m.JudgeError, m.Skipped} {
		if count := report.Counts[verdict]; count > 0 {
			summary.Append([]string{string(verdict), fmt.Sprintf("%d", count)})
		}
	}

	summary.SetFooter([]string{"Score", fmt.Sprintf("%.1f%%", report.Score*100)})
	summary.Render()

	p.renderOperatorTable(report)
	p.renderSurvivors(report)
}

func (p *SimpleUI) renderOperatorTable(report m.MutationReport) {
	if len(report.ByOperator) == 0 {
		return
	}

	kinds := make([]m.OperatorKind, 0, len(report.ByOperator))
	for kind := range report.ByOperator {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"Operator", "Killed", "Survived", "Build err", "Score"})

	for _, kind := range kinds {
		stats := report.ByOperator[kind]
		table.Append([]string{
			string(kind),
			fmt.Sprintf("%d", stats.Killed),
			fmt.Sprintf("%d", stats.Survived),
			fmt.Sprintf("%d", stats.BuildErrors),
			fmt.Sprintf("%.1f%%", stats.Score*100),
		})
	}

	table.Render()
}

func (p *SimpleUI) renderSurvivors(report m.MutationReport) {
	survivors := make([]m.MutantRecord, 0)

	for _, record := range report.Mutants {
		if record.Verdict == m.Survived {
			survivors = append(survivors, record)
		}
	}

	if len(survivors) == 0 {
		return
	}

	fmt.Fprintf(p.out, "\n%d surviving mutant(s), pointing at specification gaps:\n", len(survivors))

	for _, record := range survivors {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(record.Original + "\n"),
			B:        difflib.SplitLines(displayReplacement(record.Replacement) + "\n"),
			FromFile: fmt.Sprintf("%s:%d (original)", record.File, record.Span.Line),
			ToFile:   fmt.Sprintf("%s [%s]", record.ID, record.Operator),
			Context:  0,
		})
		if err != nil {
			diff = fmt.Sprintf("%s → %s\n", record.Original, displayReplacement(record.Replacement))
		}

		fmt.Fprintf(p.out, "\n%s::%s\n%s", record.Module, record.Function, diff)
	}
}

// displayReplacement makes deletions visible in text output.
func displayReplacement(replacement string) string {
	if strings.TrimSpace(replacement) == "" {
		return "<deleted>"
	}

	return replacement
}
