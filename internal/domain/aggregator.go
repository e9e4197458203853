package domain

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	m "github.com/movemut/movemut/internal/model"
	"github.com/movemut/movemut/pkg"
)

// diagnosticsLimit bounds the excerpt of judge output kept per mutant in the
// finalized report. Full output stays in the spill until Close.
const diagnosticsLimit = 2048

type diagEntry struct {
	ID   string
	Text string
}

// Aggregator consumes verdicts from concurrent workers and folds them into a
// mutation report. It is the only state shared across workers; all access
// goes through one mutex.
type Aggregator struct {
	mu sync.Mutex

	runID    string
	policy   m.ScorePolicy
	expected int

	seen    map[string]struct{}
	records []m.MutantRecord
	counts  map[m.Verdict]int
	diags   pkg.Spill[diagEntry]
	started time.Time
}

// NewAggregator constructs an Aggregator expecting one verdict for each of
// the expected mutants.
func NewAggregator(expected int, policy m.ScorePolicy) (*Aggregator, error) {
	diags, err := pkg.NewSpill[diagEntry]()
	if err != nil {
		return nil, fmt.Errorf("create diagnostics spill: %w", err)
	}

	return &Aggregator{
		runID:    uuid.NewString(),
		policy:   policy,
		expected: expected,
		seen:     map[string]struct{}{},
		counts:   map[m.Verdict]int{},
		diags:    diags,
		started:  time.Now(),
	}, nil
}

// RunID returns the identifier stamped on the finalized report.
func (a *Aggregator) RunID() string {
	return a.runID
}

// Record folds one outcome into the tally. It is safe under concurrent calls
// and enforces the one-verdict-per-mutant invariant: a second verdict for the
// same mutant returns ErrDuplicateVerdict.
func (a *Aggregator) Record(outcome m.Outcome) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[outcome.Spec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateVerdict, outcome.Spec.ID)
	}

	a.seen[outcome.Spec.ID] = struct{}{}
	a.counts[outcome.Verdict]++

	a.records = append(a.records, m.MutantRecord{
		ID:          outcome.Spec.ID,
		Index:       outcome.Spec.Index,
		File:        outcome.Spec.File,
		Module:      outcome.Spec.Module,
		Function:    outcome.Spec.Function,
		Span:        outcome.Spec.Span,
		Operator:    outcome.Spec.Operator,
		Original:    outcome.Spec.Original,
		Replacement: outcome.Spec.Replacement,
		Verdict:     outcome.Verdict,
		Duration:    outcome.Duration,
	})

	if outcome.Diagnostics != "" && outcome.Verdict != m.Killed {
		if err := a.diags.Append(diagEntry{ID: outcome.Spec.ID, Text: outcome.Diagnostics}); err != nil {
			return fmt.Errorf("spill diagnostics for %s: %w", outcome.Spec.ID, err)
		}
	}

	return nil
}

// Resolved returns how many mutants have a recorded verdict.
func (a *Aggregator) Resolved() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.records)
}

// Finalize builds the report. Called after the orchestrator completes it
// yields the full result; called earlier it yields a partial report marked
// incomplete. Records are reordered into generation order regardless of the
// order verdicts arrived in.
func (a *Aggregator) Finalize() (m.MutationReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	excerpts := map[string]string{}

	err := a.diags.Range(func(_ uint64, entry diagEntry) error {
		text := entry.Text
		if len(text) > diagnosticsLimit {
			text = text[:diagnosticsLimit]
		}

		excerpts[entry.ID] = text

		return nil
	})
	if err != nil {
		return m.MutationReport{}, fmt.Errorf("read diagnostics spill: %w", err)
	}

	records := make([]m.MutantRecord, len(a.records))
	copy(records, a.records)

	sort.Slice(records, func(i, j int) bool {
		return records[i].Index < records[j].Index
	})

	report := m.MutationReport{
		RunID:      a.runID,
		CreatedAt:  a.started,
		Total:      len(records),
		Counts:     map[m.Verdict]int{},
		Policy:     a.policy,
		Incomplete: len(records) < a.expected,
		ByFile:     map[m.Path]m.GroupStats{},
		ByFunction: map[string]m.GroupStats{},
		ByOperator: map[m.OperatorKind]m.GroupStats{},
	}

	for verdict, count := range a.counts {
		report.Counts[verdict] = count
	}

	for i := range records {
		records[i].Diagnostics = excerpts[records[i].ID]

		report.ByFile[records[i].File] = m.AddVerdict(report.ByFile[records[i].File], records[i].Verdict, a.policy)
		report.ByFunction[records[i].QualifiedFunction()] = m.AddVerdict(report.ByFunction[records[i].QualifiedFunction()], records[i].Verdict, a.policy)
		report.ByOperator[records[i].Operator] = m.AddVerdict(report.ByOperator[records[i].Operator], records[i].Verdict, a.policy)
	}

	report.Mutants = records
	report.Score = m.Score(report.Counts, a.policy)

	return report, nil
}

// Close releases the diagnostics spill.
func (a *Aggregator) Close() error {
	return a.diags.Close()
}
