package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Verdict is the terminal classification of one mutant. Exactly one verdict
// is recorded per generated mutant.
type Verdict string

const (
	// Killed means the judge reported a failure attributable to the mutant.
	Killed Verdict = "killed"
	// Survived means the judge reported success despite the mutation.
	Survived Verdict = "survived"
	// BuildError means the mutant did not compile.
	BuildError Verdict = "build-error"
	// Timeout means the judge exceeded the per-mutant or global budget.
	Timeout Verdict = "timeout"
	// JudgeError means the judge crashed or produced unusable output.
	JudgeError Verdict = "judge-error"
	// Skipped means the run was cancelled before the mutant was scheduled.
	Skipped Verdict = "skipped"
)

// Outcome pairs a mutant with its verdict as it leaves the orchestrator.
type Outcome struct {
	Spec        MutantSpec
	Verdict     Verdict
	Diagnostics string
	Duration    time.Duration
}

// ScorePolicy controls which verdicts enter the score denominator.
type ScorePolicy struct {
	// CountBuildErrors adds BuildError mutants to the denominator. Off by
	// default: a mutant that does not compile signals a malformed mutation,
	// not a specification gap.
	CountBuildErrors bool `yaml:"count_build_errors"`
}

// Score computes killed / (killed + survived), optionally widening the
// denominator with build errors. Timeouts, judge errors and skipped mutants
// are never scored. An empty denominator yields 1.0: nothing measurable
// survived.
func Score(counts map[Verdict]int, policy ScorePolicy) float64 {
	killed := counts[Killed]
	denominator := killed + counts[Survived]

	if policy.CountBuildErrors {
		denominator += counts[BuildError]
	}

	if denominator == 0 {
		return 1.0
	}

	return float64(killed) / float64(denominator)
}

// MutantRecord is the per-mutant entry of a finalized report.
type MutantRecord struct {
	ID          string        `yaml:"id"`
	Index       int           `yaml:"index"`
	File        Path          `yaml:"file"`
	Module      string        `yaml:"module"`
	Function    string        `yaml:"function"`
	Span        Span          `yaml:"span"`
	Operator    OperatorKind  `yaml:"operator"`
	Original    string        `yaml:"original"`
	Replacement string        `yaml:"replacement"`
	Verdict     Verdict       `yaml:"verdict"`
	Duration    time.Duration `yaml:"duration,omitempty"`
	// Diagnostics holds a bounded excerpt of the judge output for mutants
	// that were not killed; killed mutants need no explanation.
	Diagnostics string `yaml:"diagnostics,omitempty"`
}

// GroupStats aggregates verdicts for one file, function or operator.
type GroupStats struct {
	Killed      int     `yaml:"killed"`
	Survived    int     `yaml:"survived"`
	BuildErrors int     `yaml:"build_errors"`
	Timeouts    int     `yaml:"timeouts"`
	JudgeErrors int     `yaml:"judge_errors"`
	Skipped     int     `yaml:"skipped"`
	Score       float64 `yaml:"score"`
}

// MutationReport is the aggregate outcome of one run.
type MutationReport struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`

	Total  int             `yaml:"total"`
	Counts map[Verdict]int `yaml:"counts"`
	Score  float64         `yaml:"score"`
	Policy ScorePolicy     `yaml:"policy"`
	// Incomplete marks a report finalized before every mutant resolved.
	Incomplete bool `yaml:"incomplete,omitempty"`

	ByFile     map[Path]GroupStats         `yaml:"by_file,omitempty"`
	ByFunction map[string]GroupStats       `yaml:"by_function,omitempty"`
	ByOperator map[OperatorKind]GroupStats `yaml:"by_operator,omitempty"`

	// Mutants holds the per-mutant records in generation order.
	Mutants []MutantRecord `yaml:"mutants"`
}

// MergeReports unions shard reports into one. Records are deduplicated by
// mutant ID (first occurrence wins), reordered by generation index, and the
// summary is recomputed under the given policy. The merged report carries a
// fresh run ID; reusing an input's ID would make Save overwrite that shard's
// report file.
func MergeReports(policy ScorePolicy, reports ...MutationReport) MutationReport {
	merged := MutationReport{
		RunID:      uuid.NewString(),
		Counts:     map[Verdict]int{},
		Policy:     policy,
		ByFile:     map[Path]GroupStats{},
		ByFunction: map[string]GroupStats{},
		ByOperator: map[OperatorKind]GroupStats{},
	}

	seen := map[string]struct{}{}

	for _, report := range reports {
		if report.CreatedAt.After(merged.CreatedAt) {
			merged.CreatedAt = report.CreatedAt
		}

		merged.Incomplete = merged.Incomplete || report.Incomplete

		for _, record := range report.Mutants {
			if _, ok := seen[record.ID]; ok {
				continue
			}

			seen[record.ID] = struct{}{}
			merged.Mutants = append(merged.Mutants, record)
		}
	}

	sort.Slice(merged.Mutants, func(i, j int) bool {
		return merged.Mutants[i].Index < merged.Mutants[j].Index
	})

	for _, record := range merged.Mutants {
		merged.Counts[record.Verdict]++
		merged.ByFile[record.File] = AddVerdict(merged.ByFile[record.File], record.Verdict, policy)
		merged.ByFunction[record.QualifiedFunction()] = AddVerdict(merged.ByFunction[record.QualifiedFunction()], record.Verdict, policy)
		merged.ByOperator[record.Operator] = AddVerdict(merged.ByOperator[record.Operator], record.Verdict, policy)
	}

	merged.Total = len(merged.Mutants)
	merged.Score = Score(merged.Counts, policy)

	return merged
}

// QualifiedFunction returns the module-qualified function name used as the
// per-function grouping key.
func (r MutantRecord) QualifiedFunction() string {
	return r.Module + "::" + r.Function
}

// AddVerdict folds one verdict into the group stats under the given policy.
func AddVerdict(stats GroupStats, verdict Verdict, policy ScorePolicy) GroupStats {
	switch verdict {
	case Killed:
		stats.Killed++
	case Survived:
		stats.Survived++
	case BuildError:
		stats.BuildErrors++
	case Timeout:
		stats.Timeouts++
	case JudgeError:
		stats.JudgeErrors++
	case Skipped:
		stats.Skipped++
	}

	stats.Score = Score(map[Verdict]int{
		Killed:     stats.Killed,
		Survived:   stats.Survived,
		BuildError: stats.BuildErrors,
	}, policy)

	return stats
}
