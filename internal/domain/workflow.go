package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/movemut/movemut/internal/adapter"
	"github.com/movemut/movemut/internal/controller"
	"github.com/movemut/movemut/internal/domain/operators"
	m "github.com/movemut/movemut/internal/model"
)

// RunArgs parameterizes a full mutation testing run.
type RunArgs struct {
	// ModelPath points at a model dump file. When empty, DumpCommand is run
	// inside PackageRoot to obtain the model.
	ModelPath   m.Path
	DumpCommand string
	PackageRoot m.Path

	Reports m.Path

	Workers       int
	MutantTimeout time.Duration
	GlobalTimeout time.Duration

	ShardIndex  int
	TotalShards int

	Modules          []string
	Functions        []string
	IncludeOperators []m.OperatorKind
	ExcludeOperators []m.OperatorKind

	JudgeCommand string
	Policy       m.ScorePolicy
}

// ListArgs parameterizes mutant estimation without execution.
type ListArgs struct {
	ModelPath   m.Path
	DumpCommand string
	PackageRoot m.Path

	Modules          []string
	Functions        []string
	IncludeOperators []m.OperatorKind
	ExcludeOperators []m.OperatorKind
}

// ViewArgs parameterizes report viewing.
type ViewArgs struct {
	// Report is a single report file; empty means the newest report in Reports.
	Report  m.Path
	Reports m.Path
}

// MergeArgs parameterizes merging shard reports.
type MergeArgs struct {
	Inputs  []m.Path
	Reports m.Path
	Policy  m.ScorePolicy
}

// Workflow wires the engine components behind the CLI commands.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

type workflow struct {
	fs     adapter.SourceFSAdapter
	loader adapter.ModelLoader
	store  adapter.ReportStore
	ui     controller.UI
}

// NewWorkflow creates a Workflow with the provided collaborators.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	loader adapter.ModelLoader,
	store adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{fs: fs, loader: loader, store: store, ui: ui}
}

// Run generates mutants, drives the orchestrator and persists the report.
// A global deadline produces a partial report rather than an error: every
// unresolved mutant is recorded as skipped.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	pkg, err := w.loadModel(ctx, args.ModelPath, args.DumpCommand, args.PackageRoot)
	if err != nil {
		return err
	}

	specs, err := w.generate(ctx, pkg, args.Modules, args.Functions, args.IncludeOperators, args.ExcludeOperators)
	if err != nil {
		return err
	}

	specs = shardSpecs(specs, args.ShardIndex, args.TotalShards)

	aggregator, err := NewAggregator(len(specs), args.Policy)
	if err != nil {
		return err
	}

	defer func() {
		if err := aggregator.Close(); err != nil {
			slog.Error("Failed to close aggregator", "error", err)
		}
	}()

	if err := w.ui.Start(ctx, controller.WithTestMode(), controller.WithTotal(len(specs))); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}

	defer w.ui.Close(ctx)

	w.ui.DisplayConcurrencyInfo(ctx, args.Workers, args.ShardIndex, args.TotalShards)

	runCtx := ctx

	if args.GlobalTimeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, args.GlobalTimeout)
		defer cancel()
	}

	materializer := NewMaterializer(w.fs, pkg.Root)
	orchestrator := NewOrchestrator(materializer, adapter.NewCommandJudge(args.JudgeCommand))

	outcomes := orchestrator.Run(runCtx, specs, RunOptions{
		Workers:       args.Workers,
		MutantTimeout: args.MutantTimeout,
	})

	for outcome := range outcomes {
		if err := aggregator.Record(outcome); err != nil {
			return fmt.Errorf("record verdict: %w", err)
		}

		w.ui.DisplayProgress(ctx, outcome, aggregator.Resolved(), len(specs))
	}

	report, err := aggregator.Finalize()
	if err != nil {
		return fmt.Errorf("finalize report: %w", err)
	}

	path, err := w.store.Save(ctx, args.Reports, report)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("Mutation run finished", "run", report.RunID, "total", report.Total, "score", report.Score, "report", path)

	w.ui.DisplayReport(ctx, report)
	w.ui.Wait(ctx)

	return nil
}

// List renders the mutants that a run would execute, without executing them.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	pkg, err := w.loadModel(ctx, args.ModelPath, args.DumpCommand, args.PackageRoot)
	if err != nil {
		return err
	}

	specs, err := w.generate(ctx, pkg, args.Modules, args.Functions, args.IncludeOperators, args.ExcludeOperators)
	if err != nil {
		return err
	}

	if err := w.ui.Start(ctx, controller.WithEstimateMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}

	defer w.ui.Close(ctx)

	w.ui.DisplayEstimation(ctx, specs)
	w.ui.Wait(ctx)

	return nil
}

// View renders a stored report.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	path := args.Report

	if path == "" {
		paths, err := w.store.List(ctx, args.Reports)
		if err != nil {
			return err
		}

		if len(paths) == 0 {
			return fmt.Errorf("no reports found in %s", args.Reports)
		}

		path = paths[len(paths)-1]
	}

	report, err := w.store.Load(ctx, path)
	if err != nil {
		return err
	}

	if err := w.ui.Start(ctx, controller.WithEstimateMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}

	defer w.ui.Close(ctx)

	w.ui.DisplayReport(ctx, report)
	w.ui.Wait(ctx)

	return nil
}

// Merge unions shard reports into one and saves the result.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	inputs := args.Inputs

	if len(inputs) == 0 {
		paths, err := w.store.List(ctx, args.Reports)
		if err != nil {
			return err
		}

		inputs = paths
	}

	if len(inputs) == 0 {
		return fmt.Errorf("nothing to merge in %s", args.Reports)
	}

	reports := make([]m.MutationReport, 0, len(inputs))

	for _, path := range inputs {
		report, err := w.store.Load(ctx, path)
		if err != nil {
			return err
		}

		reports = append(reports, report)
	}

	merged := m.MergeReports(args.Policy, reports...)

	path, err := w.store.Save(ctx, args.Reports, merged)
	if err != nil {
		return fmt.Errorf("save merged report: %w", err)
	}

	slog.Info("Merged shard reports", "inputs", len(reports), "report", path)

	return nil
}

func (w *workflow) loadModel(ctx context.Context, modelPath m.Path, dumpCommand string, packageRoot m.Path) (*m.PackageModel, error) {
	if modelPath != "" {
		pkg, err := w.loader.LoadFile(ctx, modelPath)
		if err != nil {
			return nil, err
		}

		return pkg, nil
	}

	root, err := w.fs.FindPackageRoot(ctx, packageRoot)
	if err != nil {
		return nil, err
	}

	return w.loader.LoadCommand(ctx, dumpCommand, root)
}

func (w *workflow) generate(
	ctx context.Context,
	pkg *m.PackageModel,
	modules, functions []string,
	include, exclude []m.OperatorKind,
) ([]m.MutantSpec, error) {
	catalog, err := operators.DefaultCatalog().Select(include, exclude)
	if err != nil {
		return nil, err
	}

	generator := NewGenerator(w.fs, catalog)

	specs, err := generator.Generate(ctx, pkg, ScopeFilter{Modules: modules, Functions: functions})
	if err != nil {
		return nil, fmt.Errorf("generate mutants: %w", err)
	}

	slog.Debug("Generated mutants", "count", len(specs))

	return specs, nil
}

// shardSpecs selects this shard's slice of the generation order using
// round-robin assignment on the generation index.
func shardSpecs(specs []m.MutantSpec, shardIndex, totalShards int) []m.MutantSpec {
	if totalShards <= 1 {
		return specs
	}

	var shard []m.MutantSpec

	for _, spec := range specs {
		if spec.Index%totalShards == shardIndex {
			shard = append(shard, spec)
		}
	}

	return shard
}
