package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/movemut/movemut/internal/adapter"
	m "github.com/movemut/movemut/internal/model"
)

// Workspace is a scoped handle to one materialized mutant: a full, isolated
// copy of the package with the mutation applied. Release removes the copy and
// is safe to call more than once.
type Workspace struct {
	Root m.Path

	fs       adapter.SourceFSAdapter
	released sync.Once
}

// Release deletes the temporary copy. Callers defer it immediately after
// materialization so the copy goes away on every exit path.
func (w *Workspace) Release(ctx context.Context) {
	w.released.Do(func() {
		if err := w.fs.RemoveAll(ctx, w.Root); err != nil {
			slog.Error("Failed to remove mutant workspace", "root", w.Root, "error", err)
		}
	})
}

// Materializer produces isolated patched copies of the package under test.
// Concurrent mutants never share a workspace, so no locking is needed
// between them.
type Materializer struct {
	fs          adapter.SourceFSAdapter
	packageRoot m.Path
}

// NewMaterializer constructs a Materializer for the package at root.
func NewMaterializer(fs adapter.SourceFSAdapter, packageRoot m.Path) *Materializer {
	return &Materializer{fs: fs, packageRoot: packageRoot}
}

// Materialize copies the package into a fresh temp directory and applies the
// mutant's byte-range substitution. The span is re-read before substitution;
// if the underlying source drifted since generation, ErrSpanMismatch is
// returned and the copy is removed. Filesystem failures are retried once.
func (mat *Materializer) Materialize(ctx context.Context, spec m.MutantSpec) (*Workspace, error) {
	ws, err := mat.materializeOnce(ctx, spec)
	if err == nil || errors.Is(err, ErrSpanMismatch) || ctx.Err() != nil {
		return ws, err
	}

	slog.Warn("Materialization failed, retrying once", "mutant", spec.ID, "error", err)

	return mat.materializeOnce(ctx, spec)
}

func (mat *Materializer) materializeOnce(ctx context.Context, spec m.MutantSpec) (*Workspace, error) {
	tmpDir, err := mat.fs.CreateTempDir(ctx, "movemut-mutant-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkspace, err)
	}

	ws := &Workspace{Root: tmpDir, fs: mat.fs}

	if err := mat.fs.CopyDir(ctx, mat.packageRoot, tmpDir); err != nil {
		ws.Release(ctx)
		return nil, fmt.Errorf("copy package to workspace: %w", err)
	}

	if err := mat.patch(ctx, ws, spec); err != nil {
		ws.Release(ctx)
		return nil, err
	}

	return ws, nil
}

func (mat *Materializer) patch(ctx context.Context, ws *Workspace, spec m.MutantSpec) error {
	relPath, err := mat.fs.RelPath(ctx, mat.packageRoot, spec.File)
	if err != nil {
		return fmt.Errorf("resolve source path %s: %w", spec.File, err)
	}

	target := mat.fs.JoinPath(ctx, string(ws.Root), string(relPath))

	content, err := mat.fs.ReadFile(ctx, target)
	if err != nil {
		return fmt.Errorf("read workspace source %s: %w", target, err)
	}

	if spec.Span.Start < 0 || spec.Span.End > len(content) {
		return fmt.Errorf("%w: span [%d,%d) outside %s", ErrSpanMismatch, spec.Span.Start, spec.Span.End, spec.File)
	}

	if actual := string(content[spec.Span.Start:spec.Span.End]); actual != spec.Original {
		return fmt.Errorf("%w: expected %q at [%d,%d) of %s, found %q",
			ErrSpanMismatch, spec.Original, spec.Span.Start, spec.Span.End, spec.File, actual)
	}

	patched := make([]byte, 0, len(content)-spec.Span.Len()+len(spec.Replacement))
	patched = append(patched, content[:spec.Span.Start]...)
	patched = append(patched, spec.Replacement...)
	patched = append(patched, content[spec.Span.End:]...)

	if err := mat.fs.WriteFile(ctx, target, patched, 0o600); err != nil {
		return fmt.Errorf("write mutated source %s: %w", target, err)
	}

	return nil
}
