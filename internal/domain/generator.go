package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/movemut/movemut/internal/adapter"
	"github.com/movemut/movemut/internal/domain/operators"
	m "github.com/movemut/movemut/internal/model"
)

// ScopeFilter restricts generation to named modules and functions. Empty
// lists mean no restriction.
type ScopeFilter struct {
	Modules   []string
	Functions []string
}

// ParseFilterList parses a user-supplied filter value: "all" (or empty)
// selects everything, otherwise names are split on comma or semicolon.
func ParseFilterList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return nil
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})

	names := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	return names
}

// MatchModule reports whether the module passes the filter.
func (f ScopeFilter) MatchModule(name string) bool {
	return matchName(f.Modules, name)
}

// MatchFunction reports whether the function passes the filter.
func (f ScopeFilter) MatchFunction(name string) bool {
	return matchName(f.Functions, name)
}

func matchName(names []string, name string) bool {
	if len(names) == 0 {
		return true
	}

	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}

	return false
}

// Generator walks the resolved package model and applies the operator
// catalog, emitting a deterministic sequence of mutant specs.
type Generator struct {
	fs      adapter.SourceFSAdapter
	catalog *operators.Catalog
}

// NewGenerator constructs a Generator over the given catalog.
func NewGenerator(fs adapter.SourceFSAdapter, catalog *operators.Catalog) *Generator {
	return &Generator{fs: fs, catalog: catalog}
}

// Generate produces the ordered mutant sequence for every function reachable
// under filter. Ordering is model order, then depth-first node order, then
// operator registration order, then candidate order, so unchanged input
// always yields an identical sequence with identical IDs. Nodes inside
// specification blocks are excluded: mutating the oracle would invalidate the
// kill signal. An empty result is not an error.
func (g *Generator) Generate(ctx context.Context, pkg *m.PackageModel, filter ScopeFilter) ([]m.MutantSpec, error) {
	if pkg == nil {
		return nil, fmt.Errorf("nil package model")
	}

	var specs []m.MutantSpec

	contents := map[m.Path][]byte{}

	for _, module := range pkg.Modules {
		if !filter.MatchModule(module.Name) {
			continue
		}

		for _, function := range module.Functions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if !filter.MatchFunction(function.Name) {
				continue
			}

			content, err := g.fileContent(ctx, contents, function.File)
			if err != nil {
				return nil, err
			}

			specs = append(specs, g.generateForFunction(function, content, len(specs))...)
		}
	}

	return specs, nil
}

func (g *Generator) fileContent(ctx context.Context, cache map[m.Path][]byte, path m.Path) ([]byte, error) {
	if content, ok := cache[path]; ok {
		return content, nil
	}

	content, err := g.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}

	cache[path] = content

	return content, nil
}

func (g *Generator) generateForFunction(function m.Function, content []byte, nextIndex int) []m.MutantSpec {
	var specs []m.MutantSpec

	for _, root := range function.Body {
		m.Walk(root, func(node *m.Node) {
			if inSpecBlock(function.SpecSpans, node.Span) {
				return
			}

			for _, op := range g.catalog.Operators() {
				if !op.Matches(node) {
					continue
				}

				for _, candidate := range op.Candidates(node) {
					spec, ok := g.buildSpec(function, content, op.Kind, candidate, nextIndex+len(specs))
					if !ok {
						continue
					}

					specs = append(specs, spec)
				}
			}
		})
	}

	return specs
}

func (g *Generator) buildSpec(function m.Function, content []byte, kind m.OperatorKind, candidate operators.Candidate, index int) (m.MutantSpec, bool) {
	span := candidate.Span
	if span.Start < 0 || span.End > len(content) || span.Start > span.End {
		slog.Warn("Mutant span out of range, skipping node",
			"file", function.File, "function", function.Name, "operator", kind,
			"start", span.Start, "end", span.End)

		return m.MutantSpec{}, false
	}

	// Round-trip check: the model's recorded text must still be on disk.
	// Drift here means the dump is stale; the node is skipped, not fatal.
	if actual := string(content[span.Start:span.End]); actual != candidate.Original {
		slog.Warn("Source text drifted since model dump, skipping node",
			"file", function.File, "function", function.Name, "operator", kind,
			"want", candidate.Original, "got", actual)

		return m.MutantSpec{}, false
	}

	if candidate.Replacement == candidate.Original {
		return m.MutantSpec{}, false
	}

	return m.MutantSpec{
		ID:          m.MutantID(function.File, span, kind, candidate.Replacement),
		Index:       index,
		File:        function.File,
		Module:      function.Module,
		Function:    function.Name,
		Span:        span,
		Operator:    kind,
		Original:    candidate.Original,
		Replacement: candidate.Replacement,
	}, true
}

func inSpecBlock(specSpans []m.Span, span m.Span) bool {
	for _, spec := range specSpans {
		if spec.Overlaps(span) {
			return true
		}
	}

	return false
}
