package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/movemut/movemut/internal/model"
)

const counterSource = `module demo::counter {
    fun bump(value: u64, limit: u64): u64 {
        if (value < limit) {
            value + 7
        } else {
            value
        }
    }
}
`

// writeCounterPackage lays out a minimal Move package in a temp directory and
// returns its root and the path of the single source file.
func writeCounterPackage(t *testing.T) (root, file m.Path) {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Move.toml"), []byte("[package]\nname = \"demo\"\n"), 0o600))

	sources := filepath.Join(dir, "sources")
	require.NoError(t, os.MkdirAll(sources, 0o750))

	path := filepath.Join(sources, "counter.move")
	require.NoError(t, os.WriteFile(path, []byte(counterSource), 0o600))

	return m.Path(dir), m.Path(path)
}

func spanAt(t *testing.T, source, token string) m.Span {
	t.Helper()

	idx := strings.Index(source, token)
	require.GreaterOrEqual(t, idx, 0, "token %q not in fixture source", token)

	return m.Span{Start: idx, End: idx + len(token), Line: 1 + strings.Count(source[:idx], "\n")}
}

// counterModel hand-builds the resolved representation the compiler frontend
// would dump for counterSource: one comparison, one addition, one literal.
func counterModel(t *testing.T, root, file m.Path) *m.PackageModel {
	t.Helper()

	seven := &m.Node{
		Kind: m.NodeLiteral,
		Text: "7",
		Span: spanAt(t, counterSource, "7"),
		Type: m.TypeNumeric,
	}

	plus := &m.Node{
		Kind:     m.NodeBinary,
		Op:       "+",
		Span:     spanAt(t, counterSource, "value + 7"),
		OpSpan:   spanAt(t, counterSource, "+"),
		Type:     m.TypeNumeric,
		Children: []*m.Node{seven},
	}

	less := &m.Node{
		Kind:   m.NodeBinary,
		Op:     "<",
		Span:   spanAt(t, counterSource, "value < limit"),
		OpSpan: spanAt(t, counterSource, "<"),
		Type:   m.TypeBoolean,
	}

	return &m.PackageModel{
		Root: root,
		Modules: []m.Module{{
			Name: "counter",
			Functions: []m.Function{{
				Name:   "bump",
				Module: "counter",
				File:   file,
				Span:   spanAt(t, counterSource, "fun bump"),
				Body:   []*m.Node{less, plus},
			}},
		}},
	}
}
