package operators

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/movemut/movemut/internal/model"
)

func numericLiteral(text string) *m.Node {
	return &m.Node{
		Kind: m.NodeLiteral,
		Text: text,
		Span: m.Span{Start: 30, End: 30 + len(text), Line: 4},
		Type: m.TypeNumeric,
	}
}

func TestLiteral(t *testing.T) {
	op := Literal()

	t.Run("replaces with boundary values and successor", func(t *testing.T) {
		candidates := op.Candidates(numericLiteral("42"))

		replacements := make([]string, 0, len(candidates))
		for _, candidate := range candidates {
			replacements = append(replacements, candidate.Replacement)
		}

		require.Equal(t, []string{"0", "1", "43"}, replacements)
	})

	t.Run("keeps the type suffix", func(t *testing.T) {
		candidates := op.Candidates(numericLiteral("42u64"))

		replacements := make([]string, 0, len(candidates))
		for _, candidate := range candidates {
			replacements = append(replacements, candidate.Replacement)
		}

		require.Equal(t, []string{"0u64", "1u64", "43u64"}, replacements)
	})

	t.Run("never emits the original text", func(t *testing.T) {
		for _, text := range []string{"0", "1", "0u8", "1u128"} {
			for _, candidate := range op.Candidates(numericLiteral(text)) {
				require.NotEqual(t, text, candidate.Replacement)
			}
		}
	})

	t.Run("rejects non-numeric nodes", func(t *testing.T) {
		require.False(t, op.Matches(&m.Node{Kind: m.NodeLiteral, Text: "true", Type: m.TypeBoolean}))
		require.False(t, op.Matches(&m.Node{Kind: m.NodeBinary, Op: "+", Type: m.TypeNumeric}))
	})
}

func TestBoolLiteral(t *testing.T) {
	op := BoolLiteral()

	node := &m.Node{
		Kind: m.NodeLiteral,
		Text: "true",
		Span: m.Span{Start: 12, End: 16, Line: 2},
		Type: m.TypeBoolean,
	}

	require.True(t, op.Matches(node))

	candidates := op.Candidates(node)
	require.Len(t, candidates, 1)
	require.Equal(t, "false", candidates[0].Replacement)

	node.Text = "false"
	node.Span.End = node.Span.Start + len(node.Text)

	candidates = op.Candidates(node)
	require.Len(t, candidates, 1)
	require.Equal(t, "true", candidates[0].Replacement)
}

func TestSplitLiteral(t *testing.T) {
	tests := []struct {
		text   string
		value  string
		suffix string
	}{
		{"42", "42", ""},
		{"42u8", "42", "u8"},
		{"7u64", "7", "u64"},
		{"1u128", "1", "u128"},
		{"u64", "u64", ""}, // bare suffix is not a literal with suffix
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			value, suffix := splitLiteral(tt.text)
			require.Equal(t, tt.value, value)
			require.Equal(t, tt.suffix, suffix)
		})
	}
}
