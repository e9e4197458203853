package operators

import (
	m "github.com/movemut/movemut/internal/model"
)

// LogicalSwap exchanges the short-circuit operators && and ||. It requires a
// boolean binary expression.
func LogicalSwap() Operator {
	return Operator{
		Kind: m.OperatorLogicalSwap,
		Matches: func(node *m.Node) bool {
			return node.Kind == m.NodeBinary && node.Type == m.TypeBoolean &&
				(node.Op == "&&" || node.Op == "||")
		},
		Candidates: func(node *m.Node) []Candidate {
			replacement := "||"
			if node.Op == "||" {
				replacement = "&&"
			}

			return []Candidate{{
				Span:        node.OpSpan,
				Original:    node.Op,
				Replacement: replacement,
			}}
		},
	}
}
