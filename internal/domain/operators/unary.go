package operators

import (
	m "github.com/movemut/movemut/internal/model"
)

// UnaryDrop removes a boolean negation operator, turning !x into x.
func UnaryDrop() Operator {
	return Operator{
		Kind: m.OperatorUnaryDrop,
		Matches: func(node *m.Node) bool {
			return node.Kind == m.NodeUnary && node.Op == "!" && node.Type == m.TypeBoolean
		},
		Candidates: func(node *m.Node) []Candidate {
			return []Candidate{{
				Span:        node.OpSpan,
				Original:    node.Op,
				Replacement: "",
			}}
		},
	}
}
