package operators

import (
	m "github.com/movemut/movemut/internal/model"
)

// DeleteStmt removes a statement the frontend marked as deletable (break,
// continue, side-effecting calls). Statements whose removal would leave the
// function ill formed never carry the flag.
func DeleteStmt() Operator {
	return Operator{
		Kind: m.OperatorDeleteStmt,
		Matches: func(node *m.Node) bool {
			return node.Kind == m.NodeStmt && node.Deletable && node.Text != ""
		},
		Candidates: func(node *m.Node) []Candidate {
			return []Candidate{{
				Span:        node.Span,
				Original:    node.Text,
				Replacement: "",
			}}
		},
	}
}
