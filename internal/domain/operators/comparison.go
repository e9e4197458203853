package operators

import (
	m "github.com/movemut/movemut/internal/model"
)

// comparisonComplements maps each comparison operator to its logical
// complement. Flipping to the complement guarantees the mutant differs on
// every input pair, which a plain operator swap does not.
var comparisonComplements = map[string]string{
	"<":  ">=",
	">":  "<=",
	"<=": ">",
	">=": "<",
	"==": "!=",
	"!=": "==",
}

// CompareFlip replaces a comparison operator with its complement, producing
// exactly one candidate per matched node.
func CompareFlip() Operator {
	return Operator{
		Kind: m.OperatorCompareFlip,
		Matches: func(node *m.Node) bool {
			if node.Kind != m.NodeBinary {
				return false
			}

			_, ok := comparisonComplements[node.Op]

			return ok
		},
		Candidates: func(node *m.Node) []Candidate {
			return []Candidate{{
				Span:        node.OpSpan,
				Original:    node.Op,
				Replacement: comparisonComplements[node.Op],
			}}
		},
	}
}
