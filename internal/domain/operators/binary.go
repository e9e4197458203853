package operators

import (
	m "github.com/movemut/movemut/internal/model"
)

var arithmeticOps = []string{"+", "-", "*", "/", "%"}

// BinarySwap swaps an arithmetic operator for each of the remaining four.
// It only applies to binary expressions whose static type is numeric.
func BinarySwap() Operator {
	return Operator{
		Kind: m.OperatorBinarySwap,
		Matches: func(node *m.Node) bool {
			return node.Kind == m.NodeBinary && node.Type == m.TypeNumeric && isArithmeticOp(node.Op)
		},
		Candidates: func(node *m.Node) []Candidate {
			candidates := make([]Candidate, 0, len(arithmeticOps)-1)

			for _, op := range arithmeticOps {
				if op == node.Op {
					continue
				}

				candidates = append(candidates, Candidate{
					Span:        node.OpSpan,
					Original:    node.Op,
					Replacement: op,
				})
			}

			return candidates
		},
	}
}

func isArithmeticOp(op string) bool {
	for _, known := range arithmeticOps {
		if op == known {
			return true
		}
	}

	return false
}
