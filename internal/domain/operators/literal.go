package operators

import (
	"strconv"
	"strings"

	m "github.com/movemut/movemut/internal/model"
)

// Literal replaces a numeric literal with boundary values: 0, 1, and the
// successor of the original value. Candidates textually equal to the original
// are dropped, so every emitted mutant is a real change.
func Literal() Operator {
	return Operator{
		Kind: m.OperatorLiteral,
		Matches: func(node *m.Node) bool {
			return node.Kind == m.NodeLiteral && node.Type == m.TypeNumeric && node.Text != ""
		},
		Candidates: func(node *m.Node) []Candidate {
			value, suffix := splitLiteral(node.Text)

			replacements := []string{"0" + suffix, "1" + suffix}
			if parsed, err := strconv.ParseUint(value, 0, 64); err == nil {
				replacements = append(replacements, strconv.FormatUint(parsed+1, 10)+suffix)
			}

			var candidates []Candidate

			seen := map[string]struct{}{}

			for _, replacement := range replacements {
				if replacement == node.Text {
					continue
				}

				if _, ok := seen[replacement]; ok {
					continue
				}
				seen[replacement] = struct{}{}

				candidates = append(candidates, Candidate{
					Span:        node.Span,
					Original:    node.Text,
					Replacement: replacement,
				})
			}

			return candidates
		},
	}
}

// BoolLiteral flips a boolean literal.
func BoolLiteral() Operator {
	return Operator{
		Kind: m.OperatorBoolLiteral,
		Matches: func(node *m.Node) bool {
			return node.Kind == m.NodeLiteral && node.Type == m.TypeBoolean &&
				(node.Text == "true" || node.Text == "false")
		},
		Candidates: func(node *m.Node) []Candidate {
			replacement := "false"
			if node.Text == "false" {
				replacement = "true"
			}

			return []Candidate{{
				Span:        node.Span,
				Original:    node.Text,
				Replacement: replacement,
			}}
		},
	}
}

// moveIntSuffixes are the literal type suffixes Move allows, longest first so
// u128 is not split as u12+8.
var moveIntSuffixes = []string{"u128", "u256", "u16", "u32", "u64", "u8"}

// splitLiteral separates a Move integer literal into its value and optional
// type suffix (e.g. "42u64" -> "42", "u64").
func splitLiteral(text string) (value, suffix string) {
	for _, s := range moveIntSuffixes {
		if strings.HasSuffix(text, s) && len(text) > len(s) {
			return text[:len(text)-len(s)], s
		}
	}

	return text, ""
}
