package model

import (
	"crypto/sha256"
	"fmt"
)

// OperatorKind identifies the mutation operator that produced a mutant.
type OperatorKind string

const (
	// OperatorBinarySwap swaps an arithmetic operator (+, -, *, /, %).
	OperatorBinarySwap OperatorKind = "binary-swap"
	// OperatorCompareFlip replaces a comparison with its complement.
	OperatorCompareFlip OperatorKind = "compare-flip"
	// OperatorLogicalSwap swaps && and ||.
	OperatorLogicalSwap OperatorKind = "logical-swap"
	// OperatorUnaryDrop removes a boolean negation.
	OperatorUnaryDrop OperatorKind = "unary-drop"
	// OperatorLiteral replaces a numeric literal.
	OperatorLiteral OperatorKind = "literal"
	// OperatorBoolLiteral flips a boolean literal.
	OperatorBoolLiteral OperatorKind = "bool-literal"
	// OperatorDeleteStmt removes a deletable statement.
	OperatorDeleteStmt OperatorKind = "delete-stmt"
)

// AllOperatorKinds lists every registered kind in catalog order.
func AllOperatorKinds() []OperatorKind {
	return []OperatorKind{
		OperatorBinarySwap,
		OperatorCompareFlip,
		OperatorLogicalSwap,
		OperatorUnaryDrop,
		OperatorLiteral,
		OperatorBoolLiteral,
		OperatorDeleteStmt,
	}
}

// Valid reports whether k is a known operator kind.
func (k OperatorKind) Valid() bool {
	for _, known := range AllOperatorKinds() {
		if k == known {
			return true
		}
	}

	return false
}

// MutantSpec is the immutable description of one candidate mutation. It is
// created by the generator and owned by the orchestrator for the duration of
// a run.
type MutantSpec struct {
	// ID is a stable identifier derived from file, span, operator and
	// replacement. Identical inputs always yield identical IDs.
	ID string `yaml:"id"`
	// Index is the position in the deterministic generation order.
	Index int `yaml:"index"`

	File     Path   `yaml:"file"`
	Module   string `yaml:"module"`
	Function string `yaml:"function"`
	Span     Span   `yaml:"span"`

	Operator    OperatorKind `yaml:"operator"`
	Original    string       `yaml:"original"`
	Replacement string       `yaml:"replacement"`
}

// mutantIDLen is the number of hex characters kept from the digest. Twelve
// characters keep IDs short enough for reports while collisions within a
// single package stay out of reach.
const mutantIDLen = 12

// MutantID computes the stable identifier for a mutation of file at span.
func MutantID(file Path, span Span, operator OperatorKind, replacement string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d|%s|%s", file, span.Start, span.End, operator, replacement))
	return fmt.Sprintf("%x", sum)[:mutantIDLen]
}
