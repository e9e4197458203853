// Package model defines the data structures for mutation testing of Move packages.
package model

// Path represents a file system path.
type Path string

// Span is a half-open byte range [Start, End) into a source file, with the
// 1-based line of its first byte kept for reporting.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	Line  int `json:"line" yaml:"line"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the span fully covers other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// TypeClass is the coarse static type of an expression, as resolved by the
// Move compiler frontend. Operators use it to reject nodes they cannot
// safely transform.
type TypeClass string

const (
	// TypeNumeric covers the Move integer types (u8..u256).
	TypeNumeric TypeClass = "numeric"
	// TypeBoolean covers bool expressions.
	TypeBoolean TypeClass = "boolean"
	// TypeOther covers everything else (addresses, vectors, structs, ...).
	TypeOther TypeClass = "other"
)

// NodeKind identifies the shape of a model node.
type NodeKind string

const (
	// NodeBinary is a binary expression (arithmetic, comparison, logical).
	NodeBinary NodeKind = "binary"
	// NodeUnary is a unary expression (negation).
	NodeUnary NodeKind = "unary"
	// NodeLiteral is a numeric or boolean literal.
	NodeLiteral NodeKind = "literal"
	// NodeStmt is a statement (assignment, call, break, continue, ...).
	NodeStmt NodeKind = "stmt"
	// NodeBlock groups child nodes without carrying mutable text itself.
	NodeBlock NodeKind = "block"
)

// Node is one node of the resolved module representation handed over by the
// Move compiler frontend. The engine treats it as read-only.
type Node struct {
	Kind NodeKind `json:"kind"`
	// Span covers the whole node.
	Span Span `json:"span"`
	// OpSpan covers only the operator token for binary/unary nodes.
	OpSpan Span `json:"op_span,omitempty"`
	// Op is the operator token text for binary/unary nodes ("+", "<", "&&", "!").
	Op string `json:"op,omitempty"`
	// Text is the source text at Span as recorded by the frontend. Used for
	// literals and statements where the whole span is the mutation target.
	Text string `json:"text,omitempty"`
	// Type is the static type class of the node's value.
	Type TypeClass `json:"type,omitempty"`
	// Deletable marks statements whose removal keeps the function well formed.
	Deletable bool    `json:"deletable,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Function is one function body reachable for mutation.
type Function struct {
	Name   string  `json:"name"`
	Module string  `json:"module"`
	File   Path    `json:"file"`
	Span   Span    `json:"span"`
	Body   []*Node `json:"body"`
	// SpecSpans are the spans of specification/assertion blocks attached to
	// the function. Nodes inside them are never mutated.
	SpecSpans []Span `json:"spec_spans,omitempty"`
}

// Module is one Move module of the package under test.
type Module struct {
	Name      string     `json:"name"`
	Functions []Function `json:"functions"`
}

// PackageModel is the fully resolved representation of a Move package,
// produced externally by the compiler frontend and loaded from its dump.
type PackageModel struct {
	Root    Path     `json:"root"`
	Modules []Module `json:"modules"`
}

// Walk visits node and all of its descendants depth first, in declaration
// order. This order is part of the determinism guarantee for generation.
func Walk(node *Node, fn func(*Node)) {
	if node == nil {
		return
	}

	fn(node)

	for _, child := range node.Children {
		Walk(child, fn)
	}
}
