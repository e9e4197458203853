// Package operators provides the mutation operator catalog. Each operator is
// a pure (predicate, candidates) pair over the resolved module representation;
// new kinds register without touching existing ones.
package operators

import (
	"fmt"

	m "github.com/movemut/movemut/internal/model"
)

// Candidate is one proposed replacement for a matched node. The replacement
// is never textually identical to the original.
type Candidate struct {
	Span        m.Span
	Original    string
	Replacement string
}

// Operator couples an operator kind with its applicability predicate and its
// candidate generator. Both functions are pure and deterministic.
type Operator struct {
	Kind       m.OperatorKind
	Matches    func(node *m.Node) bool
	Candidates func(node *m.Node) []Candidate
}

// Catalog is an ordered registry of operators. Iteration order is the
// registration order, which is part of the generation determinism guarantee.
type Catalog struct {
	ops   []Operator
	kinds map[m.OperatorKind]struct{}
}

// NewCatalog builds an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{kinds: map[m.OperatorKind]struct{}{}}
}

// DefaultCatalog returns a catalog with every built-in operator registered in
// canonical order.
func DefaultCatalog() *Catalog {
	catalog := NewCatalog()

	for _, op := range []Operator{
		BinarySwap(),
		CompareFlip(),
		LogicalSwap(),
		UnaryDrop(),
		Literal(),
		BoolLiteral(),
		DeleteStmt(),
	} {
		// Built-in kinds are distinct, registration cannot fail.
		_ = catalog.Register(op)
	}

	return catalog
}

// Register appends an operator to the catalog. Registering a kind twice is an
// error so existing operators can never be shadowed.
func (c *Catalog) Register(op Operator) error {
	if op.Kind == "" || op.Matches == nil || op.Candidates == nil {
		return fmt.Errorf("operator %q is incomplete", op.Kind)
	}

	if _, ok := c.kinds[op.Kind]; ok {
		return fmt.Errorf("operator %q already registered", op.Kind)
	}

	c.kinds[op.Kind] = struct{}{}
	c.ops = append(c.ops, op)

	return nil
}

// Operators returns the registered operators in registration order.
func (c *Catalog) Operators() []Operator {
	return c.ops
}

// Len returns the number of registered operators.
func (c *Catalog) Len() int {
	return len(c.ops)
}

// Select returns a catalog restricted to the given kinds. An empty include
// list keeps everything; exclude wins over include. Unknown kinds in either
// list are an error so typos surface instead of silently widening a run.
func (c *Catalog) Select(include, exclude []m.OperatorKind) (*Catalog, error) {
	for _, kind := range append(append([]m.OperatorKind{}, include...), exclude...) {
		if _, ok := c.kinds[kind]; !ok {
			return nil, fmt.Errorf("unknown operator kind: %s", kind)
		}
	}

	included := func(kind m.OperatorKind) bool {
		if len(include) == 0 {
			return true
		}

		for _, k := range include {
			if k == kind {
				return true
			}
		}

		return false
	}

	excluded := func(kind m.OperatorKind) bool {
		for _, k := range exclude {
			if k == kind {
				return true
			}
		}

		return false
	}

	selected := NewCatalog()

	for _, op := range c.ops {
		if included(op.Kind) && !excluded(op.Kind) {
			_ = selected.Register(op)
		}
	}

	return selected, nil
}
