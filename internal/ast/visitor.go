package ast

// Visitor dispatches a Stmt to the handler registered for its StmtClass,
// falling back through the parent-class chain spec.md §4.4 describes
// ("operator nodes dispatch first on StmtClass, then on Opcode; a visitor
// that only registers BinaryOperator still sees every opcode"). R is the
// result type produced by a visit.
//
// A Visitor is built once with NewVisitor, populated with On* registrations, and
// is safe to reuse across many Visit calls; it carries no per-visit state
// of its own.
type Visitor[R any] struct {
	handlers map[StmtClass]func(Stmt) R
	byBinOp  map[BinaryOpcode]func(*BinaryOperatorNode) R
	byUnOp   map[UnaryOpcode]func(*UnaryOperatorNode) R
	fallback func(Stmt) R
}

// NewVisitor constructs an empty Visitor. fallback is invoked when no
// handler (class or opcode-specific) matches a node.
func NewVisitor[R any](fallback func(Stmt) R) *Visitor[R] {
	return &Visitor[R]{
		handlers: make(map[StmtClass]func(Stmt) R),
		byBinOp:  make(map[BinaryOpcode]func(*BinaryOperatorNode) R),
		byUnOp:   make(map[UnaryOpcode]func(*UnaryOperatorNode) R),
		fallback: fallback,
	}
}

// On registers a handler for every node of the given StmtClass.
func (v *Visitor[R]) On(class StmtClass, fn func(Stmt) R) *Visitor[R] {
	v.handlers[class] = fn
	return v
}

// OnBinaryOp registers a handler for BinaryOperator nodes carrying the
// given opcode, taking priority over a plain On(BinaryOperator, ...)
// registration for that opcode — this is the "nested match over opcode"
// level of spec.md §4.4's two-level dispatch.
func (v *Visitor[R]) OnBinaryOp(op BinaryOpcode, fn func(*BinaryOperatorNode) R) *Visitor[R] {
	v.byBinOp[op] = fn
	return v
}

// OnUnaryOp registers a handler for UnaryOperator nodes carrying the
// given opcode, taking priority over a plain On(UnaryOperator, ...)
// registration for that opcode.
func (v *Visitor[R]) OnUnaryOp(op UnaryOpcode, fn func(*UnaryOperatorNode) R) *Visitor[R] {
	v.byUnOp[op] = fn
	return v
}

// Visit dispatches n: first by (StmtClass, Opcode) for operator nodes,
// then by plain StmtClass, then to the fallback. Every Stmt is handled by
// at least the fallback, so Visit is total over the node set (testable
// property 7).
func (v *Visitor[R]) Visit(n Stmt) R {
	switch node := n.(type) {
	case *BinaryOperatorNode:
		if fn, ok := v.byBinOp[node.Op]; ok {
			return fn(node)
		}
	case *UnaryOperatorNode:
		if fn, ok := v.byUnOp[node.Op]; ok {
			return fn(node)
		}
	}
	if fn, ok := v.handlers[n.Class()]; ok {
		return fn(n)
	}
	return v.fallback(n)
}
