package decl

import "github.com/oxhq/ccore/internal/source"

// ScopeKind is a bitmap of the roles a Scope frame can simultaneously
// play, per spec.md §4.3. A block that is also a function body, for
// instance, carries both FnScopeKind and BlockScopeKind.
type ScopeKind uint32

const (
	DeclScopeKind ScopeKind = 1 << iota
	FnScopeKind
	FunctionPrototypeScopeKind
	BlockScopeKind
	ControlScopeKind
	ClassScopeKind
	BreakScopeKind
	ContinueScopeKind
	CatchScopeKind
	TemplateParamScopeKind
)

// Has reports whether every bit in want is set in k.
func (k ScopeKind) Has(want ScopeKind) bool { return k&want == want }

// Scope is one stack frame of the active lexical nesting. The innermost
// scope owns the set of decls introduced within it so ScopeStack.Pop can
// unshadow them from the identifier resolver chains.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	Depth  int

	declared []DeclID // decls introduced directly in this scope, in order
}

// IsFunctionScope reports whether this or an enclosing scope up to the
// nearest function boundary carries FnScopeKind.
func (s *Scope) IsFunctionScope() bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Kind.Has(FnScopeKind) {
			return true
		}
		if sc.Kind.Has(ClassScopeKind) {
			return false
		}
	}
	return false
}

// ScopeStack threads the currently active Scope chain through parsing, per
// spec.md §4.3 ("the active scope is threaded through every parser
// action"). A fresh ScopeStack starts with no scopes; Push(DeclScopeKind)
// establishes the translation-unit scope.
type ScopeStack struct {
	top   *Scope
	depth int
}

// NewScopeStack returns an empty stack.
func NewScopeStack() *ScopeStack { return &ScopeStack{} }

// Push enters a new scope of kind, nested under the current top.
func (ss *ScopeStack) Push(kind ScopeKind) *Scope {
	s := &Scope{Kind: kind, Parent: ss.top, Depth: ss.depth}
	ss.top = s
	ss.depth++
	return s
}

// Top returns the innermost active scope, or nil if the stack is empty.
func (ss *ScopeStack) Top() *Scope { return ss.top }

// IsEmpty reports whether no scope is currently active — the postcondition
// testable property 8 requires after a translation unit parses cleanly.
func (ss *ScopeStack) IsEmpty() bool { return ss.top == nil }

// Declare records id as introduced in the innermost scope, so Pop can
// unshadow it later.
func (ss *ScopeStack) Declare(id DeclID) {
	if ss.top != nil {
		ss.top.declared = append(ss.top.declared, id)
	}
}

// Pop leaves the innermost scope, returning the DeclIDs that were declared
// directly within it (for the caller — typically DeclTable — to unshadow
// from the identifier resolver chains).
func (ss *ScopeStack) Pop() []DeclID {
	if ss.top == nil {
		panic(&source.InvariantError{Msg: "decl: Pop on empty ScopeStack"})
	}
	declared := ss.top.declared
	ss.top = ss.top.Parent
	ss.depth--
	return declared
}
