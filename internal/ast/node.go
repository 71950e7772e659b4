package ast

import (
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// ValueCategory is an Expr's lvalue/rvalue classification, per spec.md §3.
type ValueCategory int

const (
	RValue ValueCategory = iota
	LValue
)

// Stmt is the common interface every statement and expression node
// satisfies. Expr refines Stmt by additionally carrying a result type and
// value category, per spec.md §3 ("Expr is a refinement of Stmt").
type Stmt interface {
	Class() StmtClass
	Loc() source.SourceLocation
}

// Expr is a Stmt that produces a value.
type Expr interface {
	Stmt
	Type() types.QualType
	ValueCategory() ValueCategory
}

// StmtBase is embedded by every plain-statement node.
type StmtBase struct {
	class StmtClass
	loc   source.SourceLocation
}

func (b *StmtBase) Class() StmtClass            { return b.class }
func (b *StmtBase) Loc() source.SourceLocation   { return b.loc }

// ExprBase is embedded by every expression node, adding the QualType and
// value-category spec.md §3 requires on top of StmtBase.
type ExprBase struct {
	StmtBase
	qualType types.QualType
	valueCat ValueCategory
}

func (b *ExprBase) Type() types.QualType        { return b.qualType }
func (b *ExprBase) ValueCategory() ValueCategory { return b.valueCat }

func newStmtBase(class StmtClass, loc source.SourceLocation) StmtBase {
	return StmtBase{class: class, loc: loc}
}

func newExprBase(class StmtClass, loc source.SourceLocation, qt types.QualType, vc ValueCategory) ExprBase {
	return ExprBase{StmtBase: newStmtBase(class, loc), qualType: qt, valueCat: vc}
}

// --- plain statements ---

// CompoundStmtNode is "{ stmt... }".
type CompoundStmtNode struct {
	StmtBase
	Body []Stmt
}

func NewCompoundStmt(loc source.SourceLocation, body []Stmt) *CompoundStmtNode {
	return &CompoundStmtNode{StmtBase: newStmtBase(CompoundStmt, loc), Body: body}
}

// DeclStmtNode wraps one or more Decls appearing as a statement.
type DeclStmtNode struct {
	StmtBase
	Decls []decl.DeclID
}

func NewDeclStmt(loc source.SourceLocation, decls []decl.DeclID) *DeclStmtNode {
	return &DeclStmtNode{StmtBase: newStmtBase(DeclStmt, loc), Decls: decls}
}

// IfStmtNode is "if (Cond) Then [else Else]".
type IfStmtNode struct {
	StmtBase
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else clause
}

func NewIfStmt(loc source.SourceLocation, cond Expr, then, els Stmt) *IfStmtNode {
	return &IfStmtNode{StmtBase: newStmtBase(IfStmt, loc), Cond: cond, Then: then, Else: els}
}

// SwitchStmtNode is "switch (Cond) Body".
type SwitchStmtNode struct {
	StmtBase
	Cond Expr
	Body Stmt
}

func NewSwitchStmt(loc source.SourceLocation, cond Expr, body Stmt) *SwitchStmtNode {
	return &SwitchStmtNode{StmtBase: newStmtBase(SwitchStmt, loc), Cond: cond, Body: body}
}

// CaseStmtNode is one "case Value: Body" label.
type CaseStmtNode struct {
	StmtBase
	Value Expr
	Body  Stmt
}

func NewCaseStmt(loc source.SourceLocation, value Expr, body Stmt) *CaseStmtNode {
	return &CaseStmtNode{StmtBase: newStmtBase(CaseStmt, loc), Value: value, Body: body}
}

// DefaultStmtNode is "default: Body".
type DefaultStmtNode struct {
	StmtBase
	Body Stmt
}

func NewDefaultStmt(loc source.SourceLocation, body Stmt) *DefaultStmtNode {
	return &DefaultStmtNode{StmtBase: newStmtBase(DefaultStmt, loc), Body: body}
}

// WhileStmtNode is "while (Cond) Body".
type WhileStmtNode struct {
	StmtBase
	Cond Expr
	Body Stmt
}

func NewWhileStmt(loc source.SourceLocation, cond Expr, body Stmt) *WhileStmtNode {
	return &WhileStmtNode{StmtBase: newStmtBase(WhileStmt, loc), Cond: cond, Body: body}
}

// DoStmtNode is "do Body while (Cond);".
type DoStmtNode struct {
	StmtBase
	Body Stmt
	Cond Expr
}

func NewDoStmt(loc source.SourceLocation, body Stmt, cond Expr) *DoStmtNode {
	return &DoStmtNode{StmtBase: newStmtBase(DoStmt, loc), Body: body, Cond: cond}
}

// ForStmtNode is "for (Init; Cond; Inc) Body".
type ForStmtNode struct {
	StmtBase
	Init Stmt // DeclStmt or expression-statement; nil if omitted
	Cond Expr // nil if omitted
	Inc  Expr // nil if omitted
	Body Stmt
}

func NewForStmt(loc source.SourceLocation, init Stmt, cond, inc Expr, body Stmt) *ForStmtNode {
	return &ForStmtNode{StmtBase: newStmtBase(ForStmt, loc), Init: init, Cond: cond, Inc: inc, Body: body}
}

// GotoStmtNode is "goto Label;".
type GotoStmtNode struct {
	StmtBase
	Label string
}

func NewGotoStmt(loc source.SourceLocation, label string) *GotoStmtNode {
	return &GotoStmtNode{StmtBase: newStmtBase(GotoStmt, loc), Label: label}
}

// ContinueStmtNode is "continue;".
type ContinueStmtNode struct{ StmtBase }

func NewContinueStmt(loc source.SourceLocation) *ContinueStmtNode {
	return &ContinueStmtNode{StmtBase: newStmtBase(ContinueStmt, loc)}
}

// BreakStmtNode is "break;".
type BreakStmtNode struct{ StmtBase }

func NewBreakStmt(loc source.SourceLocation) *BreakStmtNode {
	return &BreakStmtNode{StmtBase: newStmtBase(BreakStmt, loc)}
}

// ReturnStmtNode is "return [Value];".
type ReturnStmtNode struct {
	StmtBase
	Value Expr // nil for "return;"
}

func NewReturnStmt(loc source.SourceLocation, value Expr) *ReturnStmtNode {
	return &ReturnStmtNode{StmtBase: newStmtBase(ReturnStmt, loc), Value: value}
}

// LabelStmtNode is "Name: Body".
type LabelStmtNode struct {
	StmtBase
	Name string
	Body Stmt
}

func NewLabelStmt(loc source.SourceLocation, name string, body Stmt) *LabelStmtNode {
	return &LabelStmtNode{StmtBase: newStmtBase(LabelStmt, loc), Name: name, Body: body}
}

// NullStmtNode is a bare ";".
type NullStmtNode struct{ StmtBase }

func NewNullStmt(loc source.SourceLocation) *NullStmtNode {
	return &NullStmtNode{StmtBase: newStmtBase(NullStmt, loc)}
}

// StaticAssertStmtNode is a block-scope static_assert (SUPPLEMENTED, see
// SPEC_FULL.md).
type StaticAssertStmtNode struct {
	StmtBase
	Condition Expr
	Message   string
}

func NewStaticAssertStmt(loc source.SourceLocation, cond Expr, message string) *StaticAssertStmtNode {
	return &StaticAssertStmtNode{StmtBase: newStmtBase(StaticAssertStmt, loc), Condition: cond, Message: message}
}

// --- expressions ---

// IntegerLiteralNode is a literal integer constant.
type IntegerLiteralNode struct {
	ExprBase
	Value uint64
}

func NewIntegerLiteral(loc source.SourceLocation, qt types.QualType, value uint64) *IntegerLiteralNode {
	return &IntegerLiteralNode{ExprBase: newExprBase(IntegerLiteral, loc, qt, RValue), Value: value}
}

// FloatingLiteralNode is a literal floating-point constant.
type FloatingLiteralNode struct {
	ExprBase
	Value float64
}

func NewFloatingLiteral(loc source.SourceLocation, qt types.QualType, value float64) *FloatingLiteralNode {
	return &FloatingLiteralNode{ExprBase: newExprBase(FloatingLiteral, loc, qt, RValue), Value: value}
}

// CharacterLiteralNode is a literal 'c' constant.
type CharacterLiteralNode struct {
	ExprBase
	Value int32
}

func NewCharacterLiteral(loc source.SourceLocation, qt types.QualType, value int32) *CharacterLiteralNode {
	return &CharacterLiteralNode{ExprBase: newExprBase(CharacterLiteral, loc, qt, RValue), Value: value}
}

// StringLiteralNode is a literal "..." constant.
type StringLiteralNode struct {
	ExprBase
	Value string
}

func NewStringLiteral(loc source.SourceLocation, qt types.QualType, value string) *StringLiteralNode {
	return &StringLiteralNode{ExprBase: newExprBase(StringLiteral, loc, qt, LValue), Value: value}
}

// DeclRefExprNode refers to a previously declared entity.
type DeclRefExprNode struct {
	ExprBase
	Decl decl.DeclID
}

func NewDeclRefExpr(loc source.SourceLocation, qt types.QualType, vc ValueCategory, d decl.DeclID) *DeclRefExprNode {
	return &DeclRefExprNode{ExprBase: newExprBase(DeclRefExpr, loc, qt, vc), Decl: d}
}

// MemberExprNode is "Base.Member" or, if Arrow, "Base->Member".
type MemberExprNode struct {
	ExprBase
	Base   Expr
	Member decl.DeclID
	Arrow  bool
}

func NewMemberExpr(loc source.SourceLocation, qt types.QualType, vc ValueCategory, base Expr, member decl.DeclID, arrow bool) *MemberExprNode {
	return &MemberExprNode{ExprBase: newExprBase(MemberExpr, loc, qt, vc), Base: base, Member: member, Arrow: arrow}
}

// CallExprNode is "Callee(Args...)".
type CallExprNode struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

func NewCallExpr(loc source.SourceLocation, qt types.QualType, callee Expr, args []Expr) *CallExprNode {
	return &CallExprNode{ExprBase: newExprBase(CallExpr, loc, qt, RValue), Callee: callee, Args: args}
}

// ParenExprNode is a parenthesized sub-expression.
type ParenExprNode struct {
	ExprBase
	Sub Expr
}

func NewParenExpr(loc source.SourceLocation, sub Expr) *ParenExprNode {
	return &ParenExprNode{ExprBase: newExprBase(ParenExpr, loc, sub.Type(), sub.ValueCategory()), Sub: sub}
}

// UnaryOperatorNode is a prefix/postfix unary operator; Op selects the
// specific operation (spec.md §4.4's two-level dispatch).
type UnaryOperatorNode struct {
	ExprBase
	Op  UnaryOpcode
	Sub Expr
}

func NewUnaryOperator(loc source.SourceLocation, qt types.QualType, vc ValueCategory, op UnaryOpcode, sub Expr) *UnaryOperatorNode {
	return &UnaryOperatorNode{ExprBase: newExprBase(UnaryOperator, loc, qt, vc), Op: op, Sub: sub}
}

// BinaryOperatorNode is an infix binary operator; Op selects the specific
// operation (spec.md §4.4's two-level dispatch).
type BinaryOperatorNode struct {
	ExprBase
	Op    BinaryOpcode
	LHS   Expr
	RHS   Expr
}

func NewBinaryOperator(loc source.SourceLocation, qt types.QualType, op BinaryOpcode, lhs, rhs Expr) *BinaryOperatorNode {
	vc := RValue
	if op.IsAssignment() {
		vc = lhs.ValueCategory()
	}
	return &BinaryOperatorNode{ExprBase: newExprBase(BinaryOperator, loc, qt, vc), Op: op, LHS: lhs, RHS: rhs}
}

// ConditionalExprNode is "Cond ? Then : Else".
type ConditionalExprNode struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

func NewConditionalExpr(loc source.SourceLocation, qt types.QualType, vc ValueCategory, cond, then, els Expr) *ConditionalExprNode {
	return &ConditionalExprNode{ExprBase: newExprBase(ConditionalExpr, loc, qt, vc), Cond: cond, Then: then, Else: els}
}

// ImplicitCastExprNode is a compiler-inserted conversion, per spec.md
// §4.4; Dest (the ExprBase's own Type()) is the destination type.
type ImplicitCastExprNode struct {
	ExprBase
	Sub  Expr
	Kind CastKind
}

// CastKind names the specific conversion an Implicit/CStyleCastExpr
// performs, for diagnostics and sema's conversion-rule dispatch (SUPPLEMENTED
// detail beyond spec.md's prose list, grounded in the C99 6.3 categories the
// spec text itself names).
type CastKind int

const (
	CastNoOp CastKind = iota
	CastArrayToPointerDecay
	CastFunctionToPointerDecay
	CastIntegralCast
	CastIntegralToFloating
	CastFloatingToIntegral
	CastFloatingCast
	CastPointerToIntegral
	CastIntegralToPointer
	CastBitCast
	CastLValueToRValue
	CastNullToPointer
)

func NewImplicitCastExpr(loc source.SourceLocation, dest types.QualType, vc ValueCategory, kind CastKind, sub Expr) *ImplicitCastExprNode {
	return &ImplicitCastExprNode{ExprBase: newExprBase(ImplicitCastExpr, loc, dest, vc), Sub: sub, Kind: kind}
}

// CStyleCastExprNode is an explicit "(Type)Sub" cast.
type CStyleCastExprNode struct {
	ExprBase
	Sub  Expr
	Kind CastKind
}

func NewCStyleCastExpr(loc source.SourceLocation, dest types.QualType, kind CastKind, sub Expr) *CStyleCastExprNode {
	return &CStyleCastExprNode{ExprBase: newExprBase(CStyleCastExpr, loc, dest, RValue), Sub: sub, Kind: kind}
}

// SizeOfAlignOfExprNode is "sizeof(Operand)"/"sizeof ExprOperand"/
// "_Alignof(Operand)".
type SizeOfAlignOfExprNode struct {
	ExprBase
	IsSizeOf     bool // false means _Alignof
	OperandType  types.QualType  // set iff OperandExpr is nil
	OperandExpr  Expr            // set iff OperandType is the zero value
}

func NewSizeOfAlignOfExprType(loc source.SourceLocation, qt types.QualType, isSizeOf bool, operand types.QualType) *SizeOfAlignOfExprNode {
	return &SizeOfAlignOfExprNode{ExprBase: newExprBase(SizeOfAlignOfExpr, loc, qt, RValue), IsSizeOf: isSizeOf, OperandType: operand}
}

func NewSizeOfAlignOfExprExpr(loc source.SourceLocation, qt types.QualType, isSizeOf bool, operand Expr) *SizeOfAlignOfExprNode {
	return &SizeOfAlignOfExprNode{ExprBase: newExprBase(SizeOfAlignOfExpr, loc, qt, RValue), IsSizeOf: isSizeOf, OperandExpr: operand}
}

// ArraySubscriptExprNode is "Base[Index]".
type ArraySubscriptExprNode struct {
	ExprBase
	Base  Expr
	Index Expr
}

func NewArraySubscriptExpr(loc source.SourceLocation, qt types.QualType, base, index Expr) *ArraySubscriptExprNode {
	return &ArraySubscriptExprNode{ExprBase: newExprBase(ArraySubscriptExpr, loc, qt, LValue), Base: base, Index: index}
}

// InitListExprNode is "{ Elements... }".
type InitListExprNode struct {
	ExprBase
	Elements []Expr
}

func NewInitListExpr(loc source.SourceLocation, qt types.QualType, elements []Expr) *InitListExprNode {
	return &InitListExprNode{ExprBase: newExprBase(InitListExpr, loc, qt, RValue), Elements: elements}
}

// CompoundLiteralExprNode is C99's "(Type){ Init }".
type CompoundLiteralExprNode struct {
	ExprBase
	Init *InitListExprNode
}

func NewCompoundLiteralExpr(loc source.SourceLocation, qt types.QualType, init *InitListExprNode) *CompoundLiteralExprNode {
	return &CompoundLiteralExprNode{ExprBase: newExprBase(CompoundLiteralExpr, loc, qt, LValue), Init: init}
}

