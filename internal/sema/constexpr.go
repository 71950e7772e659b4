package sema

import (
	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// ConstValue is the result of folding a constant-expression, per spec.md
// §4.4: "an expression is a constant-expression if it evaluates to a
// value under a restricted evaluator that handles integer/float
// arithmetic, comparisons, unary operators, conditional, cast between
// arithmetic types, sizeof/alignof of complete types, and literal
// folding."
type ConstValue struct {
	IsFloat bool
	I       int64
	F       float64
}

func (v ConstValue) asFloat() float64 {
	if v.IsFloat {
		return v.F
	}
	return float64(v.I)
}

func (v ConstValue) isZero() bool {
	if v.IsFloat {
		return v.F == 0
	}
	return v.I == 0
}

// builtinSize is the sizeof table ccore's restricted constant evaluator
// needs for SizeOfAlignOfExpr. This is a semantic-layer concern (codegen
// layout belongs downstream, per spec.md §1's Non-goals), so it lives
// here rather than in internal/types; it covers exactly the scalar/
// pointer/array cases the evaluator can fold, not full record layout.
func builtinSize(bk types.BuiltinKind) (int64, bool) {
	switch bk {
	case types.Bool, types.Char, types.SChar, types.UChar:
		return 1, true
	case types.Short, types.UShort:
		return 2, true
	case types.Int, types.UInt, types.Float:
		return 4, true
	case types.Long, types.ULong, types.LongLong, types.ULongLong, types.Double:
		return 8, true
	case types.LongDouble:
		return 16, true
	default:
		return 0, false
	}
}

func (a *Actions) sizeOfType(qt types.QualType) (int64, bool) {
	if qt.IsIncompleteType() {
		return 0, false
	}
	ct := qt.GetCanonicalType().T
	switch ct.Kind() {
	case types.Builtin:
		return builtinSize(ct.BuiltinKind())
	case types.Pointer, types.BlockPointer:
		return 8, true
	case types.ConstantArray:
		elemSize, ok := a.sizeOfType(ct.Element())
		if !ok {
			return 0, false
		}
		return elemSize * int64(ct.ArraySize()), true
	default:
		return 0, false
	}
}

// EvaluateConstantExpr attempts to fold e to a value. Per spec.md §4.4,
// failure is silent: an expression this evaluator cannot fold is simply
// not a constant expression, not an error in its own right (callers like
// CheckStaticAssert decide whether that failure itself warrants a
// diagnostic).
func (a *Actions) EvaluateConstantExpr(e ast.Expr) (ConstValue, bool) {
	switch n := e.(type) {
	case *ast.IntegerLiteralNode:
		return ConstValue{I: int64(n.Value)}, true
	case *ast.FloatingLiteralNode:
		return ConstValue{IsFloat: true, F: n.Value}, true
	case *ast.CharacterLiteralNode:
		return ConstValue{I: int64(n.Value)}, true
	case *ast.ParenExprNode:
		return a.EvaluateConstantExpr(n.Sub)
	case *ast.UnaryOperatorNode:
		return a.evalUnary(n)
	case *ast.BinaryOperatorNode:
		return a.evalBinary(n)
	case *ast.ConditionalExprNode:
		cond, ok := a.EvaluateConstantExpr(n.Cond)
		if !ok {
			return ConstValue{}, false
		}
		if !cond.isZero() {
			return a.EvaluateConstantExpr(n.Then)
		}
		return a.EvaluateConstantExpr(n.Else)
	case *ast.ImplicitCastExprNode:
		return a.evalCast(n.Sub, n.Type())
	case *ast.CStyleCastExprNode:
		return a.evalCast(n.Sub, n.Type())
	case *ast.SizeOfAlignOfExprNode:
		return a.evalSizeOfAlignOf(n)
	default:
		return ConstValue{}, false
	}
}

func (a *Actions) evalUnary(n *ast.UnaryOperatorNode) (ConstValue, bool) {
	v, ok := a.EvaluateConstantExpr(n.Sub)
	if !ok {
		return ConstValue{}, false
	}
	switch n.Op {
	case ast.UOPlus:
		return v, true
	case ast.UOMinus:
		if v.IsFloat {
			return ConstValue{IsFloat: true, F: -v.F}, true
		}
		return ConstValue{I: -v.I}, true
	case ast.UONot:
		if v.IsFloat {
			return ConstValue{}, false
		}
		return ConstValue{I: ^v.I}, true
	case ast.UOLNot:
		if v.isZero() {
			return ConstValue{I: 1}, true
		}
		return ConstValue{I: 0}, true
	default:
		return ConstValue{}, false
	}
}

func boolToConst(b bool) ConstValue {
	if b {
		return ConstValue{I: 1}
	}
	return ConstValue{I: 0}
}

func (a *Actions) evalBinary(n *ast.BinaryOperatorNode) (ConstValue, bool) {
	if n.Op.IsAssignment() {
		return ConstValue{}, false
	}
	l, ok := a.EvaluateConstantExpr(n.LHS)
	if !ok {
		return ConstValue{}, false
	}
	r, ok := a.EvaluateConstantExpr(n.RHS)
	if !ok {
		return ConstValue{}, false
	}
	useFloat := l.IsFloat || r.IsFloat

	switch n.Op {
	case ast.BOLT:
		return boolToConst(l.asFloat() < r.asFloat()), true
	case ast.BOGT:
		return boolToConst(l.asFloat() > r.asFloat()), true
	case ast.BOLE:
		return boolToConst(l.asFloat() <= r.asFloat()), true
	case ast.BOGE:
		return boolToConst(l.asFloat() >= r.asFloat()), true
	case ast.BOEQ:
		return boolToConst(l.asFloat() == r.asFloat()), true
	case ast.BONE:
		return boolToConst(l.asFloat() != r.asFloat()), true
	case ast.BOLAnd:
		return boolToConst(!l.isZero() && !r.isZero()), true
	case ast.BOLOr:
		return boolToConst(!l.isZero() || !r.isZero()), true
	}

	if useFloat {
		lf, rf := l.asFloat(), r.asFloat()
		switch n.Op {
		case ast.BOAdd:
			return ConstValue{IsFloat: true, F: lf + rf}, true
		case ast.BOSub:
			return ConstValue{IsFloat: true, F: lf - rf}, true
		case ast.BOMul:
			return ConstValue{IsFloat: true, F: lf * rf}, true
		case ast.BODiv:
			if rf == 0 {
				return ConstValue{}, false
			}
			return ConstValue{IsFloat: true, F: lf / rf}, true
		default:
			return ConstValue{}, false
		}
	}

	switch n.Op {
	case ast.BOAdd:
		return ConstValue{I: l.I + r.I}, true
	case ast.BOSub:
		return ConstValue{I: l.I - r.I}, true
	case ast.BOMul:
		return ConstValue{I: l.I * r.I}, true
	case ast.BODiv:
		if r.I == 0 {
			return ConstValue{}, false
		}
		return ConstValue{I: l.I / r.I}, true
	case ast.BORem:
		if r.I == 0 {
			return ConstValue{}, false
		}
		return ConstValue{I: l.I % r.I}, true
	case ast.BOAnd:
		return ConstValue{I: l.I & r.I}, true
	case ast.BOOr:
		return ConstValue{I: l.I | r.I}, true
	case ast.BOXor:
		return ConstValue{I: l.I ^ r.I}, true
	case ast.BOShl:
		return ConstValue{I: l.I << uint(r.I)}, true
	case ast.BOShr:
		return ConstValue{I: l.I >> uint(r.I)}, true
	default:
		return ConstValue{}, false
	}
}

func (a *Actions) evalCast(sub ast.Expr, dest types.QualType) (ConstValue, bool) {
	if !dest.IsArithmeticType() {
		return ConstValue{}, false
	}
	v, ok := a.EvaluateConstantExpr(sub)
	if !ok {
		return ConstValue{}, false
	}
	if dest.IsIntegerType() {
		if v.IsFloat {
			return ConstValue{I: int64(v.F)}, true
		}
		return v, true
	}
	if v.IsFloat {
		return v, true
	}
	return ConstValue{IsFloat: true, F: float64(v.I)}, true
}

func (a *Actions) evalSizeOfAlignOf(n *ast.SizeOfAlignOfExprNode) (ConstValue, bool) {
	if !n.IsSizeOf {
		return ConstValue{}, false // alignof folding isn't modeled; see DESIGN.md
	}
	operand := n.OperandType
	if n.OperandExpr != nil {
		operand = n.OperandExpr.Type()
	}
	size, ok := a.sizeOfType(operand)
	if !ok {
		return ConstValue{}, false
	}
	return ConstValue{I: size}, true
}

// CheckStaticAssert implements spec.md's SUPPLEMENTED static_assert
// support (see SPEC_FULL.md): folds cond as a constant expression and
// diagnoses either a non-constant condition or a failed assertion.
func (a *Actions) CheckStaticAssert(cond ast.Expr, message string, loc source.SourceLocation) {
	v, ok := a.EvaluateConstantExpr(cond)
	if !ok {
		a.Diags.Report(diag.Error, diag.DiagNotConstantExpression, loc, nil)
		return
	}
	if v.isZero() {
		a.Diags.Report(diag.Error, diag.DiagStaticAssertFailed, loc, func(b *diag.Builder) {
			b.Arg(diag.ArgS(message))
		})
	}
}
