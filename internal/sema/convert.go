package sema

import (
	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// integerRank orders the integer builtin kinds for promotion/usual-
// arithmetic-conversion purposes, per spec.md §4.4's "C99 6.3... integer
// promotions" reference. Signedness tie-breaking (the "value-preserving"
// vs "unsigned-preserving" distinction C99 6.3.1.8 actually requires) is
// deliberately not modeled: see DESIGN.md's Open Question decision.
func integerRank(bk types.BuiltinKind) int {
	switch bk {
	case types.Bool:
		return 0
	case types.Char, types.SChar, types.UChar:
		return 1
	case types.Short, types.UShort:
		return 2
	case types.Int, types.UInt:
		return 3
	case types.Long, types.ULong:
		return 4
	case types.LongLong, types.ULongLong:
		return 5
	default:
		return -1
	}
}

func floatRank(bk types.BuiltinKind) int {
	switch bk {
	case types.Float:
		return 0
	case types.Double:
		return 1
	case types.LongDouble:
		return 2
	default:
		return -1
	}
}

func isUnsignedKind(bk types.BuiltinKind) bool {
	switch bk {
	case types.Bool, types.UChar, types.UShort, types.UInt, types.ULong, types.ULongLong:
		return true
	}
	return false
}

// DecayType implements array-to-pointer and function-to-pointer decay
// (spec.md §4.4's "array/function decay"): an array of T decays to a
// pointer to T's element type; a function decays to a pointer to itself.
func (a *Actions) DecayType(qt types.QualType) types.QualType {
	ct := qt.GetCanonicalType()
	switch {
	case qt.IsArrayType():
		return a.Types.GetPointer(ct.T.Element())
	case qt.IsFunctionType():
		return a.Types.GetPointer(qt)
	default:
		return qt
	}
}

// IntegerPromote applies C99's integer promotions: an integer type whose
// rank is below int promotes to int (or unsigned int if its values don't
// all fit in a signed int, which ccore treats conservatively as "bool,
// char, short promote to plain int" per the common implementation-defined
// practice of int being wide enough for every promoted rank here).
func (a *Actions) IntegerPromote(qt types.QualType) types.QualType {
	ct := qt.GetCanonicalType()
	if ct.T.Kind() != types.Builtin {
		return qt
	}
	if integerRank(ct.T.BuiltinKind()) >= 0 && integerRank(ct.T.BuiltinKind()) < integerRank(types.Int) {
		return a.Types.GetBuiltinType(types.Int)
	}
	return qt
}

// UsualArithmeticConversions computes the common type two arithmetic
// operands convert to before a binary operator applies, per spec.md
// §4.4's "usual arithmetic conversions" (C99 6.3.1.8): floating beats
// integer, wider rank wins, and among equal integer ranks the unsigned
// type wins (the one signedness rule this simplified model keeps, since
// dropping it would silently change the sign of common C idioms like
// comparing an int against a size_t).
func (a *Actions) UsualArithmeticConversions(lhs, rhs types.QualType) types.QualType {
	lc, rc := lhs.GetCanonicalType(), rhs.GetCanonicalType()
	lFloat, rFloat := lhs.IsRealFloatingType(), rhs.IsRealFloatingType()
	switch {
	case lFloat && rFloat:
		if floatRank(lc.T.BuiltinKind()) >= floatRank(rc.T.BuiltinKind()) {
			return lhs
		}
		return rhs
	case lFloat:
		return lhs
	case rFloat:
		return rhs
	}

	lp, rp := a.IntegerPromote(lhs), a.IntegerPromote(rhs)
	lpc, rpc := lp.GetCanonicalType(), rp.GetCanonicalType()
	if lpc.T.Kind() != types.Builtin || rpc.T.Kind() != types.Builtin {
		return lp
	}
	lRank, rRank := integerRank(lpc.T.BuiltinKind()), integerRank(rpc.T.BuiltinKind())
	switch {
	case lRank > rRank:
		return lp
	case rRank > lRank:
		return rp
	case isUnsignedKind(lpc.T.BuiltinKind()):
		return lp
	default:
		return rp
	}
}

// ImplicitConvert wraps expr in an ImplicitCastExprNode converting it to
// dest, per spec.md §4.4, or returns expr unchanged if it is already of
// dest's canonical type. A real float-to-integer narrowing conversion
// emits a Warning diagnostic (scenario E6).
func (a *Actions) ImplicitConvert(expr ast.Expr, dest types.QualType, loc source.SourceLocation) ast.Expr {
	src := expr.Type()
	if sameCanonical(src, dest) {
		return expr
	}

	kind := ast.CastBitCast
	switch {
	case src.IsArrayType() && dest.IsPointerType():
		kind = ast.CastArrayToPointerDecay
	case src.IsFunctionType() && dest.IsPointerType():
		kind = ast.CastFunctionToPointerDecay
	case src.IsIntegerType() && dest.IsRealFloatingType():
		kind = ast.CastIntegralToFloating
	case src.IsRealFloatingType() && dest.IsIntegerType():
		kind = ast.CastFloatingToIntegral
		a.Diags.Report(diag.Warning, diag.DiagImplicitFloatToInt, loc, func(b *diag.Builder) {
			b.Arg(diag.ArgQT(renderQualType(src))).Arg(diag.ArgQT(renderQualType(dest)))
		})
	case src.IsRealFloatingType() && dest.IsRealFloatingType():
		kind = ast.CastFloatingCast
	case src.IsIntegerType() && dest.IsIntegerType():
		kind = ast.CastIntegralCast
	case src.IsPointerType() && dest.IsIntegerType():
		kind = ast.CastPointerToIntegral
	case src.IsIntegerType() && dest.IsPointerType():
		kind = ast.CastIntegralToPointer
	}

	return ast.NewImplicitCastExpr(loc, dest, ast.RValue, kind, expr)
}

// renderQualType produces a minimal human-readable spelling for
// diagnostic arguments. Full type pretty-printing (matching the source's
// written form token-for-token) is diagnostic rendering, which spec.md §1
// excludes from the core's scope; this exists only so Diagnostic.Message
// has something to substitute.
func renderQualType(qt types.QualType) string {
	ct := qt.GetCanonicalType().T
	switch ct.Kind() {
	case types.Builtin:
		return builtinSpelling(ct.BuiltinKind())
	case types.Pointer:
		return renderQualType(ct.Pointee()) + " *"
	case types.Record:
		return "struct"
	case types.Enum:
		return "enum"
	default:
		return ct.Kind().String()
	}
}

func builtinSpelling(bk types.BuiltinKind) string {
	switch bk {
	case types.Void:
		return "void"
	case types.Bool:
		return "_Bool"
	case types.Char:
		return "char"
	case types.SChar:
		return "signed char"
	case types.UChar:
		return "unsigned char"
	case types.Short:
		return "short"
	case types.UShort:
		return "unsigned short"
	case types.Int:
		return "int"
	case types.UInt:
		return "unsigned int"
	case types.Long:
		return "long"
	case types.ULong:
		return "unsigned long"
	case types.LongLong:
		return "long long"
	case types.ULongLong:
		return "unsigned long long"
	case types.Float:
		return "float"
	case types.Double:
		return "double"
	case types.LongDouble:
		return "long double"
	default:
		return "id"
	}
}
