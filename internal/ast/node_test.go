package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// TestVisitorTotalityAndFallbackProperty7 exercises testable property 7:
// a Visitor dispatches every node, falling back through
// opcode -> class -> default when no more specific handler is registered.
func TestVisitorTotalityAndFallbackProperty7(t *testing.T) {
	tc := types.NewTypeContext()
	intTy := tc.GetBuiltinType(types.Int)

	lit := NewIntegerLiteral(source.InvalidLocation, intTy, 1)
	add := NewBinaryOperator(source.InvalidLocation, intTy, BOAdd, lit, lit)
	mul := NewBinaryOperator(source.InvalidLocation, intTy, BOMul, lit, lit)
	neg := NewUnaryOperator(source.InvalidLocation, intTy, RValue, UOMinus, lit)
	ret := NewReturnStmt(source.InvalidLocation, add)

	var sawFallback []StmtClass
	v := NewVisitor[string](func(n Stmt) string {
		sawFallback = append(sawFallback, n.Class())
		return "fallback"
	})
	v.On(BinaryOperator, func(n Stmt) string { return "binop:" + n.(*BinaryOperatorNode).Op.String() })
	v.OnBinaryOp(BOMul, func(n *BinaryOperatorNode) string { return "mul-specific" })

	assert.Equal(t, "mul-specific", v.Visit(mul), "opcode-specific registration wins over the class handler")
	assert.Equal(t, "binop:Add", v.Visit(add), "class handler catches opcodes with no specific registration")
	assert.Equal(t, "fallback", v.Visit(neg), "unregistered class falls through to the default")
	assert.Equal(t, "fallback", v.Visit(ret), "every Stmt, not just Expr, is dispatched")
	assert.Equal(t, "fallback", v.Visit(lit), "IntegerLiteral has no registration, so it falls back too")
	require.Len(t, sawFallback, 3)
}

// TestMemberExprAssignScenarioE3 builds the tree for scenario E3:
// "struct S { int a; }; struct S s; s.a = 0;" and checks the MemberExpr
// and enclosing assignment carry the expected QualType/value category.
func TestMemberExprAssignScenarioE3(t *testing.T) {
	dt := decl.NewDeclTable()
	tc := types.NewTypeContext()
	intTy := tc.GetBuiltinType(types.Int)

	sID := dt.Idents.Get("S")
	recID := dt.NewRecordDecl(sID, decl.TagStruct, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	aID := dt.Idents.Get("a")
	field := dt.NewFieldDecl(aID, intTy, recID, recID, source.InvalidLocation)
	dt.CompleteRecordDecl(recID, []decl.DeclID{field}, nil)
	tc.CompleteRecord(recID.AsTypeRef())
	recTy := tc.GetRecord(recID.AsTypeRef())

	sNameID := dt.Idents.Get("s")
	sVar := dt.NewVarDecl(sNameID, recTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)

	sRef := NewDeclRefExpr(source.InvalidLocation, recTy, LValue, sVar)
	member := NewMemberExpr(source.InvalidLocation, intTy, LValue, sRef, field, false)
	assert.True(t, member.Type().IsIntegerType())
	assert.Equal(t, LValue, member.ValueCategory())

	zero := NewIntegerLiteral(source.InvalidLocation, intTy, 0)
	assign := NewBinaryOperator(source.InvalidLocation, intTy, BOAssign, member, zero)
	assert.True(t, assign.Type().IsIntegerType())
	assert.Equal(t, LValue, assign.ValueCategory(), "assignment's value category follows its lhs")
	assert.Equal(t, MemberExpr, member.Class())
	assert.Equal(t, BinaryOperator, assign.Class())
	assert.False(t, member.Arrow)
}
