package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

func newActions() (*Actions, *decl.DeclTable, *types.TypeContext) {
	dt := decl.NewDeclTable()
	tc := types.NewTypeContext()
	sink := diag.NewSink()
	return NewActions(dt, tc, sink), dt, tc
}

// TestReturnImplicitCastScenarioE6 covers scenario E6: "int f() { return
// 1.5; }" -- the return operand is an ImplicitCast to int wrapping the
// FloatingLiteral, and a warning is emitted.
func TestReturnImplicitCastScenarioE6(t *testing.T) {
	a, _, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	lit := ast.NewFloatingLiteral(source.InvalidLocation, tc.GetBuiltinType(types.Double), 1.5)

	ret := a.ActOnReturnStmt(intTy, lit, source.InvalidLocation)
	cast, ok := ret.Value.(*ast.ImplicitCastExprNode)
	require.True(t, ok)
	assert.Equal(t, ast.CastFloatingToIntegral, cast.Kind)
	assert.Same(t, lit, cast.Sub.(*ast.FloatingLiteralNode))
	assert.True(t, cast.Type().IsIntegerType())

	diags := a.Diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.Warning, diags[0].Level)
	assert.Equal(t, diag.DiagImplicitFloatToInt, diags[0].ID)
}

// TestMemberExprAssignScenarioE3 covers scenario E3 end-to-end through
// Sema: "struct S { int a; }; struct S s; s.a = 0;" produces a MemberExpr
// of type int (lvalue) and an Assign BinaryOperator of type int.
func TestMemberExprAssignScenarioE3(t *testing.T) {
	a, dt, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	dt.PushScope(decl.DeclScopeKind)

	sID := dt.Idents.Get("S")
	recID := dt.NewRecordDecl(sID, decl.TagStruct, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	aID := dt.Idents.Get("a")
	field := dt.NewFieldDecl(aID, intTy, recID, recID, source.InvalidLocation)
	dt.CompleteRecordDecl(recID, []decl.DeclID{field}, nil)
	tc.CompleteRecord(recID.AsTypeRef())
	recTy := tc.GetRecord(recID.AsTypeRef())

	sNameID := dt.Idents.Get("s")
	sVar := a.ActOnVarDecl(sNameID, recTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)

	sRef := ast.NewDeclRefExpr(source.InvalidLocation, recTy, ast.LValue, sVar)
	member, ok := a.ActOnMemberExpr(sRef, false, aID, source.InvalidLocation)
	require.True(t, ok)
	assert.True(t, member.Type().IsIntegerType())
	assert.Equal(t, ast.LValue, member.ValueCategory())

	zero := ast.NewIntegerLiteral(source.InvalidLocation, intTy, 0)
	assign := a.ActOnBinaryOperator(ast.BOAssign, member, zero, source.InvalidLocation)
	assert.True(t, assign.Type().IsIntegerType())
	assert.Equal(t, ast.BinaryOperator, assign.Class())
}

func TestRedeclarationJoinsChainOnMatchingType(t *testing.T) {
	a, dt, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	xID := dt.Idents.Get("x")

	dt.PushScope(decl.DeclScopeKind)
	first := a.ActOnVarDecl(xID, intTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	second := a.ActOnVarDecl(xID, intTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)

	assert.Equal(t, first, dt.CanonicalDecl(second))
	assert.Empty(t, a.Diags.Diagnostics())
}

func TestRedeclarationWithConflictingTypeDiagnoses(t *testing.T) {
	a, dt, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	doubleTy := tc.GetBuiltinType(types.Double)
	xID := dt.Idents.Get("x")

	dt.PushScope(decl.DeclScopeKind)
	a.ActOnVarDecl(xID, intTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	a.ActOnVarDecl(xID, doubleTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)

	require.Len(t, a.Diags.Diagnostics(), 1)
	assert.Equal(t, diag.DiagConflictingTypes, a.Diags.Diagnostics()[0].ID)
}

func TestUsualArithmeticConversionsPromotesToDouble(t *testing.T) {
	a, _, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	doubleTy := tc.GetBuiltinType(types.Double)

	common := a.UsualArithmeticConversions(intTy, doubleTy)
	assert.True(t, sameCanonical(common, doubleTy))
}

func TestStaticAssertPassesAndFails(t *testing.T) {
	a, _, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)

	ok := ast.NewIntegerLiteral(source.InvalidLocation, intTy, 1)
	a.CheckStaticAssert(ok, "should hold", source.InvalidLocation)
	assert.Empty(t, a.Diags.Diagnostics())

	bad := ast.NewIntegerLiteral(source.InvalidLocation, intTy, 0)
	a.CheckStaticAssert(bad, "always fails", source.InvalidLocation)
	require.Len(t, a.Diags.Diagnostics(), 1)
	assert.Equal(t, diag.DiagStaticAssertFailed, a.Diags.Diagnostics()[0].ID)
}

func TestStaticAssertOnNonConstantExpressionDiagnoses(t *testing.T) {
	a, dt, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	xID := dt.Idents.Get("x")
	x := dt.NewVarDecl(xID, intTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	ref := ast.NewDeclRefExpr(source.InvalidLocation, intTy, ast.LValue, x)

	a.CheckStaticAssert(ref, "not constant", source.InvalidLocation)
	require.Len(t, a.Diags.Diagnostics(), 1)
	assert.Equal(t, diag.DiagNotConstantExpression, a.Diags.Diagnostics()[0].ID)
}

func TestConstantFoldingArithmeticAndSizeof(t *testing.T) {
	a, _, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)

	two := ast.NewIntegerLiteral(source.InvalidLocation, intTy, 2)
	three := ast.NewIntegerLiteral(source.InvalidLocation, intTy, 3)
	sum := ast.NewBinaryOperator(source.InvalidLocation, intTy, ast.BOAdd, two, three)

	v, ok := a.EvaluateConstantExpr(sum)
	require.True(t, ok)
	assert.Equal(t, int64(5), v.I)

	sz := ast.NewSizeOfAlignOfExprType(source.InvalidLocation, intTy, true, intTy)
	v2, ok := a.EvaluateConstantExpr(sz)
	require.True(t, ok)
	assert.Equal(t, int64(4), v2.I)
}

func TestResolveOverloadPicksExactMatchOverConversion(t *testing.T) {
	a, dt, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	doubleTy := tc.GetBuiltinType(types.Double)
	name := dt.Idents.Get("f")

	intFn := dt.NewFunctionDecl(name, tc.GetFunctionProto(intTy, []types.QualType{intTy}, false, 0), decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	doubleFn := dt.NewFunctionDecl(name, tc.GetFunctionProto(intTy, []types.QualType{doubleTy}, false, 0), decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)

	candidates := []Candidate{
		{Decl: intFn, ParamTypes: []types.QualType{intTy}},
		{Decl: doubleFn, ParamTypes: []types.QualType{doubleTy}},
	}
	best, ok, ambiguous := a.ResolveOverload(candidates, []types.QualType{intTy})
	require.True(t, ok)
	assert.False(t, ambiguous)
	assert.Equal(t, intFn, best)
}

func TestResolveOverloadAmbiguousWhenTied(t *testing.T) {
	a, dt, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	name := dt.Idents.Get("g")

	f1 := dt.NewFunctionDecl(name, tc.GetFunctionProto(intTy, []types.QualType{intTy}, false, 0), decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	f2 := dt.NewFunctionDecl(name, tc.GetFunctionProto(intTy, []types.QualType{intTy}, false, 0), decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)

	candidates := []Candidate{
		{Decl: f1, ParamTypes: []types.QualType{intTy}},
		{Decl: f2, ParamTypes: []types.QualType{intTy}},
	}
	_, ok, ambiguous := a.ResolveOverload(candidates, []types.QualType{intTy})
	assert.False(t, ok)
	assert.True(t, ambiguous)
}

func TestFunctionRedefinitionDiagnoses(t *testing.T) {
	a, dt, tc := newActions()
	intTy := tc.GetBuiltinType(types.Int)
	name := dt.Idents.Get("f")
	fnTy := tc.GetFunctionProto(intTy, nil, false, 0)
	dt.PushScope(decl.DeclScopeKind)

	fn := a.ActOnFunctionDecl(name, fnTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	body := ast.NewCompoundStmt(source.InvalidLocation, nil)
	a.ActOnFunctionDefinition(fn, body, source.InvalidLocation)
	assert.Empty(t, a.Diags.Diagnostics())

	fn2 := a.ActOnFunctionDecl(name, fnTy, decl.StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	a.ActOnFunctionDefinition(fn2, body, source.InvalidLocation)
	require.Len(t, a.Diags.Diagnostics(), 1)
	assert.Equal(t, diag.DiagRedefinition, a.Diags.Diagnostics()[0].ID)
}
