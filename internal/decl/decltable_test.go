package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

func TestRedeclarationChainE1(t *testing.T) {
	// E1: "int x; int x;" -- one VarDecl chain with two nodes, canonical is
	// the first, no definition.
	dt := NewDeclTable()
	tc := types.NewTypeContext()
	intTy := tc.GetBuiltinType(types.Int)

	dt.PushScope(DeclScopeKind)
	xID := dt.Idents.Get("x")

	first := dt.NewVarDecl(xID, intTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	dt.Declare(xID, first, false)

	second := dt.NewVarDecl(xID, intTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	dt.JoinRedeclChain(first, second)
	dt.Declare(xID, second, false)

	chain := dt.RedeclChain(second)
	require.Len(t, chain, 2)
	assert.Equal(t, first, dt.CanonicalDecl(second))
	assert.Equal(t, first, chain[0])
	assert.Equal(t, InvalidDeclID, dt.DefinitionOf(second))

	head, ok := dt.LookupOrdinary(xID)
	assert.True(t, ok)
	assert.Equal(t, second, head, "the most recent declaration is the one visible")
}

func TestRedeclChainCanonicalConsistencyProperty6(t *testing.T) {
	dt := NewDeclTable()
	tc := types.NewTypeContext()
	intTy := tc.GetBuiltinType(types.Int)

	nameID := dt.Idents.Get("f")
	fnTy := tc.GetFunctionProto(intTy, nil, false, 0)

	a := dt.NewFunctionDecl(nameID, fnTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	b := dt.NewFunctionDecl(nameID, fnTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	c := dt.NewFunctionDecl(nameID, fnTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	dt.JoinRedeclChain(a, b)
	dt.JoinRedeclChain(a, c)

	for _, id := range []DeclID{a, b, c} {
		assert.Equal(t, a, dt.CanonicalDecl(id))
	}

	dt.DefineFunction(c, "body")
	assert.Equal(t, c, dt.DefinitionOf(a))
	assert.Equal(t, c, dt.DefinitionOf(b))
}

func TestDefinitionConflictIsFatal(t *testing.T) {
	dt := NewDeclTable()
	tc := types.NewTypeContext()
	intTy := tc.GetBuiltinType(types.Int)
	nameID := dt.Idents.Get("f")
	fnTy := tc.GetFunctionProto(intTy, nil, false, 0)

	a := dt.NewFunctionDecl(nameID, fnTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	b := dt.NewFunctionDecl(nameID, fnTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	dt.JoinRedeclChain(a, b)

	dt.DefineFunction(a, "body1")
	assert.Panics(t, func() { dt.DefineFunction(b, "body2") })
}

func TestScopeStackDisciplineProperty8(t *testing.T) {
	dt := NewDeclTable()
	tc := types.NewTypeContext()
	intTy := tc.GetBuiltinType(types.Int)

	dt.PushScope(DeclScopeKind)
	assert.False(t, dt.Scopes.IsEmpty())

	outerID := dt.Idents.Get("n")
	outer := dt.NewVarDecl(outerID, intTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	dt.Declare(outerID, outer, false)

	dt.PushScope(BlockScopeKind)
	inner := dt.NewVarDecl(outerID, intTy, StorageNone, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	dt.Declare(outerID, inner, false)

	head, _ := dt.LookupOrdinary(outerID)
	assert.Equal(t, inner, head, "inner block shadows the outer declaration")

	dt.PopScope()
	head, _ = dt.LookupOrdinary(outerID)
	assert.Equal(t, outer, head, "leaving the block unshadows the outer declaration")

	dt.PopScope()
	assert.True(t, dt.Scopes.IsEmpty())
}

func TestRecordTwoPhaseConstructionAndLookupMember(t *testing.T) {
	dt := NewDeclTable()
	tc := types.NewTypeContext()
	intTy := tc.GetBuiltinType(types.Int)

	sID := dt.Idents.Get("S")
	recID := dt.NewRecordDecl(sID, TagStruct, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	recTy := tc.GetRecord(recID.AsTypeRef())
	assert.True(t, recTy.IsIncompleteType())

	aID := dt.Idents.Get("a")
	field := dt.NewFieldDecl(aID, intTy, recID, recID, source.InvalidLocation)
	dt.CompleteRecordDecl(recID, []DeclID{field}, nil)
	tc.CompleteRecord(recID.AsTypeRef())

	recTy2 := tc.GetRecord(recID.AsTypeRef())
	assert.False(t, recTy2.IsIncompleteType())

	got, ok := dt.LookupMember(recID, aID)
	assert.True(t, ok)
	assert.Equal(t, field, got)
}

func TestObjCMethodLookupBySelectorAndInstanceFlag(t *testing.T) {
	dt := NewDeclTable()
	tc := types.NewTypeContext()
	voidTy := tc.GetBuiltinType(types.Void)

	sel := dt.Selectors.GetSelector([]string{"initWithName"})
	m := dt.NewObjCMethodDecl(sel, true, voidTy, nil, dt.TranslationUnit(), dt.TranslationUnit(), source.InvalidLocation)
	dt.registerObjCMethod(m)

	got, ok := dt.LookupObjCMethod(sel, true)
	assert.True(t, ok)
	assert.Equal(t, m, got)

	_, ok = dt.LookupObjCMethod(sel, false)
	assert.False(t, ok, "factory-method lookup must not see the instance method")
}
