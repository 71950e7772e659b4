package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/types"
)

func newTestParser(src string) (*Parser, *decl.DeclTable, *types.TypeContext, *diag.Sink) {
	dt := decl.NewDeclTable()
	tc := types.NewTypeContext()
	sink := diag.NewSink()
	toks := NewSliceTokenSource(lexTestTokens(dt, src))
	return New(toks, dt, tc, sink), dt, tc, sink
}

// TestParseGlobalVarWithInitializer covers "int x = 1 + 2;" at file scope:
// the declarator parses, the initializer parses through the binary-
// operator precedence climber, and the VarDecl's Init field is set.
func TestParseGlobalVarWithInitializer(t *testing.T) {
	p, dt, _, sink := newTestParser("int x = 1 + 2;")
	ids := p.ParseTranslationUnit()
	require.Len(t, ids, 1)
	assert.Empty(t, sink.Diagnostics())

	v := dt.Decl(ids[0]).(*decl.VarDecl)
	require.NotNil(t, v.Init)
	bin, ok := v.Init.(*ast.BinaryOperatorNode)
	require.True(t, ok)
	assert.Equal(t, ast.BOAdd, bin.Op)
}

// TestParseFunctionDefinitionResolvesParamByName covers
// "int add(int a, int b) { return a + b; }" -- the parameter names
// survive parseDeclarator/bindFunctionParams, so the body's "a"/"b"
// references resolve to the ParmDecls rather than reporting
// DiagUnknownIdentifier.
func TestParseFunctionDefinitionResolvesParamByName(t *testing.T) {
	p, dt, _, sink := newTestParser("int add(int a, int b) { return a + b; }")
	ids := p.ParseTranslationUnit()
	require.Len(t, ids, 1)
	require.Empty(t, sink.Diagnostics())

	fn := dt.Decl(ids[0]).(*decl.FunctionDecl)
	require.True(t, fn.IsDefined)
	require.Len(t, fn.Params, 2)

	body := fn.Body.(*ast.CompoundStmtNode)
	require.Len(t, body.Body, 1)
	ret := body.Body[0].(*ast.ReturnStmtNode)
	bin := ret.Value.(*ast.BinaryOperatorNode)
	lhs := bin.LHS.(*ast.DeclRefExprNode)
	rhs := bin.RHS.(*ast.DeclRefExprNode)
	assert.Equal(t, fn.Params[0], lhs.Decl)
	assert.Equal(t, fn.Params[1], rhs.Decl)
}

// TestParseLocalVarDeclContextIsFunction confirms a block-scope local is
// recorded under its enclosing function's DeclContext, not the
// TranslationUnit (the curDeclContext bug fixed during parser
// development).
func TestParseLocalVarDeclContextIsFunction(t *testing.T) {
	p, dt, _, sink := newTestParser("int f() { int y = 0; return y; }")
	ids := p.ParseTranslationUnit()
	require.Len(t, ids, 1)
	require.Empty(t, sink.Diagnostics())

	fn := dt.Decl(ids[0]).(*decl.FunctionDecl)
	body := fn.Body.(*ast.CompoundStmtNode)
	require.Len(t, body.Body, 2)

	declStmt := body.Body[0].(*ast.DeclStmtNode)
	require.Len(t, declStmt.Decls, 1)
	y := dt.Decl(declStmt.Decls[0]).(*decl.VarDecl)
	assert.Equal(t, ids[0], y.SemanticParent())
}

// TestParseReturnNarrowingCastScenarioE6 confirms scenario E6 fires from
// ordinary top-level parsing (not just through sema.Actions directly):
// "int f() { return 1.5; }" wraps the literal in an ImplicitCastExpr and
// warns.
func TestParseReturnNarrowingCastScenarioE6(t *testing.T) {
	p, dt, _, sink := newTestParser("int f() { return 1.5; }")
	ids := p.ParseTranslationUnit()
	require.Len(t, ids, 1)

	fn := dt.Decl(ids[0]).(*decl.FunctionDecl)
	body := fn.Body.(*ast.CompoundStmtNode)
	ret := body.Body[0].(*ast.ReturnStmtNode)
	cast, ok := ret.Value.(*ast.ImplicitCastExprNode)
	require.True(t, ok)
	assert.Equal(t, ast.CastFloatingToIntegral, cast.Kind)

	require.Len(t, sink.Diagnostics(), 1)
	assert.Equal(t, diag.DiagImplicitFloatToInt, sink.Diagnostics()[0].ID)
}

// TestParseStructMemberAssignScenarioE3 covers scenario E3 end-to-end
// through the parser: "struct S { int a; }; int f() { struct S s; s.a = 0;
// return 0; }" -- the assignment is a block-scope expression-statement
// (C has no bare expression-statements at file scope), so it is nested in
// a function body.
func TestParseStructMemberAssignScenarioE3(t *testing.T) {
	p, dt, _, sink := newTestParser("struct S { int a; }; int f() { struct S s; s.a = 0; return 0; }")
	ids := p.ParseTranslationUnit()
	require.Empty(t, sink.Diagnostics())
	require.Len(t, ids, 1) // the tag decl contributes no DeclID, only "f"

	fn := dt.Decl(ids[0]).(*decl.FunctionDecl)
	body := fn.Body.(*ast.CompoundStmtNode)
	require.Len(t, body.Body, 3)

	declStmt := body.Body[0].(*ast.DeclStmtNode)
	require.Len(t, declStmt.Decls, 1)
	sVar := dt.Decl(declStmt.Decls[0]).(*decl.VarDecl)
	assert.True(t, sVar.Type.IsRecordType())

	assignStmt := body.Body[1].(*exprStmtWrapper)
	assign := assignStmt.Expr.(*ast.BinaryOperatorNode)
	assert.Equal(t, ast.BOAssign, assign.Op)
	member := assign.LHS.(*ast.MemberExprNode)
	assert.Equal(t, ast.LValue, member.ValueCategory())
}

// TestParseUnknownIdentifierDiagnoses confirms an unresolved identifier
// reports DiagUnknownIdentifier and still yields a well-formed expression
// (spec.md §7's "always produce something" recovery policy).
func TestParseUnknownIdentifierDiagnoses(t *testing.T) {
	p, _, _, sink := newTestParser("int f() { return undeclared; }")
	p.ParseTranslationUnit()
	require.Len(t, sink.Diagnostics(), 1)
	assert.Equal(t, diag.DiagUnknownIdentifier, sink.Diagnostics()[0].ID)
}

// TestParseIfWhileForLeavesScopeStackEmpty parses a function body that
// nests if/while/for without diagnostics and confirms the scope stack is
// empty afterward (testable property 8).
func TestParseIfWhileForLeavesScopeStackEmpty(t *testing.T) {
	src := `int f() {
		int i;
		if (i) {
			while (i) {
				for (i = 0; i; i) {
					break;
					continue;
				}
			}
		}
		return 0;
	}`
	p, dt, _, sink := newTestParser(src)
	p.ParseTranslationUnit()
	assert.Empty(t, sink.Diagnostics())
	assert.True(t, dt.Scopes.IsEmpty())
}

// TestParseSwitchCaseDefault covers a switch statement's case/default
// labels parsing as CaseStmt/DefaultStmt nodes nested in its body.
func TestParseSwitchCaseDefault(t *testing.T) {
	src := `int f() {
		int x;
		switch (x) {
			case 1:
				break;
			default:
				break;
		}
		return 0;
	}`
	p, dt, _, sink := newTestParser(src)
	ids := p.ParseTranslationUnit()
	require.Empty(t, sink.Diagnostics())

	fn := dt.Decl(ids[0]).(*decl.FunctionDecl)
	body := fn.Body.(*ast.CompoundStmtNode)
	sw := body.Body[1].(*ast.SwitchStmtNode)
	compound := sw.Body.(*ast.CompoundStmtNode)
	_, isCase := compound.Body[0].(*ast.CaseStmtNode)
	_, isDefault := compound.Body[1].(*ast.DefaultStmtNode)
	assert.True(t, isCase)
	assert.True(t, isDefault)
}

// TestParseBitFieldDeclaration covers bit-field members:
// "struct F { unsigned a : 3; unsigned b : 5; };"
func TestParseBitFieldDeclaration(t *testing.T) {
	p, dt, _, sink := newTestParser("struct F { unsigned a : 3; unsigned b : 5; };")
	// Parse inside an open file scope so the tag is still visible to the
	// lookup below: ParseTranslationUnit pops that scope, unshadowing every
	// file-scope name, before it returns.
	p.PushScope(decl.DeclScopeKind)
	p.parseExternalDeclaration()
	require.Empty(t, sink.Diagnostics())

	sID, ok := dt.Idents.Lookup("F")
	require.True(t, ok)
	recID, ok := dt.LookupTag(sID)
	require.True(t, ok)
	rec := dt.Decl(recID).(*decl.RecordDecl)
	require.Len(t, rec.Fields, 2)

	fa := dt.Decl(rec.Fields[0]).(*decl.FieldDecl)
	fb := dt.Decl(rec.Fields[1]).(*decl.FieldDecl)
	assert.True(t, fa.IsBitField)
	assert.NotNil(t, fa.BitWidth)
	assert.True(t, fb.IsBitField)
}

// TestParseEnumWithExplicitValues covers an enum whose second constant
// restarts numbering from an explicit initializer.
func TestParseEnumWithExplicitValues(t *testing.T) {
	p, dt, _, sink := newTestParser("enum Color { Red, Green = 5, Blue };")
	// As in TestParseBitFieldDeclaration, keep the file scope open so the
	// enumerators are still visible to the lookups below.
	p.PushScope(decl.DeclScopeKind)
	p.parseExternalDeclaration()
	require.Empty(t, sink.Diagnostics())

	redID, _ := dt.Idents.Lookup("Red")
	greenID, _ := dt.Idents.Lookup("Green")
	blueID, _ := dt.Idents.Lookup("Blue")

	redDecl, ok := dt.LookupOrdinary(redID)
	require.True(t, ok)
	greenDecl, ok := dt.LookupOrdinary(greenID)
	require.True(t, ok)
	blueDecl, ok := dt.LookupOrdinary(blueID)
	require.True(t, ok)

	assert.Equal(t, int64(0), dt.Decl(redDecl).(*decl.EnumConstantDecl).Value)
	assert.Equal(t, int64(5), dt.Decl(greenDecl).(*decl.EnumConstantDecl).Value)
	assert.Equal(t, int64(6), dt.Decl(blueDecl).(*decl.EnumConstantDecl).Value)
}

// TestParseCStyleCast covers the tentative-parse path for an explicit
// cast: "int x = (double)1;" parses without diagnostics.
func TestParseCStyleCast(t *testing.T) {
	p, _, _, sink := newTestParser("int x = (double)1;")
	p.ParseTranslationUnit()
	assert.Empty(t, sink.Diagnostics())
}

// TestParseCompoundLiteral covers C99's "(type){ init }" compound literal
// form, disambiguated from a cast by the '{' lookahead after the closing
// paren of the type-name.
func TestParseCompoundLiteral(t *testing.T) {
	p, _, _, sink := newTestParser("struct P { int x; int y; }; struct P origin = (struct P){ 0, 0 };")
	p.ParseTranslationUnit()
	assert.Empty(t, sink.Diagnostics())
}

// TestRecoveryAfterMalformedDeclarationSynchronizesToNextStatement covers
// spec.md §7's skip_until recovery: a malformed top-level declaration is
// skipped to its own next ';', and parsing continues cleanly on the
// following declaration.
func TestRecoveryAfterMalformedDeclarationSynchronizesToNextStatement(t *testing.T) {
	p, dt, _, sink := newTestParser("@@@; int after;")
	ids := p.ParseTranslationUnit()
	require.NotEmpty(t, sink.Diagnostics())
	require.Len(t, ids, 1)
	v := dt.Decl(ids[0]).(*decl.VarDecl)
	assert.Equal(t, "after", dt.Idents.Info(v.Name()).Spelling)
}

// TestGotoAndLabelStmt covers "goto"/label-statement parsing.
func TestGotoAndLabelStmt(t *testing.T) {
	src := `int f() {
		goto done;
		done: return 0;
	}`
	p, dt, _, sink := newTestParser(src)
	ids := p.ParseTranslationUnit()
	require.Empty(t, sink.Diagnostics())

	fn := dt.Decl(ids[0]).(*decl.FunctionDecl)
	body := fn.Body.(*ast.CompoundStmtNode)
	gotoStmt := body.Body[0].(*ast.GotoStmtNode)
	labelStmt := body.Body[1].(*ast.LabelStmtNode)
	assert.Equal(t, "done", gotoStmt.Label)
	assert.Equal(t, "done", labelStmt.Name)
}

// TestBlockScopeStaticAssert covers the SUPPLEMENTED static_assert
// feature at block scope, both the passing and failing case.
func TestBlockScopeStaticAssert(t *testing.T) {
	p, _, _, sink := newTestParser(`int f() {
		_Static_assert(1, "ok");
		return 0;
	}`)
	p.ParseTranslationUnit()
	assert.Empty(t, sink.Diagnostics())

	p2, _, _, sink2 := newTestParser(`int g() {
		_Static_assert(0, "never");
		return 0;
	}`)
	p2.ParseTranslationUnit()
	require.Len(t, sink2.Diagnostics(), 1)
	assert.Equal(t, diag.DiagStaticAssertFailed, sink2.Diagnostics()[0].ID)
}

// TestFileScopeStaticAssert covers the file-scope form of the same
// feature, parsed directly by parseExternalDeclaration.
func TestFileScopeStaticAssert(t *testing.T) {
	p, _, _, sink := newTestParser(`_Static_assert(1, "file scope ok"); int x;`)
	ids := p.ParseTranslationUnit()
	require.Empty(t, sink.Diagnostics())
	require.Len(t, ids, 1)
}
