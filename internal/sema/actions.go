// Package sema implements Semantic Actions: the type-checking, implicit
// conversion, overload resolution, and constant-expression layer the
// Parser invokes after each syntactic unit, per spec.md §4.4. Grounded on
// spec.md §4.3's redeclaration contract (actions.go) and §4.4's conversion/
// overload/constant-expression contracts (convert.go, overload.go,
// constexpr.go).
package sema

import (
	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// Actions wires the Parser's semantic callbacks to the per-translation-
// unit registries spec.md §5 names (DeclTable, TypeContext) plus the
// diagnostic Sink.
type Actions struct {
	Decls *decl.DeclTable
	Types *types.TypeContext
	Diags *diag.Sink
}

// NewActions constructs Actions over an already-initialized DeclTable/
// TypeContext/Sink triple; Parser and Actions share these, never owning
// them exclusively.
func NewActions(dt *decl.DeclTable, tc *types.TypeContext, sink *diag.Sink) *Actions {
	return &Actions{Decls: dt, Types: tc, Diags: sink}
}

func sameCanonical(a, b types.QualType) bool {
	ac, bc := a.GetCanonicalType(), b.GetCanonicalType()
	return ac.T == bc.T && ac.Quals == bc.Quals
}

// ActOnVarDecl processes "name : qt" appearing in the current scope: if an
// ordinary-namespace decl with the same name is already visible, decides
// (per spec.md §4.3) whether this is a redeclaration (same canonical type:
// join the chain) or a conflicting redefinition (diagnose, still declare
// so parsing continues per spec.md §7's "well-formed but possibly
// type-invalid AST").
func (a *Actions) ActOnVarDecl(name decl.ID, qt types.QualType, storage decl.StorageClass, lexical, semantic decl.DeclID, loc source.SourceLocation) decl.DeclID {
	id := a.Decls.NewVarDecl(name, qt, storage, lexical, semantic, loc)
	if prior, ok := a.Decls.LookupOrdinary(name); ok {
		if priorVar, isVar := a.Decls.Decl(prior).(*decl.VarDecl); isVar {
			if sameCanonical(priorVar.Type, qt) {
				a.Decls.JoinRedeclChain(prior, id)
			} else {
				a.Diags.Report(diag.Error, diag.DiagConflictingTypes, loc, func(b *diag.Builder) {
					b.Arg(diag.ArgIdent(a.Decls.Idents.Info(name).Spelling))
				})
			}
		}
	}
	a.Decls.Declare(name, id, false)
	return id
}

// ActOnFunctionDecl is ActOnVarDecl's FunctionDecl analogue: a matching
// prior declaration with the same canonical function type joins the
// chain; a mismatched one is a conflicting-types diagnostic.
func (a *Actions) ActOnFunctionDecl(name decl.ID, qt types.QualType, storage decl.StorageClass, lexical, semantic decl.DeclID, loc source.SourceLocation) decl.DeclID {
	id := a.Decls.NewFunctionDecl(name, qt, storage, lexical, semantic, loc)
	if prior, ok := a.Decls.LookupOrdinary(name); ok {
		if priorFn, isFn := a.Decls.Decl(prior).(*decl.FunctionDecl); isFn {
			if sameCanonical(priorFn.Type, qt) {
				a.Decls.JoinRedeclChain(prior, id)
			} else {
				a.Diags.Report(diag.Error, diag.DiagConflictingTypes, loc, func(b *diag.Builder) {
					b.Arg(diag.ArgIdent(a.Decls.Idents.Info(name).Spelling))
				})
			}
		}
	}
	a.Decls.Declare(name, id, false)
	return id
}

// ActOnFunctionDefinition supplies fnID's body. Diagnoses (rather than
// panicking) when the chain already has a definition, since a
// double-definition is a semantic error the parser should recover from,
// not an internal invariant violation (spec.md §7 draws that line at
// "type mismatch, undeclared identifier" vs. "uniquing-key mismatch,
// unknown StmtClass").
func (a *Actions) ActOnFunctionDefinition(fnID decl.DeclID, body *ast.CompoundStmtNode, loc source.SourceLocation) {
	canon := a.Decls.CanonicalDecl(fnID)
	if a.Decls.DefinitionOf(canon) != decl.InvalidDeclID {
		a.Diags.Report(diag.Error, diag.DiagRedefinition, loc, func(b *diag.Builder) {
			name := a.Decls.Decl(fnID).Name()
			b.Arg(diag.ArgIdent(a.Decls.Idents.Info(name).Spelling))
		})
		return
	}
	a.Decls.DefineFunction(fnID, body)
}

// ActOnReturnStmt builds the ReturnStmt for "return value;" inside a
// function of the given return type, inserting an ImplicitCast (and
// diagnosing a narrowing float-to-int conversion) per spec.md's scenario
// E6.
func (a *Actions) ActOnReturnStmt(returnType types.QualType, value ast.Expr, loc source.SourceLocation) *ast.ReturnStmtNode {
	if value == nil {
		return ast.NewReturnStmt(loc, nil)
	}
	converted := a.ImplicitConvert(value, returnType, loc)
	return ast.NewReturnStmt(loc, converted)
}

// ActOnMemberExpr resolves "base.member" / "base->member", per spec.md
// §4.3's member lookup kind and scenario E3. ok is false when base's type
// is not a record (arrow dereferences a pointer-to-record first) or the
// member name is not found; the caller should report DiagUnknownMember.
func (a *Actions) ActOnMemberExpr(base ast.Expr, isArrow bool, memberName decl.ID, loc source.SourceLocation) (*ast.MemberExprNode, bool) {
	baseType := base.Type()
	if isArrow {
		if !baseType.IsPointerType() {
			return nil, false
		}
		baseType = baseType.GetCanonicalType().T.Pointee()
	}
	if !baseType.IsRecordType() {
		return nil, false
	}
	recID := decl.DeclID(baseType.GetCanonicalType().T.Decl())
	fieldID, ok := a.Decls.LookupMember(recID, memberName)
	if !ok {
		return nil, false
	}
	field := a.Decls.Decl(fieldID).(*decl.FieldDecl)
	vc := base.ValueCategory()
	if isArrow {
		vc = ast.LValue
	}
	return ast.NewMemberExpr(loc, field.Type, vc, base, fieldID, isArrow), true
}

// ActOnBinaryOperator type-checks and builds a BinaryOperator node, per
// spec.md §4.4: assignments convert the right-hand operand to the
// left-hand operand's type; comparisons apply the usual arithmetic
// conversions to the operands but always produce int; every other
// arithmetic operator converts both operands to their common type and
// produces a value of that type. Scenario E3's "s.a = 0" flows through
// this; scenario E6's float-to-int warning comes from ImplicitConvert,
// which this and ActOnReturnStmt share.
func (a *Actions) ActOnBinaryOperator(op ast.BinaryOpcode, lhs, rhs ast.Expr, loc source.SourceLocation) ast.Expr {
	if op.IsAssignment() {
		dest := lhs.Type()
		converted := a.ImplicitConvert(rhs, dest, loc)
		return ast.NewBinaryOperator(loc, dest, op, lhs, converted)
	}

	common := a.UsualArithmeticConversions(lhs.Type(), rhs.Type())
	lc := a.ImplicitConvert(lhs, common, loc)
	rc := a.ImplicitConvert(rhs, common, loc)

	if op.IsComparison() || op == ast.BOLAnd || op == ast.BOLOr {
		return ast.NewBinaryOperator(loc, a.Types.GetBuiltinType(types.Int), op, lc, rc)
	}
	return ast.NewBinaryOperator(loc, common, op, lc, rc)
}
