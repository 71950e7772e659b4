package parser

import (
	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/types"
)

// declSpec is the parsed result of a declaration-specifier sequence: the
// base type plus the storage-class keyword, if any, and whether `typedef`
// introduced it.
type declSpec struct {
	qt       types.QualType
	storage  decl.StorageClass
	isTypedef bool
}

var builtinKeyword = map[TokenKind]types.BuiltinKind{
	TokKwVoid:   types.Void,
	TokKwChar:   types.Char,
	TokKwInt:    types.Int,
	TokKwFloat:  types.Float,
	TokKwDouble: types.Double,
	TokKwBool:   types.Bool,
}

// parseDeclarationSpecifiers consumes storage-class keywords, type
// qualifiers, and a single type-specifier (builtin or struct/union/enum; a
// typedef-name is not recognized, since the parser keeps no typedef-name
// table), per spec.md §4.2's Type model. signed/unsigned/short/long
// combinations are resolved with the handful of combinations C99 actually
// permits; anything else is not diagnosed and resolves through the same
// table, ignoring a modifier that does not apply to the base keyword (a
// simplification noted in DESIGN.md alongside convert.go's
// usual-arithmetic-conversions one).
func (p *Parser) parseDeclarationSpecifiers() (declSpec, bool) {
	var spec declSpec
	var signedSeen, unsignedSeen, shortSeen, longCount int
	var base TokenKind = TokEOF
	var quals types.Qualifiers
	sawType := false

	for {
		switch p.cur.Kind {
		case TokKwTypedef:
			spec.isTypedef = true
			p.Advance()
		case TokKwStatic:
			spec.storage = decl.StorageStatic
			p.Advance()
		case TokKwExtern:
			spec.storage = decl.StorageExtern
			p.Advance()
		case TokKwAuto:
			spec.storage = decl.StorageAuto
			p.Advance()
		case TokKwRegister:
			spec.storage = decl.StorageRegister
			p.Advance()
		case TokKwConst:
			quals |= types.Const
			p.Advance() // qualifiers folded into WithQualifiers below
		case TokKwVolatile:
			quals |= types.Volatile
			p.Advance()
		case TokKwSigned:
			signedSeen++
			p.Advance()
		case TokKwUnsigned:
			unsignedSeen++
			p.Advance()
		case TokKwShort:
			shortSeen++
			p.Advance()
		case TokKwLong:
			longCount++
			p.Advance()
		case TokKwVoid, TokKwChar, TokKwInt, TokKwFloat, TokKwDouble, TokKwBool:
			if sawType {
				return spec, sawType
			}
			base = p.cur.Kind
			sawType = true
			p.Advance()
		case TokKwStruct, TokKwUnion:
			qt, ok := p.parseRecordSpecifier()
			if !ok {
				return spec, false
			}
			spec.qt = qt.WithQualifiers(quals)
			return spec, true
		case TokKwEnum:
			qt, ok := p.parseEnumSpecifier()
			if !ok {
				return spec, false
			}
			spec.qt = qt.WithQualifiers(quals)
			return spec, true
		default:
			if base == TokEOF && !sawType && (signedSeen > 0 || unsignedSeen > 0 || shortSeen > 0 || longCount > 0) {
				base = TokKwInt
				sawType = true
			}
			if !sawType {
				return spec, false
			}
			spec.qt = p.resolveBuiltin(base, signedSeen, unsignedSeen, shortSeen, longCount).WithQualifiers(quals)
			return spec, true
		}
	}
}

func (p *Parser) resolveBuiltin(base TokenKind, signedSeen, unsignedSeen, shortSeen, longCount int) types.QualType {
	switch base {
	case TokKwChar:
		if unsignedSeen > 0 {
			return p.Types.GetBuiltinType(types.UChar)
		}
		if signedSeen > 0 {
			return p.Types.GetBuiltinType(types.SChar)
		}
		return p.Types.GetBuiltinType(types.Char)
	case TokKwInt:
		switch {
		case shortSeen > 0 && unsignedSeen > 0:
			return p.Types.GetBuiltinType(types.UShort)
		case shortSeen > 0:
			return p.Types.GetBuiltinType(types.Short)
		case longCount >= 2 && unsignedSeen > 0:
			return p.Types.GetBuiltinType(types.ULongLong)
		case longCount >= 2:
			return p.Types.GetBuiltinType(types.LongLong)
		case longCount == 1 && unsignedSeen > 0:
			return p.Types.GetBuiltinType(types.ULong)
		case longCount == 1:
			return p.Types.GetBuiltinType(types.Long)
		case unsignedSeen > 0:
			return p.Types.GetBuiltinType(types.UInt)
		default:
			return p.Types.GetBuiltinType(types.Int)
		}
	case TokKwDouble:
		if longCount > 0 {
			return p.Types.GetBuiltinType(types.LongDouble)
		}
		return p.Types.GetBuiltinType(types.Double)
	default:
		if bk, ok := builtinKeyword[base]; ok {
			return p.Types.GetBuiltinType(bk)
		}
		return p.Types.GetBuiltinType(types.Int)
	}
}

// parseRecordSpecifier parses "struct|union Name? { fields }?", per
// spec.md §9's two-phase RecordDecl construction. A bare mention of a
// previously declared tag ("struct S s;" after "struct S { ... };")
// resolves back to the same RecordDecl via the tag namespace rather than
// allocating an unrelated incomplete one, per spec.md §4.3's two-namespace
// (ordinary/tag) lookup rule.
func (p *Parser) parseRecordSpecifier() (types.QualType, bool) {
	tag := decl.TagStruct
	if p.cur.Kind == TokKwUnion {
		tag = decl.TagUnion
	}
	p.Advance()

	var name decl.ID
	if p.cur.Kind == TokIdentifier {
		name = p.cur.Ident
		p.Advance()
	}

	var recID decl.DeclID
	if name != decl.InvalidID {
		if existing, ok := p.Decls.LookupTag(name); ok {
			recID = existing
		}
	}
	if recID == decl.InvalidDeclID {
		recID = p.Decls.NewRecordDecl(name, tag, p.curDeclContext, p.curDeclContext, p.cur.Loc)
		if name != decl.InvalidID {
			p.Decls.Declare(name, recID, true)
		}
	}
	recTy := p.Types.GetRecord(recID.AsTypeRef())

	if p.cur.Kind != TokLBrace {
		return recTy, true
	}
	p.Advance()

	var fields []decl.DeclID
	for p.cur.Kind != TokRBrace && p.cur.Kind != TokEOF {
		fspec, ok := p.parseDeclarationSpecifiers()
		if !ok {
			p.SkipUntil(map[TokenKind]bool{TokSemi: true, TokRBrace: true}, "field declarator")
			if p.cur.Kind == TokSemi {
				p.Advance()
			}
			continue
		}
		for {
			fname, fqt, _, ok := p.parseDeclarator(fspec.qt)
			if ok {
				field := p.Decls.NewFieldDecl(fname, fqt, recID, recID, p.cur.Loc)
				if p.cur.Kind == TokColon {
					p.Advance()
					width := p.parseConditionalExpr()
					fd := p.Decls.Decl(field).(*decl.FieldDecl)
					fd.BitWidth = width
					fd.IsBitField = true
				}
				fields = append(fields, field)
			}
			if p.cur.Kind != TokComma {
				break
			}
			p.Advance()
		}
		p.Expect(TokSemi, "';'")
	}
	p.Expect(TokRBrace, "'}'")
	p.Decls.CompleteRecordDecl(recID, fields, nil)
	p.Types.CompleteRecord(recID.AsTypeRef())
	return recTy, true
}

// parseEnumSpecifier parses "enum Name? { Const (= Expr)?, ... }?", with
// the same tag-namespace reuse parseRecordSpecifier applies for a bare
// re-mention of a previously declared enum.
func (p *Parser) parseEnumSpecifier() (types.QualType, bool) {
	p.Advance() // 'enum'
	var name decl.ID
	if p.cur.Kind == TokIdentifier {
		name = p.cur.Ident
		p.Advance()
	}

	var enumID decl.DeclID
	if name != decl.InvalidID {
		if existing, ok := p.Decls.LookupTag(name); ok {
			enumID = existing
		}
	}
	if enumID == decl.InvalidDeclID {
		enumID = p.Decls.NewEnumDecl(name, p.curDeclContext, p.curDeclContext, p.cur.Loc)
		if name != decl.InvalidID {
			p.Decls.Declare(name, enumID, true)
		}
	}
	intTy := p.Types.GetBuiltinType(types.Int)
	enumTy := p.Types.GetEnum(enumID.AsTypeRef())

	if p.cur.Kind != TokLBrace {
		return enumTy, true
	}
	p.Advance()

	next := int64(0)
	for p.cur.Kind != TokRBrace && p.cur.Kind != TokEOF {
		if p.cur.Kind != TokIdentifier {
			break
		}
		cname := p.cur.Ident
		p.Advance()

		var expr ast.Expr
		value := next
		if p.cur.Kind == TokAssign {
			p.Advance()
			e := p.parseConditionalExpr()
			expr = e
			if v, ok := p.Actions.EvaluateConstantExpr(e); ok && !v.IsFloat {
				value = v.I
			}
		}
		constID := p.Decls.NewEnumConstantDecl(cname, enumID, intTy, value, expr, p.cur.Loc)
		p.Decls.Declare(cname, constID, false)
		next = value + 1

		if p.cur.Kind != TokComma {
			break
		}
		p.Advance()
	}
	p.Expect(TokRBrace, "'}'")
	p.Decls.CompleteEnumDecl(enumID, intTy)
	p.Types.CompleteEnum(enumID.AsTypeRef())
	return enumTy, true
}

// parseDeclarator parses "*... Identifier (array/function suffix)*",
// building up base through pointer and array/function derivation per
// spec.md §4.2. params is non-nil only when the declarator's outermost
// suffix is a function parameter-type-list, carrying each parameter's
// name alongside its type so a later function definition can declare them
// by name in the body's scope.
func (p *Parser) parseDeclarator(base types.QualType) (name decl.ID, qt types.QualType, params []paramDeclarator, ok bool) {
	qt = base
	for p.cur.Kind == TokStar {
		p.Advance()
		for p.cur.Kind == TokKwConst || p.cur.Kind == TokKwVolatile {
			p.Advance()
		}
		qt = p.Types.GetPointer(qt)
	}

	if p.cur.Kind == TokIdentifier {
		name = p.cur.Ident
		p.Advance()
	} else {
		return name, qt, nil, false
	}

	for {
		switch p.cur.Kind {
		case TokLBracket:
			p.Advance()
			var size uint64 = 0
			if p.cur.Kind == TokIntegerLiteral {
				size = parseUintLiteral(p.cur.Text)
				p.Advance()
			}
			p.Expect(TokRBracket, "']'")
			qt = p.Types.GetConstantArray(qt, size, types.Normal)
		case TokLParen:
			p.Advance()
			ps, variadic := p.parseParamList()
			p.Expect(TokRParen, "')'")
			paramTypes := make([]types.QualType, len(ps))
			for i, pr := range ps {
				paramTypes[i] = pr.qt
			}
			qt = p.Types.GetFunctionProto(qt, paramTypes, variadic, 0)
			return name, qt, ps, true
		default:
			return name, qt, nil, true
		}
	}
}

type paramDeclarator struct {
	name decl.ID
	qt   types.QualType
}

// parseParamList parses a function declarator's parameter-type-list.
func (p *Parser) parseParamList() ([]paramDeclarator, bool) {
	var params []paramDeclarator
	if p.cur.Kind == TokRParen {
		return params, false
	}
	for {
		if p.cur.Kind == TokEllipsis {
			p.Advance()
			return params, true
		}
		pspec, ok := p.parseDeclarationSpecifiers()
		if !ok {
			break
		}
		pname, pqt, _, _ := p.parseDeclarator(pspec.qt)
		pqt = p.Actions.DecayType(pqt)
		params = append(params, paramDeclarator{name: pname, qt: pqt})
		if p.cur.Kind != TokComma {
			break
		}
		p.Advance()
	}
	return params, false
}

// parseUintLiteral decodes a decimal integer literal's spelling. Hex/octal
// and suffix handling (spec.md leaves exact lexical decoding to the
// preprocessor, per §6.1) are intentionally not modeled beyond plain
// decimal digits — see DESIGN.md.
func parseUintLiteral(text string) uint64 {
	var v uint64
	for _, r := range text {
		if r < '0' || r > '9' {
			break
		}
		v = v*10 + uint64(r-'0')
	}
	return v
}

// parseExternalDeclaration parses one top-level declaration: either a
// function definition (declarator followed by '{') or one or more
// declarators terminated by ';', per spec.md §4.3's redeclaration
// contract (via Actions.ActOnVarDecl/ActOnFunctionDecl).
func (p *Parser) parseExternalDeclaration() ([]decl.DeclID, bool) {
	if p.cur.Kind == TokKwStaticAssert {
		p.parseStaticAssertStmt()
		return nil, true
	}
	spec, ok := p.parseDeclarationSpecifiers()
	if !ok {
		return nil, false
	}
	if p.cur.Kind == TokSemi {
		p.Advance()
		return nil, true // a bare "struct S;" / "enum E;" tag declaration
	}

	var out []decl.DeclID
	for {
		name, qt, params, ok := p.parseDeclarator(spec.qt)
		if !ok {
			return out, false
		}

		ctx := p.curDeclContext

		if qt.IsFunctionType() && p.cur.Kind == TokLBrace {
			fn := p.Actions.ActOnFunctionDecl(name, qt, spec.storage, ctx, ctx, p.cur.Loc)
			body := p.parseFunctionBody(fn, qt, params)
			p.Actions.ActOnFunctionDefinition(fn, body, body.Loc())
			out = append(out, fn)
			return out, true
		}

		var id decl.DeclID
		if spec.isTypedef {
			id = p.Decls.NewTypedefDecl(name, qt, ctx, ctx, p.cur.Loc)
			p.Decls.Declare(name, id, false)
		} else if qt.IsFunctionType() {
			id = p.Actions.ActOnFunctionDecl(name, qt, spec.storage, ctx, ctx, p.cur.Loc)
		} else {
			id = p.Actions.ActOnVarDecl(name, qt, spec.storage, ctx, ctx, p.cur.Loc)
			if p.cur.Kind == TokAssign {
				p.Advance()
				var init ast.Expr
				if p.cur.Kind == TokLBrace {
					init = p.parseInitList(qt)
				} else {
					init = p.parseAssignExpr()
				}
				p.Decls.Decl(id).(*decl.VarDecl).Init = init
			}
		}
		out = append(out, id)

		if p.cur.Kind != TokComma {
			break
		}
		p.Advance()
	}
	p.Expect(TokSemi, "';'")
	return out, true
}

// bindFunctionParams builds a ParmDecl for each of a function definition's
// declarator-parsed parameters, declared by its real name in the
// already-pushed function-body scope (FnScopeKind|BlockScopeKind; no
// separate FunctionPrototypeScopeKind frame is pushed), and records the
// list on fnID. params came straight out of
// parseDeclarator's function-suffix branch, so each one's name is the
// identifier the source actually spelled, not a placeholder.
func (p *Parser) bindFunctionParams(fnID decl.DeclID, params []paramDeclarator) []decl.DeclID {
	ids := make([]decl.DeclID, len(params))
	for i, pr := range params {
		id := p.Decls.NewParmDecl(pr.name, pr.qt, i, fnID, fnID, p.cur.Loc)
		ids[i] = id
		if pr.name != decl.InvalidID {
			p.Decls.Declare(pr.name, id, false)
		}
	}
	p.Decls.SetFunctionParams(fnID, ids)
	return ids
}

// parseFunctionBody parses "{ ... }" inside a fresh FnScope+BlockScope,
// with fnID's parameters declared and visible (spec.md §4.3's
// FunctionPrototypeScope feeding the function body's scope).
func (p *Parser) parseFunctionBody(fnID decl.DeclID, qt types.QualType, params []paramDeclarator) *ast.CompoundStmtNode {
	p.PushScope(decl.FnScopeKind | decl.BlockScopeKind)
	defer p.PopScope()

	p.bindFunctionParams(fnID, params)

	prevCtx, prevRet := p.curDeclContext, p.curFnReturnType
	p.curDeclContext = fnID
	p.curFnReturnType = qt.GetCanonicalType().T.Result()
	defer func() { p.curDeclContext, p.curFnReturnType = prevCtx, prevRet }()

	return p.parseCompoundStmt()
}
