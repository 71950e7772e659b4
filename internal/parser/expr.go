package parser

import (
	"strconv"

	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// binPrec ranks each binary operator token's precedence for the
// precedence-climbing parser below (spec.md §4.4's Mul/Add/Shift/
// relational/equality/bitwise/logical operator family, C99's usual
// left-to-right binding order).
var binPrec = map[TokenKind]int{
	TokOrOr:   1,
	TokAndAnd: 2,
	TokPipe:   3,
	TokCaret:  4,
	TokAmp:    5,
	TokEQ:     6, TokNE: 6,
	TokLT: 7, TokGT: 7, TokLE: 7, TokGE: 7,
	TokShl: 8, TokShr: 8,
	TokPlus: 9, TokMinus: 9,
	TokStar: 10, TokSlash: 10, TokPercent: 10,
}

var binOpFor = map[TokenKind]ast.BinaryOpcode{
	TokOrOr: ast.BOLOr, TokAndAnd: ast.BOLAnd, TokPipe: ast.BOOr, TokCaret: ast.BOXor, TokAmp: ast.BOAnd,
	TokEQ: ast.BOEQ, TokNE: ast.BONE, TokLT: ast.BOLT, TokGT: ast.BOGT, TokLE: ast.BOLE, TokGE: ast.BOGE,
	TokShl: ast.BOShl, TokShr: ast.BOShr, TokPlus: ast.BOAdd, TokMinus: ast.BOSub,
	TokStar: ast.BOMul, TokSlash: ast.BODiv, TokPercent: ast.BORem,
}

var assignOpFor = map[TokenKind]ast.BinaryOpcode{
	TokAssign:       ast.BOAssign,
	TokPlusAssign:   ast.BOAddAssign,
	TokMinusAssign:  ast.BOSubAssign,
	TokStarAssign:   ast.BOMulAssign,
	TokSlashAssign:  ast.BODivAssign,
	TokPercentAssign: ast.BORemAssign,
	TokAmpAssign:    ast.BOAndAssign,
	TokPipeAssign:   ast.BOOrAssign,
	TokCaretAssign:  ast.BOXorAssign,
	TokShlAssign:    ast.BOShlAssign,
	TokShrAssign:    ast.BOShrAssign,
}

// parseExpr parses a comma-expression, the top-level grammar production
// for a for-statement's init/inc clauses and an expression-statement.
func (p *Parser) parseExpr() ast.Expr {
	e := p.parseAssignExpr()
	for p.cur.Kind == TokComma {
		loc := p.cur.Loc
		p.Advance()
		rhs := p.parseAssignExpr()
		e = ast.NewBinaryOperator(loc, rhs.Type(), ast.BOComma, e, rhs)
	}
	return e
}

// parseAssignExpr parses "conditional-expr (assign-op assignment-expr)?",
// right-associative per C99's grammar. Routes every assignment through
// Actions.ActOnBinaryOperator so scenario E3's conversion/warning logic
// runs uniformly.
func (p *Parser) parseAssignExpr() ast.Expr {
	lhs := p.parseConditionalExpr()
	if op, ok := assignOpFor[p.cur.Kind]; ok {
		loc := p.cur.Loc
		p.Advance()
		rhs := p.parseAssignExpr()
		return p.Actions.ActOnBinaryOperator(op, lhs, rhs, loc)
	}
	return lhs
}

// parseConditionalExpr parses "logical-or-expr ('?' expr ':' conditional-expr)?".
func (p *Parser) parseConditionalExpr() ast.Expr {
	cond := p.parseBinaryExpr(1)
	if p.cur.Kind != TokQuestion {
		return cond
	}
	loc := p.cur.Loc
	p.Advance()
	then := p.parseExpr()
	p.Expect(TokColon, "':'")
	els := p.parseConditionalExpr()
	return p.actOnConditional(cond, then, els, loc)
}

func (p *Parser) actOnConditional(cond, then, els ast.Expr, loc source.SourceLocation) ast.Expr {
	common := then.Type()
	if then.Type().IsArithmeticType() && els.Type().IsArithmeticType() {
		common = p.Actions.UsualArithmeticConversions(then.Type(), els.Type())
		then = p.Actions.ImplicitConvert(then, common, loc)
		els = p.Actions.ImplicitConvert(els, common, loc)
	}
	return ast.NewConditionalExpr(loc, common, ast.RValue, cond, then, els)
}

// parseBinaryExpr implements precedence climbing over binPrec, per
// spec.md §4.4's binary-operator family; minPrec is the lowest precedence
// level this call is willing to consume (parseConditionalExpr starts it
// at 1, just above the comma operator parseExpr handles itself).
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	lhs := p.parseCastExpr()
	for {
		prec, ok := binPrec[p.cur.Kind]
		if !ok || prec < minPrec {
			return lhs
		}
		op := binOpFor[p.cur.Kind]
		loc := p.cur.Loc
		p.Advance()
		rhs := p.parseBinaryExpr(prec + 1)
		lhs = p.Actions.ActOnBinaryOperator(op, lhs, rhs, loc)
	}
}

// parseCastExpr disambiguates "(type-name) cast-expr" and "(type-name){
// init-list }" compound literals from a parenthesized expression via
// tentative parsing (spec.md §9): only a builtin/struct/union/enum
// type-specifier is recognized as starting a type-name here, since this
// parser tracks no typedef-name table to disambiguate "(Ident)" generally
// — a simplification noted in DESIGN.md.
func (p *Parser) parseCastExpr() ast.Expr {
	if p.cur.Kind == TokLParen {
		mark := p.Mark()
		loc := p.cur.Loc
		p.Advance()
		if spec, ok := p.parseDeclarationSpecifiers(); ok {
			qt := p.parseAbstractDeclaratorSuffix(spec.qt)
			if p.cur.Kind == TokRParen {
				p.Advance()
				if p.cur.Kind == TokLBrace {
					init := p.parseInitList(qt)
					return ast.NewCompoundLiteralExpr(loc, qt, init)
				}
				sub := p.parseCastExpr()
				return p.actOnCast(qt, sub, loc)
			}
		}
		p.Revert(mark)
	}
	return p.parseUnaryExpr()
}

func (p *Parser) parseAbstractDeclaratorSuffix(base types.QualType) types.QualType {
	qt := base
	for p.cur.Kind == TokStar {
		p.Advance()
		for p.cur.Kind == TokKwConst || p.cur.Kind == TokKwVolatile {
			p.Advance()
		}
		qt = p.Types.GetPointer(qt)
	}
	return qt
}

func castKindFor(src, dest types.QualType) ast.CastKind {
	switch {
	case src.IsArrayType() && dest.IsPointerType():
		return ast.CastArrayToPointerDecay
	case src.IsFunctionType() && dest.IsPointerType():
		return ast.CastFunctionToPointerDecay
	case src.IsIntegerType() && dest.IsRealFloatingType():
		return ast.CastIntegralToFloating
	case src.IsRealFloatingType() && dest.IsIntegerType():
		return ast.CastFloatingToIntegral
	case src.IsRealFloatingType() && dest.IsRealFloatingType():
		return ast.CastFloatingCast
	case src.IsIntegerType() && dest.IsIntegerType():
		return ast.CastIntegralCast
	case src.IsPointerType() && dest.IsIntegerType():
		return ast.CastPointerToIntegral
	case src.IsIntegerType() && dest.IsPointerType():
		return ast.CastIntegralToPointer
	default:
		return ast.CastBitCast
	}
}

func (p *Parser) actOnCast(dest types.QualType, sub ast.Expr, loc source.SourceLocation) ast.Expr {
	return ast.NewCStyleCastExpr(loc, dest, castKindFor(sub.Type(), dest), sub)
}

// parseUnaryExpr parses prefix unary operators and sizeof; anything else
// (including _Alignof, which has no token kind) falls through to
// parsePostfixExpr.
func (p *Parser) parseUnaryExpr() ast.Expr {
	loc := p.cur.Loc
	switch p.cur.Kind {
	case TokPlusPlus:
		p.Advance()
		return p.actOnUnary(ast.UOPreInc, p.parseUnaryExpr(), loc)
	case TokMinusMinus:
		p.Advance()
		return p.actOnUnary(ast.UOPreDec, p.parseUnaryExpr(), loc)
	case TokAmp:
		p.Advance()
		return p.actOnUnary(ast.UOAddrOf, p.parseCastExpr(), loc)
	case TokStar:
		p.Advance()
		return p.actOnUnary(ast.UODeref, p.parseCastExpr(), loc)
	case TokPlus:
		p.Advance()
		return p.actOnUnary(ast.UOPlus, p.parseCastExpr(), loc)
	case TokMinus:
		p.Advance()
		return p.actOnUnary(ast.UOMinus, p.parseCastExpr(), loc)
	case TokTilde:
		p.Advance()
		return p.actOnUnary(ast.UONot, p.parseCastExpr(), loc)
	case TokNot:
		p.Advance()
		return p.actOnUnary(ast.UOLNot, p.parseCastExpr(), loc)
	case TokKwSizeof:
		p.Advance()
		if p.cur.Kind == TokLParen {
			mark := p.Mark()
			p.Advance()
			if spec, ok := p.parseDeclarationSpecifiers(); ok {
				qt := p.parseAbstractDeclaratorSuffix(spec.qt)
				if p.cur.Kind == TokRParen {
					p.Advance()
					return ast.NewSizeOfAlignOfExprType(loc, p.Types.GetBuiltinType(types.ULong), true, qt)
				}
			}
			p.Revert(mark)
		}
		sub := p.parseUnaryExpr()
		return ast.NewSizeOfAlignOfExprExpr(loc, p.Types.GetBuiltinType(types.ULong), true, sub)
	default:
		return p.parsePostfixExpr()
	}
}

// actOnUnary computes a UnaryOperatorNode's result type and value
// category per spec.md §4.4's operator-specific rules: address-of
// produces a pointer, dereference an lvalue of the pointee type,
// increment/decrement keep the operand's own type and category, logical
// negation always yields int, and the remaining arithmetic unary
// operators apply integer promotion (spec.md §4.4's C99 6.3 reference).
func (p *Parser) actOnUnary(op ast.UnaryOpcode, sub ast.Expr, loc source.SourceLocation) ast.Expr {
	switch op {
	case ast.UOAddrOf:
		return ast.NewUnaryOperator(loc, p.Types.GetPointer(sub.Type()), ast.RValue, op, sub)
	case ast.UODeref:
		st := sub.Type()
		var resTy types.QualType
		if st.IsPointerType() {
			resTy = st.GetCanonicalType().T.Pointee()
		} else {
			resTy = st
		}
		return ast.NewUnaryOperator(loc, resTy, ast.LValue, op, sub)
	case ast.UOPreInc, ast.UOPreDec, ast.UOPostInc, ast.UOPostDec:
		return ast.NewUnaryOperator(loc, sub.Type(), sub.ValueCategory(), op, sub)
	case ast.UOLNot:
		return ast.NewUnaryOperator(loc, p.Types.GetBuiltinType(types.Int), ast.RValue, op, sub)
	default: // UOPlus, UOMinus, UONot
		promoted := p.Actions.IntegerPromote(sub.Type())
		converted := p.Actions.ImplicitConvert(sub, promoted, loc)
		return ast.NewUnaryOperator(loc, promoted, ast.RValue, op, converted)
	}
}

// parsePostfixExpr parses a primary-expr followed by any number of
// subscript/call/member/post-increment suffixes.
func (p *Parser) parsePostfixExpr() ast.Expr {
	e := p.parsePrimaryExpr()
	for {
		loc := p.cur.Loc
		switch p.cur.Kind {
		case TokLBracket:
			p.Advance()
			index := p.parseExpr()
			p.Expect(TokRBracket, "']'")
			e = p.actOnArraySubscript(e, index, loc)
		case TokLParen:
			p.Advance()
			var args []ast.Expr
			if p.cur.Kind != TokRParen {
				for {
					args = append(args, p.parseAssignExpr())
					if p.cur.Kind != TokComma {
						break
					}
					p.Advance()
				}
			}
			p.Expect(TokRParen, "')'")
			e = p.actOnCall(e, args, loc)
		case TokDot:
			p.Advance()
			name, ok := p.expectIdent()
			if !ok {
				return e
			}
			if member, ok := p.Actions.ActOnMemberExpr(e, false, name, loc); ok {
				e = member
			} else {
				p.reportUnknownMember(name, loc)
			}
		case TokArrow:
			p.Advance()
			name, ok := p.expectIdent()
			if !ok {
				return e
			}
			if member, ok := p.Actions.ActOnMemberExpr(e, true, name, loc); ok {
				e = member
			} else {
				p.reportUnknownMember(name, loc)
			}
		case TokPlusPlus:
			p.Advance()
			e = p.actOnUnary(ast.UOPostInc, e, loc)
		case TokMinusMinus:
			p.Advance()
			e = p.actOnUnary(ast.UOPostDec, e, loc)
		default:
			return e
		}
	}
}

func (p *Parser) reportUnknownMember(name decl.ID, loc source.SourceLocation) {
	p.Diags.Report(diag.Error, diag.DiagUnknownMember, loc, func(b *diag.Builder) {
		b.Arg(diag.ArgIdent(p.Decls.Idents.Info(name).Spelling))
	})
}

func (p *Parser) expectIdent() (decl.ID, bool) {
	if p.cur.Kind != TokIdentifier {
		p.Diags.Report(diag.Error, diag.DiagExpectedToken, p.cur.Loc, func(b *diag.Builder) {
			b.Arg(diag.ArgS("identifier"))
		})
		return decl.InvalidID, false
	}
	name := p.cur.Ident
	p.Advance()
	return name, true
}

func (p *Parser) actOnArraySubscript(base, index ast.Expr, loc source.SourceLocation) ast.Expr {
	baseType := p.Actions.DecayType(base.Type())
	var elemTy types.QualType
	if baseType.IsPointerType() {
		elemTy = baseType.GetCanonicalType().T.Pointee()
	} else {
		elemTy = baseType
	}
	return ast.NewArraySubscriptExpr(loc, elemTy, base, index)
}

func (p *Parser) actOnCall(callee ast.Expr, args []ast.Expr, loc source.SourceLocation) ast.Expr {
	calleeType := callee.Type()
	var resultTy types.QualType
	switch {
	case calleeType.IsFunctionType():
		resultTy = calleeType.GetCanonicalType().T.Result()
	case calleeType.IsPointerType():
		pointee := calleeType.GetCanonicalType().T.Pointee()
		if pointee.IsFunctionType() {
			resultTy = pointee.GetCanonicalType().T.Result()
		} else {
			resultTy = pointee
		}
	default:
		resultTy = calleeType
	}
	return ast.NewCallExpr(loc, resultTy, callee, args)
}

// parsePrimaryExpr parses a literal, identifier reference, or
// parenthesized sub-expression, per spec.md §3's Expr leaf productions.
func (p *Parser) parsePrimaryExpr() ast.Expr {
	loc := p.cur.Loc
	switch p.cur.Kind {
	case TokIntegerLiteral:
		text := p.cur.Text
		p.Advance()
		return ast.NewIntegerLiteral(loc, p.Types.GetBuiltinType(types.Int), parseUintLiteral(text))
	case TokFloatingLiteral:
		text := p.cur.Text
		p.Advance()
		return ast.NewFloatingLiteral(loc, p.Types.GetBuiltinType(types.Double), parseFloatLiteral(text))
	case TokCharacterLiteral:
		text := p.cur.Text
		p.Advance()
		var c int32
		if len(text) > 0 {
			c = int32(text[0])
		}
		return ast.NewCharacterLiteral(loc, p.Types.GetBuiltinType(types.Int), c)
	case TokStringLiteral:
		text := p.cur.Text
		p.Advance()
		charTy := p.Types.GetBuiltinType(types.Char)
		strTy := p.Types.GetConstantArray(charTy, uint64(len(text)+1), types.Normal)
		return ast.NewStringLiteral(loc, strTy, text)
	case TokIdentifier:
		name := p.cur.Ident
		p.Advance()
		return p.actOnIdentifierExpr(name, loc)
	case TokLParen:
		p.Advance()
		e := p.parseExpr()
		p.Expect(TokRParen, "')'")
		return ast.NewParenExpr(loc, e)
	default:
		p.Diags.Report(diag.Error, diag.DiagUnexpectedToken, loc, func(b *diag.Builder) {
			b.Arg(diag.ArgS("expression"))
		})
		if p.cur.Kind != TokEOF {
			p.Advance()
		}
		return ast.NewIntegerLiteral(loc, p.Types.GetBuiltinType(types.Int), 0)
	}
}

// actOnIdentifierExpr resolves an identifier use against the visible
// ordinary-namespace declaration (spec.md §4.3's identifier resolver
// chain), diagnosing DiagUnknownIdentifier and synthesizing a placeholder
// int(0) so the caller's expression tree stays well-formed, per spec.md
// §7.
func (p *Parser) actOnIdentifierExpr(name decl.ID, loc source.SourceLocation) ast.Expr {
	id, ok := p.Decls.LookupOrdinary(name)
	if !ok {
		p.Diags.Report(diag.Error, diag.DiagUnknownIdentifier, loc, func(b *diag.Builder) {
			b.Arg(diag.ArgIdent(p.Decls.Idents.Info(name).Spelling))
		})
		return ast.NewIntegerLiteral(loc, p.Types.GetBuiltinType(types.Int), 0)
	}
	switch d := p.Decls.Decl(id).(type) {
	case *decl.VarDecl:
		return ast.NewDeclRefExpr(loc, d.Type, ast.LValue, id)
	case *decl.ParmDecl:
		return ast.NewDeclRefExpr(loc, d.Type, ast.LValue, id)
	case *decl.FunctionDecl:
		return ast.NewDeclRefExpr(loc, d.Type, ast.LValue, id)
	case *decl.EnumConstantDecl:
		return ast.NewDeclRefExpr(loc, d.Type, ast.RValue, id)
	default:
		return ast.NewDeclRefExpr(loc, types.QualType{}, ast.RValue, id)
	}
}

// parseInitList parses "{ elem, elem, ... }", recursing into nested
// brace-lists for aggregate-of-aggregate initializers. qt is the
// initializer's target type where known (a variable's own type, or a
// compound literal's type-name); it is not otherwise validated against
// the elements here — per-member/per-element type-checking of aggregate
// initializers is left for a later pass, consistent with spec.md §1's
// Non-goals excluding full initializer-list checking.
func (p *Parser) parseInitList(qt types.QualType) *ast.InitListExprNode {
	loc := p.cur.Loc
	p.Expect(TokLBrace, "'{'")
	var elems []ast.Expr
	for p.cur.Kind != TokRBrace && p.cur.Kind != TokEOF {
		if p.cur.Kind == TokLBrace {
			elems = append(elems, p.parseInitList(types.QualType{}))
		} else {
			elems = append(elems, p.parseAssignExpr())
		}
		if p.cur.Kind != TokComma {
			break
		}
		p.Advance()
	}
	p.Expect(TokRBrace, "'}'")
	return ast.NewInitListExpr(loc, qt, elems)
}

// parseFloatLiteral best-effort decodes a floating literal's spelling,
// mirroring parseUintLiteral's "the preprocessor owns exact lexical
// decoding" stance (spec.md §6.1): a spelling strconv can't parse (an
// unsupported suffix, say) yields 0 rather than aborting the parse.
func parseFloatLiteral(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return v
}
