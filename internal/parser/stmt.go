package parser

import (
	"github.com/oxhq/ccore/internal/ast"
	"github.com/oxhq/ccore/internal/decl"
)

// parseCompoundStmt parses "{ (declaration | statement)* }" inside a
// fresh BlockScope, per spec.md §4.3's block-scope kind. The opening
// brace's scope is pushed by the caller when it is a function body (so
// parameters share the block's scope); every other call site pushes its
// own.
func (p *Parser) parseCompoundStmt() *ast.CompoundStmtNode {
	loc := p.cur.Loc
	p.Expect(TokLBrace, "'{'")
	var body []ast.Stmt
	for p.cur.Kind != TokRBrace && p.cur.Kind != TokEOF {
		body = append(body, p.parseBlockItem())
	}
	p.Expect(TokRBrace, "'}'")
	return ast.NewCompoundStmt(loc, body)
}

// parseNestedCompoundStmt is parseCompoundStmt wrapped in its own
// BlockScope, for a compound statement that is itself a statement (an
// if/while/for body written as "{ ... }", not a function's own body).
func (p *Parser) parseNestedCompoundStmt() *ast.CompoundStmtNode {
	p.PushScope(decl.BlockScopeKind)
	defer p.PopScope()
	return p.parseCompoundStmt()
}

// parseBlockItem parses one declaration-or-statement inside a compound
// statement, recovering to the next ';'/'}' on a parse failure per
// spec.md §7.
func (p *Parser) parseBlockItem() ast.Stmt {
	if p.startsDeclaration() {
		mark := p.Mark()
		ids, ok := p.parseExternalDeclaration()
		if !ok {
			p.Revert(mark)
			loc := p.cur.Loc
			p.SkipUntil(map[TokenKind]bool{TokSemi: true, TokRBrace: true}, "; or }")
			if p.cur.Kind == TokSemi {
				p.Advance()
			}
			return ast.NewNullStmt(loc)
		}
		return ast.NewDeclStmt(p.cur.Loc, ids)
	}
	return p.parseStmt()
}

// startsDeclaration reports whether the current token can begin a
// declaration-specifier sequence, the lookahead parseBlockItem needs to
// decide between a declaration and an expression-statement (spec.md §9's
// tentative-parsing discipline, resolved here with a plain token-kind
// check since this parser tracks no typedef-name table to disambiguate
// a bare identifier).
func (p *Parser) startsDeclaration() bool {
	switch p.cur.Kind {
	case TokKwVoid, TokKwChar, TokKwShort, TokKwInt, TokKwLong, TokKwFloat, TokKwDouble,
		TokKwSigned, TokKwUnsigned, TokKwBool, TokKwStruct, TokKwUnion, TokKwEnum,
		TokKwTypedef, TokKwConst, TokKwVolatile, TokKwStatic, TokKwExtern, TokKwAuto, TokKwRegister:
		return true
	default:
		return false
	}
}

// parseStmt parses one statement, per spec.md §3's Stmt node family.
func (p *Parser) parseStmt() ast.Stmt {
	loc := p.cur.Loc
	switch p.cur.Kind {
	case TokLBrace:
		return p.parseNestedCompoundStmt()
	case TokSemi:
		p.Advance()
		return ast.NewNullStmt(loc)
	case TokKwIf:
		return p.parseIfStmt()
	case TokKwSwitch:
		return p.parseSwitchStmt()
	case TokKwCase:
		return p.parseCaseStmt()
	case TokKwDefault:
		return p.parseDefaultStmt()
	case TokKwWhile:
		return p.parseWhileStmt()
	case TokKwDo:
		return p.parseDoStmt()
	case TokKwFor:
		return p.parseForStmt()
	case TokKwGoto:
		return p.parseGotoStmt()
	case TokKwContinue:
		p.Advance()
		p.Expect(TokSemi, "';'")
		return ast.NewContinueStmt(loc)
	case TokKwBreak:
		p.Advance()
		p.Expect(TokSemi, "';'")
		return ast.NewBreakStmt(loc)
	case TokKwReturn:
		return p.parseReturnStmt()
	case TokKwStaticAssert:
		return p.parseStaticAssertStmt()
	case TokIdentifier:
		if p.Peek(1).Kind == TokColon {
			name := p.cur.Ident
			p.Advance()
			p.Advance()
			return ast.NewLabelStmt(loc, p.Decls.Idents.Info(name).Spelling, p.parseStmt())
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	e := p.parseExpr()
	p.Expect(TokSemi, "';'")
	return &exprStmtWrapper{Expr: e}
}

// exprStmtWrapper adapts an ast.Expr to ast.Stmt for use as a bare
// expression-statement: spec.md §3 models Expr as a Stmt refinement, so
// an expression already satisfies Stmt directly; this wrapper exists only
// so CompoundStmt's Body (a []Stmt) holds the Expr's own Class()/Loc()
// unchanged rather than needing a dedicated ExprStmt node kind.
type exprStmtWrapper struct {
	ast.Expr
}

func (p *Parser) parseIfStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	p.Expect(TokLParen, "'('")
	cond := p.parseExpr()
	p.Expect(TokRParen, "')'")
	then := p.parseStmt()
	var els ast.Stmt
	if p.cur.Kind == TokKwElse {
		p.Advance()
		els = p.parseStmt()
	}
	return ast.NewIfStmt(loc, cond, then, els)
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	p.Expect(TokLParen, "'('")
	cond := p.parseExpr()
	p.Expect(TokRParen, "')'")
	p.PushScope(decl.ControlScopeKind | decl.BreakScopeKind)
	defer p.PopScope()
	body := p.parseStmt()
	return ast.NewSwitchStmt(loc, cond, body)
}

func (p *Parser) parseCaseStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	value := p.parseConditionalExpr()
	p.Expect(TokColon, "':'")
	return ast.NewCaseStmt(loc, value, p.parseStmt())
}

func (p *Parser) parseDefaultStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	p.Expect(TokColon, "':'")
	return ast.NewDefaultStmt(loc, p.parseStmt())
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	p.Expect(TokLParen, "'('")
	cond := p.parseExpr()
	p.Expect(TokRParen, "')'")
	p.PushScope(decl.ControlScopeKind | decl.BreakScopeKind | decl.ContinueScopeKind)
	defer p.PopScope()
	return ast.NewWhileStmt(loc, cond, p.parseStmt())
}

func (p *Parser) parseDoStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	p.PushScope(decl.ControlScopeKind | decl.BreakScopeKind | decl.ContinueScopeKind)
	body := p.parseStmt()
	p.PopScope()
	p.Expect(TokKwWhile, "'while'")
	p.Expect(TokLParen, "'('")
	cond := p.parseExpr()
	p.Expect(TokRParen, "')'")
	p.Expect(TokSemi, "';'")
	return ast.NewDoStmt(loc, body, cond)
}

func (p *Parser) parseForStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	p.Expect(TokLParen, "'('")
	p.PushScope(decl.BlockScopeKind | decl.ControlScopeKind | decl.BreakScopeKind | decl.ContinueScopeKind)
	defer p.PopScope()

	var init ast.Stmt
	if p.cur.Kind != TokSemi {
		if p.startsDeclaration() {
			ids, ok := p.parseExternalDeclaration()
			if ok {
				init = ast.NewDeclStmt(loc, ids)
			}
		} else {
			e := p.parseExpr()
			p.Expect(TokSemi, "';'")
			init = &exprStmtWrapper{Expr: e}
		}
	} else {
		p.Advance()
	}

	var cond ast.Expr
	if p.cur.Kind != TokSemi {
		cond = p.parseExpr()
	}
	p.Expect(TokSemi, "';'")

	var inc ast.Expr
	if p.cur.Kind != TokRParen {
		inc = p.parseExpr()
	}
	p.Expect(TokRParen, "')'")

	return ast.NewForStmt(loc, init, cond, inc, p.parseStmt())
}

func (p *Parser) parseGotoStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	name, ok := p.expectIdent()
	p.Expect(TokSemi, "';'")
	if !ok {
		return ast.NewGotoStmt(loc, "")
	}
	return ast.NewGotoStmt(loc, p.Decls.Idents.Info(name).Spelling)
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	var value ast.Expr
	if p.cur.Kind != TokSemi {
		value = p.parseExpr()
	}
	p.Expect(TokSemi, "';'")
	return p.Actions.ActOnReturnStmt(p.curFnReturnType, value, loc)
}

// parseStaticAssertStmt parses a block-scope "_Static_assert(cond,
// message);", the SUPPLEMENTED static_assert support (see SPEC_FULL.md).
func (p *Parser) parseStaticAssertStmt() ast.Stmt {
	loc := p.cur.Loc
	p.Advance()
	p.Expect(TokLParen, "'('")
	cond := p.parseConditionalExpr()
	message := ""
	if p.cur.Kind == TokComma {
		p.Advance()
		if p.cur.Kind == TokStringLiteral {
			message = p.cur.Text
			p.Advance()
		}
	}
	p.Expect(TokRParen, "')'")
	p.Expect(TokSemi, "';'")
	p.Actions.CheckStaticAssert(cond, message, loc)
	return ast.NewStaticAssertStmt(loc, cond, message)
}
