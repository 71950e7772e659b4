package parser

import (
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/sema"
	"github.com/oxhq/ccore/internal/types"
)

// Parser drives sema.Actions over a TokenSource, threading the active
// decl.ScopeStack through every parsing action per spec.md §4.3, and
// implementing §9's mark/commit/revert tentative-parsing discipline and
// §7's skip_until recovery.
type Parser struct {
	toks    TokenSource
	Actions *sema.Actions
	Decls   *decl.DeclTable
	Types   *types.TypeContext
	Diags   *diag.Sink

	cur Token

	// curFnReturnType is the enclosing function's result type while
	// parsing its body, so a return statement can route its operand
	// through Actions.ActOnReturnStmt's implicit-conversion check.
	curFnReturnType types.QualType

	// curDeclContext is the DeclID new declarations are lexically/
	// semantically nested under: the TranslationUnit at file scope, or
	// the enclosing FunctionDecl while parsing its body, per spec.md
	// §4.3's lexical/semantic DeclContext pair.
	curDeclContext decl.DeclID
}

// New constructs a Parser over toks, sharing dt/tc/sink with Actions (the
// same triple every Actions-using layer is handed, per spec.md §5's "every
// subsystem holds a reference but never transfers ownership").
func New(toks TokenSource, dt *decl.DeclTable, tc *types.TypeContext, sink *diag.Sink) *Parser {
	p := &Parser{
		toks:    toks,
		Actions: sema.NewActions(dt, tc, sink),
		Decls:   dt,
		Types:   tc,
		Diags:   sink,
	}
	p.cur = toks.Lookahead(0)
	p.curDeclContext = dt.TranslationUnit()
	return p
}

// Cur returns the not-yet-consumed current token.
func (p *Parser) Cur() Token { return p.cur }

// Peek looks n tokens ahead of the current one without consuming.
func (p *Parser) Peek(n int) Token { return p.toks.Lookahead(n) }

// Advance consumes the current token and returns it, per spec.md §6.1's
// token-stream contract.
func (p *Parser) Advance() Token {
	t := p.toks.Advance()
	p.cur = p.toks.Lookahead(0)
	return t
}

// Expect consumes the current token if it has kind; otherwise it reports
// DiagExpectedToken and returns the unconsumed token unchanged (the
// caller proceeds with a sentinel/partial AST per spec.md §7).
func (p *Parser) Expect(kind TokenKind, what string) (Token, bool) {
	if p.cur.Kind == kind {
		return p.Advance(), true
	}
	p.Diags.Report(diag.Error, diag.DiagExpectedToken, p.cur.Loc, func(b *diag.Builder) {
		b.Arg(diag.ArgS(what))
	})
	return p.cur, false
}

// Mark returns a tentative-parsing checkpoint (spec.md §9: "model this as
// an explicit mark/commit/revert discipline on the token stream").
func (p *Parser) Mark() int { return p.toks.Mark() }

// Commit discards a checkpoint: parsing continues from the current
// position, the checkpoint is no longer needed. Provided for symmetry
// with Revert so call sites read as a scoped transaction even though the
// slice-backed TokenSource needs no explicit release.
func (p *Parser) Commit(mark int) { _ = mark }

// Revert rewinds the stream to mark, undoing every token consumed since,
// so a failed speculative parse (e.g. disambiguating a declaration from
// an expression-statement) leaves no trace.
func (p *Parser) Revert(mark int) {
	p.toks.BacktrackTo(mark)
	p.cur = p.toks.Lookahead(0)
}

// SkipUntil implements spec.md §7's recovery policy: consume tokens until
// one in set is reached (without consuming it) or EOF, respecting nested
// brackets so a stray ';' inside a parenthesized or braced sub-expression
// doesn't end recovery early. Reports DiagRecoveredSkip once, naming the
// synchronization point reached.
func (p *Parser) SkipUntil(set map[TokenKind]bool, what string) {
	depth := 0
	for {
		switch p.cur.Kind {
		case TokEOF:
			return
		case TokLParen, TokLBrace, TokLBracket:
			depth++
		case TokRParen, TokRBrace, TokRBracket:
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && set[p.cur.Kind] {
			p.Diags.Report(diag.Warning, diag.DiagRecoveredSkip, p.cur.Loc, func(b *diag.Builder) {
				b.Arg(diag.ArgS(what))
			})
			return
		}
		p.Advance()
	}
}

// PushScope/PopScope delegate to the shared DeclTable's scope stack, the
// "active scope threaded through every parser action" spec.md §4.3
// requires.
func (p *Parser) PushScope(kind decl.ScopeKind) *decl.Scope { return p.Decls.PushScope(kind) }
func (p *Parser) PopScope() []decl.DeclID                   { return p.Decls.PopScope() }

// ParseTranslationUnit parses a sequence of top-level declarations until
// EOF, each wrapped in a top-level recovery boundary: a declaration that
// fails to parse is skipped to the next top-level synchronization point
// (';' or '}') rather than aborting the whole unit.
func (p *Parser) ParseTranslationUnit() []decl.DeclID {
	p.PushScope(decl.DeclScopeKind)
	var top []decl.DeclID
	for p.cur.Kind != TokEOF {
		mark := p.Mark()
		ids, ok := p.parseExternalDeclaration()
		if !ok {
			p.Revert(mark)
			p.SkipUntil(map[TokenKind]bool{TokSemi: true, TokRBrace: true}, "; or }")
			if p.cur.Kind == TokSemi || p.cur.Kind == TokRBrace {
				p.Advance()
			}
			continue
		}
		for _, id := range ids {
			p.Decls.AddTopLevelDecl(id)
		}
		top = append(top, ids...)
	}
	p.PopScope()
	return top
}
