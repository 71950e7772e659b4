// Package lexer adapts a tree-sitter parse of a C translation unit into the
// Token stream internal/parser consumes, standing in for spec.md §6.1's
// "external preprocessor" component: tree-sitter's C grammar does the
// character-level scanning, this package walks its leaves into
// parser.Tokens and interns identifier spellings into the shared
// decl.IdentifierTable.
//
// Grounded on the teacher's providers/golang package: GetLanguage()/
// ParseCtx() from internal/matcher/tree.go's ASTMatcher.Find, and the
// recursive closure leaf-walk idiom used throughout providers/golang
// (findLastMethod, findLastFunction, extractAllNodes) rather than a
// tree-sitter TreeCursor, to match the teacher's own style.
package lexer

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	sitterc "github.com/smacker/go-tree-sitter/c"

	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/parser"
	"github.com/oxhq/ccore/internal/source"
)

// GetLanguage returns the tree-sitter C grammar, exported so a caller that
// wants to reuse the same *sitter.Language across several Lex calls (one
// per translation unit) doesn't pay GetLanguage's setup cost each time.
func GetLanguage() *sitter.Language { return sitterc.GetLanguage() }

// Lex parses the bytes backing fileID and returns the flat Token stream
// internal/parser.TokenSource wraps, interning every identifier spelling
// into dt.Idents. Lexical errors (a byte sequence tree-sitter's C grammar
// can't classify as any known leaf) are reported to sink as DiagLexError
// and the offending leaf is dropped from the stream, matching spec.md §7's
// "always produce something" recovery stance at the lexical level.
func Lex(ctx context.Context, sm *source.SourceManager, dt *decl.DeclTable, sink *diag.Sink, fileID source.FileID) ([]parser.Token, error) {
	src := sm.Buffer(fileID).Bytes()

	p := sitter.NewParser()
	p.SetLanguage(GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}

	var toks []parser.Token
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if int(node.ChildCount()) == 0 {
			if tok, ok := leafToken(node, src, sm, dt, fileID); ok {
				toks = append(toks, tok)
			} else if node.Type() != "comment" {
				loc := sm.GetLoc(fileID, int(node.StartByte()))
				sink.Report(diag.Warning, diag.DiagLexError, loc, func(b *diag.Builder) {
					b.Arg(diag.ArgS("unrecognized token " + node.Type()))
				})
			}
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(tree.RootNode())

	toks = append(toks, parser.Token{Kind: parser.TokEOF, Loc: sm.GetLoc(fileID, len(src))})
	return toks, nil
}

// leafToken classifies one tree-sitter leaf node into a parser.Token. It
// returns ok == false for a leaf that is neither a recognized keyword/
// punctuator, an identifier, a literal, nor a comment -- a construct this
// core's C subset (spec.md's Non-goals: no preprocessor, no wide/unicode
// literals) doesn't model.
func leafToken(node *sitter.Node, src []byte, sm *source.SourceManager, dt *decl.DeclTable, fileID source.FileID) (parser.Token, bool) {
	loc := sm.GetLoc(fileID, int(node.StartByte()))
	text := string(src[node.StartByte():node.EndByte()])

	if node.Type() == "comment" {
		return parser.Token{}, false
	}

	if kw, ok := parser.Keywords[text]; ok {
		dt.Idents.MarkKeyword(text)
		return parser.Token{Kind: kw, Loc: loc, Length: len(text)}, true
	}

	switch node.Type() {
	case "identifier", "type_identifier", "field_identifier", "statement_identifier":
		id := dt.Idents.Get(text)
		return parser.Token{Kind: parser.TokIdentifier, Loc: loc, Length: len(text), Ident: id, Text: text}, true
	case "primitive_type":
		if kw, ok := parser.Keywords[text]; ok {
			dt.Idents.MarkKeyword(text)
			return parser.Token{Kind: kw, Loc: loc, Length: len(text)}, true
		}
		// A typedef'd platform alias (size_t, uint32_t, ...) tree-sitter
		// classes as primitive_type: this core has no typedef-name table
		// in the parser (see DESIGN.md), so it is handed through as an
		// ordinary identifier and left unresolved like any other.
		id := dt.Idents.Get(text)
		return parser.Token{Kind: parser.TokIdentifier, Loc: loc, Length: len(text), Ident: id, Text: text}, true
	case "number_literal":
		return numberToken(text, loc), true
	case "string_literal":
		return parser.Token{Kind: parser.TokStringLiteral, Loc: loc, Length: len(text), Text: stripDelims(text)}, true
	case "char_literal":
		return parser.Token{Kind: parser.TokCharacterLiteral, Loc: loc, Length: len(text), Text: stripDelims(text)}, true
	}

	if kind, ok := punctuators[text]; ok {
		return parser.Token{Kind: kind, Loc: loc, Length: len(text)}, true
	}
	return parser.Token{}, false
}

// numberToken decides TokIntegerLiteral vs TokFloatingLiteral from the raw
// spelling and strips the C suffix letters (u/U/l/L/f/F) parser.go's
// decimal-only literal decoders don't expect, per spec.md §6.1's stance
// that lexical decoding detail belongs to the (external) preprocessor --
// this adapter does only as much as producing a clean digit string.
func numberToken(text string, loc source.SourceLocation) parser.Token {
	isFloat := strings.ContainsAny(text, ".") || hasFloatExponent(text)
	digits := strings.TrimRight(text, "uUlLfF")
	if digits == "" {
		digits = text
	}
	kind := parser.TokIntegerLiteral
	if isFloat {
		kind = parser.TokFloatingLiteral
	}
	return parser.Token{Kind: kind, Loc: loc, Length: len(text), Text: digits}
}

// hasFloatExponent reports whether text carries a decimal exponent (1e10),
// ignoring hex literals (0x1p0), which this core's literal decoder doesn't
// handle regardless (see DESIGN.md's Open Question on literal decoding).
func hasFloatExponent(text string) bool {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return false
	}
	return strings.ContainsAny(text, "eE")
}

func stripDelims(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// punctuators maps every multi-character and single-character punctuator
// parser.TokenKind enumerates to its tree-sitter leaf spelling. Single-byte
// punctuators tree-sitter never splits differently than their spelling
// (e.g. "(" is always its own leaf), so this one table covers both widths.
var punctuators = map[string]parser.TokenKind{
	"(": parser.TokLParen, ")": parser.TokRParen,
	"{": parser.TokLBrace, "}": parser.TokRBrace,
	"[": parser.TokLBracket, "]": parser.TokRBracket,
	";": parser.TokSemi, ",": parser.TokComma,
	":": parser.TokColon, "?": parser.TokQuestion, ".": parser.TokDot,
	"->": parser.TokArrow, "...": parser.TokEllipsis,

	"=": parser.TokAssign,
	"+=": parser.TokPlusAssign, "-=": parser.TokMinusAssign,
	"*=": parser.TokStarAssign, "/=": parser.TokSlashAssign,
	"%=": parser.TokPercentAssign, "&=": parser.TokAmpAssign,
	"|=": parser.TokPipeAssign, "^=": parser.TokCaretAssign,
	"<<=": parser.TokShlAssign, ">>=": parser.TokShrAssign,

	"+": parser.TokPlus, "-": parser.TokMinus, "*": parser.TokStar,
	"/": parser.TokSlash, "%": parser.TokPercent,
	"&": parser.TokAmp, "|": parser.TokPipe, "^": parser.TokCaret,
	"~": parser.TokTilde, "!": parser.TokNot,
	"<<": parser.TokShl, ">>": parser.TokShr,
	"<": parser.TokLT, ">": parser.TokGT,
	"<=": parser.TokLE, ">=": parser.TokGE,
	"==": parser.TokEQ, "!=": parser.TokNE,
	"&&": parser.TokAndAnd, "||": parser.TokOrOr,
	"++": parser.TokPlusPlus, "--": parser.TokMinusMinus,
}
