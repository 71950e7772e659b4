package parser

import (
	"strings"
	"unicode"

	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/source"
)

// lexTestTokens hand-tokenizes a small C snippet into a Token slice for
// tests, standing in for internal/lexer's tree-sitter adapter so these
// tests need no tree-sitter parse. It covers exactly the lexical surface
// these tests exercise: identifiers/keywords, decimal integer and floating
// literals, one string and one character literal form, and the punctuators
// token.go's token kinds enumerate. Every token carries source.InvalidLocation — these
// tests don't assert on diagnostic locations.
func lexTestTokens(dt *decl.DeclTable, src string) []Token {
	var toks []Token
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case unicode.IsLetter(rune(c)) || c == '_':
			j := i + 1
			for j < n && (unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j])) || src[j] == '_') {
				j++
			}
			word := src[i:j]
			if kw, ok := Keywords[word]; ok {
				toks = append(toks, Token{Kind: kw, Loc: source.InvalidLocation})
			} else {
				id := dt.Idents.Get(word)
				toks = append(toks, Token{Kind: TokIdentifier, Loc: source.InvalidLocation, Ident: id, Text: word})
			}
			i = j
		case unicode.IsDigit(rune(c)):
			j := i + 1
			isFloat := false
			for j < n && (unicode.IsDigit(rune(src[j])) || src[j] == '.') {
				if src[j] == '.' {
					isFloat = true
				}
				j++
			}
			text := src[i:j]
			if isFloat {
				toks = append(toks, Token{Kind: TokFloatingLiteral, Loc: source.InvalidLocation, Text: text})
			} else {
				toks = append(toks, Token{Kind: TokIntegerLiteral, Loc: source.InvalidLocation, Text: text})
			}
			i = j
		case c == '"':
			j := i + 1
			for j < n && src[j] != '"' {
				j++
			}
			toks = append(toks, Token{Kind: TokStringLiteral, Loc: source.InvalidLocation, Text: src[i+1 : j]})
			i = j + 1
		case c == '\'':
			j := i + 1
			for j < n && src[j] != '\'' {
				j++
			}
			toks = append(toks, Token{Kind: TokCharacterLiteral, Loc: source.InvalidLocation, Text: src[i+1 : j]})
			i = j + 1
		default:
			kind, width := lexPunct(src[i:])
			toks = append(toks, Token{Kind: kind, Loc: source.InvalidLocation})
			i += width
		}
	}
	toks = append(toks, Token{Kind: TokEOF, Loc: source.InvalidLocation})
	return toks
}

// lexPunct matches the longest punctuator starting at s, per the usual
// maximal-munch lexing rule.
func lexPunct(s string) (TokenKind, int) {
	three := map[string]TokenKind{
		"...": TokEllipsis,
		"<<=": TokShlAssign, ">>=": TokShrAssign,
	}
	two := map[string]TokenKind{
		"->": TokArrow, "++": TokPlusPlus, "--": TokMinusMinus,
		"<<": TokShl, ">>": TokShr, "<=": TokLE, ">=": TokGE,
		"==": TokEQ, "!=": TokNE, "&&": TokAndAnd, "||": TokOrOr,
		"+=": TokPlusAssign, "-=": TokMinusAssign, "*=": TokStarAssign,
		"/=": TokSlashAssign, "%=": TokPercentAssign, "&=": TokAmpAssign,
		"|=": TokPipeAssign, "^=": TokCaretAssign,
	}
	one := map[byte]TokenKind{
		'(': TokLParen, ')': TokRParen, '{': TokLBrace, '}': TokRBrace,
		'[': TokLBracket, ']': TokRBracket, ';': TokSemi, ',': TokComma,
		':': TokColon, '?': TokQuestion, '.': TokDot,
		'=': TokAssign, '+': TokPlus, '-': TokMinus, '*': TokStar,
		'/': TokSlash, '%': TokPercent, '&': TokAmp, '|': TokPipe,
		'^': TokCaret, '~': TokTilde, '!': TokNot,
		'<': TokLT, '>': TokGT,
	}
	if len(s) >= 3 {
		if k, ok := three[s[:3]]; ok {
			return k, 3
		}
	}
	if len(s) >= 2 {
		if k, ok := two[s[:2]]; ok {
			return k, 2
		}
		if strings.HasPrefix(s, "<<") || strings.HasPrefix(s, ">>") {
			return one[s[0]], 1
		}
	}
	if k, ok := one[s[0]]; ok {
		return k, 1
	}
	// An unrecognized byte (e.g. a stray '@' in a recovery test) must not
	// decode to TokEOF's zero value, which would end ParseTranslationUnit's
	// loop early; tokUnknown is a sentinel outside every TokenKind switch
	// this package matches on, so it falls through to each parser
	// function's ordinary "unexpected token" handling instead.
	return tokUnknown, 1
}

const tokUnknown TokenKind = -1
