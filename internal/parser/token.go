// Package parser consumes a Token stream (spec.md §6.1's external
// preprocessor contract) and drives sema.Actions to build an AST,
// threading a decl.ScopeStack through every action per spec.md §4.3.
package parser

import (
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/source"
)

// TokenKind enumerates the lexical categories spec.md §6.1 requires a
// Token to carry a kind for, specialized to the handful this parser
// actually consumes. Unlike StmtClass/Opcode (grounded directly on
// spec.md §3/§4.4), no teacher or pack example models a C token kind set
// at all, so the exact member list is original design following the C99
// grammar productions spec.md's parser component must recognize.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdentifier
	TokIntegerLiteral
	TokFloatingLiteral
	TokCharacterLiteral
	TokStringLiteral

	// keywords
	TokKwVoid
	TokKwChar
	TokKwShort
	TokKwInt
	TokKwLong
	TokKwFloat
	TokKwDouble
	TokKwSigned
	TokKwUnsigned
	TokKwBool
	TokKwStruct
	TokKwUnion
	TokKwEnum
	TokKwTypedef
	TokKwConst
	TokKwVolatile
	TokKwStatic
	TokKwExtern
	TokKwAuto
	TokKwRegister
	TokKwIf
	TokKwElse
	TokKwSwitch
	TokKwCase
	TokKwDefault
	TokKwWhile
	TokKwDo
	TokKwFor
	TokKwGoto
	TokKwContinue
	TokKwBreak
	TokKwReturn
	TokKwSizeof
	TokKwStaticAssert

	// punctuators
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokSemi
	TokComma
	TokColon
	TokQuestion
	TokDot
	TokArrow
	TokEllipsis

	TokAssign
	TokPlusAssign
	TokMinusAssign
	TokStarAssign
	TokSlashAssign
	TokPercentAssign
	TokAmpAssign
	TokPipeAssign
	TokCaretAssign
	TokShlAssign
	TokShrAssign

	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokAmp
	TokPipe
	TokCaret
	TokTilde
	TokNot
	TokShl
	TokShr
	TokLT
	TokGT
	TokLE
	TokGE
	TokEQ
	TokNE
	TokAndAnd
	TokOrOr
	TokPlusPlus
	TokMinusMinus
)

// Token is the unit the Parser consumes, per spec.md §6.1: a kind, a
// SourceLocation, a byte length in the physical buffer, and, for
// identifier tokens, an interned identifier. Text carries the raw
// spelling for literal tokens (the lexer adapter's own addition — the
// parser needs the digits/characters to build a literal node's value,
// and the spec leaves that decoding detail to "the preprocessor",
// external to this core).
type Token struct {
	Kind   TokenKind
	Loc    source.SourceLocation
	Length int
	Ident  decl.ID // valid iff Kind == TokIdentifier
	Text   string  // raw spelling, valid for literal kinds
}

// Keywords maps a C identifier spelling to its keyword TokenKind, for a
// lexer adapter to consult after interning; an identifier not in this map
// is an ordinary TokIdentifier.
var Keywords = map[string]TokenKind{
	"void": TokKwVoid, "char": TokKwChar, "short": TokKwShort, "int": TokKwInt,
	"long": TokKwLong, "float": TokKwFloat, "double": TokKwDouble,
	"signed": TokKwSigned, "unsigned": TokKwUnsigned, "_Bool": TokKwBool,
	"struct": TokKwStruct, "union": TokKwUnion, "enum": TokKwEnum,
	"typedef": TokKwTypedef, "const": TokKwConst, "volatile": TokKwVolatile,
	"static": TokKwStatic, "extern": TokKwExtern, "auto": TokKwAuto,
	"register": TokKwRegister, "if": TokKwIf, "else": TokKwElse,
	"switch": TokKwSwitch, "case": TokKwCase, "default": TokKwDefault,
	"while": TokKwWhile, "do": TokKwDo, "for": TokKwFor, "goto": TokKwGoto,
	"continue": TokKwContinue, "break": TokKwBreak, "return": TokKwReturn,
	"sizeof": TokKwSizeof, "_Static_assert": TokKwStaticAssert,
}
