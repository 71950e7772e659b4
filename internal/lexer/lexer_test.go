package lexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/parser"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

func lexString(t *testing.T, src string) ([]parser.Token, *decl.DeclTable, *diag.Sink) {
	t.Helper()
	sm := source.NewSourceManager()
	fileID, err := sm.CreateMemBufferID("<test>", []byte(src))
	require.NoError(t, err)

	dt := decl.NewDeclTable()
	sink := diag.NewSink()
	toks, err := Lex(context.Background(), sm, dt, sink, fileID)
	require.NoError(t, err)
	return toks, dt, sink
}

func kinds(toks []parser.Token) []parser.TokenKind {
	ks := make([]parser.TokenKind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexSimpleFunction(t *testing.T) {
	toks, _, sink := lexString(t, "int add(int a, int b) { return a + b; }")
	assert.Empty(t, sink.Diagnostics())

	want := []parser.TokenKind{
		parser.TokKwInt, parser.TokIdentifier, parser.TokLParen,
		parser.TokKwInt, parser.TokIdentifier, parser.TokComma,
		parser.TokKwInt, parser.TokIdentifier, parser.TokRParen,
		parser.TokLBrace,
		parser.TokKwReturn, parser.TokIdentifier, parser.TokPlus, parser.TokIdentifier, parser.TokSemi,
		parser.TokRBrace,
		parser.TokEOF,
	}
	assert.Equal(t, want, kinds(toks))
}

// TestLexIdentifiersInternOnce confirms repeated spellings of the same
// identifier intern to the same decl.ID, not merely the same text, since
// the parser resolves references by decl.ID equality.
func TestLexIdentifiersInternOnce(t *testing.T) {
	toks, dt, _ := lexString(t, "int x; int x;")
	var idents []decl.ID
	for _, tok := range toks {
		if tok.Kind == parser.TokIdentifier {
			idents = append(idents, tok.Ident)
		}
	}
	require.Len(t, idents, 2)
	assert.Equal(t, idents[0], idents[1])

	info := dt.Idents.Info(idents[0])
	assert.Equal(t, "x", info.Spelling)
}

func TestLexIntegerAndFloatingLiterals(t *testing.T) {
	toks, _, sink := lexString(t, "int x = 42; double y = 3.5;")
	assert.Empty(t, sink.Diagnostics())

	var intLit, floatLit *parser.Token
	for i := range toks {
		switch toks[i].Kind {
		case parser.TokIntegerLiteral:
			intLit = &toks[i]
		case parser.TokFloatingLiteral:
			floatLit = &toks[i]
		}
	}
	require.NotNil(t, intLit)
	require.NotNil(t, floatLit)
	assert.Equal(t, "42", intLit.Text)
	assert.Equal(t, "3.5", floatLit.Text)
}

func TestLexIntegerSuffixStripped(t *testing.T) {
	toks, _, _ := lexString(t, "int x = 10UL;")
	for _, tok := range toks {
		if tok.Kind == parser.TokIntegerLiteral {
			assert.Equal(t, "10", tok.Text)
			return
		}
	}
	t.Fatal("no integer literal token found")
}

func TestLexStringAndCharLiterals(t *testing.T) {
	toks, _, sink := lexString(t, `char c = 'a'; char *s = "hi";`)
	assert.Empty(t, sink.Diagnostics())

	var char, str *parser.Token
	for i := range toks {
		switch toks[i].Kind {
		case parser.TokCharacterLiteral:
			char = &toks[i]
		case parser.TokStringLiteral:
			str = &toks[i]
		}
	}
	require.NotNil(t, char)
	require.NotNil(t, str)
	assert.Equal(t, "a", char.Text)
	assert.Equal(t, "hi", str.Text)
}

// TestLexCompoundPunctuators confirms multi-character punctuators decode
// as single tokens rather than their constituent single-character ones.
func TestLexCompoundPunctuators(t *testing.T) {
	toks, _, sink := lexString(t, "x = a->b; y += 1; z = a << 2; w = a <= b;")
	assert.Empty(t, sink.Diagnostics())

	have := map[parser.TokenKind]bool{}
	for _, tok := range toks {
		have[tok.Kind] = true
	}
	assert.True(t, have[parser.TokArrow])
	assert.True(t, have[parser.TokPlusAssign])
	assert.True(t, have[parser.TokShl])
	assert.True(t, have[parser.TokLE])
}

// TestLexMarksKeywordSpellingsInIdentifierTable confirms keyword leaves are
// routed through decl.IdentifierTable.MarkKeyword, not just classified by
// parser.Keywords, so a lookup on "int"'s spelling agrees with the token
// stream instead of reporting a plain identifier.
func TestLexMarksKeywordSpellingsInIdentifierTable(t *testing.T) {
	toks, dt, sink := lexString(t, "int add(int a, int b) { return a + b; }")
	assert.Empty(t, sink.Diagnostics())
	_ = toks

	id, ok := dt.Idents.Lookup("int")
	require.True(t, ok)
	info := dt.Idents.Info(id)
	assert.True(t, info.IsKeyword)
	assert.Equal(t, decl.TokKeyword, info.TokenKind)

	retID, ok := dt.Idents.Lookup("return")
	require.True(t, ok)
	retInfo := dt.Idents.Info(retID)
	assert.True(t, retInfo.IsKeyword)

	aID, ok := dt.Idents.Lookup("a")
	require.True(t, ok)
	aInfo := dt.Idents.Info(aID)
	assert.False(t, aInfo.IsKeyword)
	assert.Equal(t, decl.TokIdentifier, aInfo.TokenKind)
}

// TestLexOutputFeedsParser confirms Lex's output slice is consumable
// end-to-end by internal/parser: the tree-sitter-derived token stream for
// a small translation unit parses to a well-formed FunctionDecl exactly
// like the hand-rolled test lexer's output does.
func TestLexOutputFeedsParser(t *testing.T) {
	toks, dt, sink := lexString(t, "int add(int a, int b) { return a + b; }")
	require.Empty(t, sink.Diagnostics())

	tc := types.NewTypeContext()
	psink := diag.NewSink()
	p := parser.New(parser.NewSliceTokenSource(toks), dt, tc, psink)
	ids := p.ParseTranslationUnit()

	require.Len(t, ids, 1)
	require.Empty(t, psink.Diagnostics())
	fn := dt.Decl(ids[0])
	require.NotNil(t, fn)
}
