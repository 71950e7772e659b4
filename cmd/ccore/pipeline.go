package main

import (
	"context"
	"fmt"
	"os"

	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/lexer"
	"github.com/oxhq/ccore/internal/parser"
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/tucache"
	"github.com/oxhq/ccore/internal/types"
)

// fileResult is one translation unit's outcome: whether it was skipped via
// the build cache, the raw diagnostics (for exit-code purposes), and their
// already-rendered "path:line:col: level: message" text -- rendered here,
// while this file's own *source.SourceManager is still in scope, rather
// than handed back to main for later formatting.
type fileResult struct {
	Path     string
	Skipped  bool
	Diags    []diag.Diagnostic
	Messages []string
}

// checkFile lexes and parses path, threading a fresh SourceManager/
// DeclTable/TypeContext/Sink quadruple per translation unit (spec.md §5: these
// are never shared across translation units). cache may be nil, in which
// case every file is processed unconditionally.
func checkFile(ctx context.Context, path string, cache *tucache.Cache) (fileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if cache != nil {
		hash := tucache.HashContent(data)
		fresh, err := cache.Fresh(path, hash)
		if err != nil {
			return fileResult{}, err
		}
		if fresh {
			return fileResult{Path: path, Skipped: true}, nil
		}
		defer func() {
			_ = cache.Record(path, hash)
		}()
	}

	sm := source.NewSourceManager()
	fileID, err := sm.CreateMemBufferID(path, data)
	if err != nil {
		return fileResult{}, fmt.Errorf("registering %s: %w", path, err)
	}

	dt := decl.NewDeclTable()
	tc := types.NewTypeContext()
	sink := diag.NewSink()

	toks, err := lexer.Lex(ctx, sm, dt, sink, fileID)
	if err != nil {
		return fileResult{}, fmt.Errorf("lexing %s: %w", path, err)
	}

	p := parser.New(parser.NewSliceTokenSource(toks), dt, tc, sink)
	p.ParseTranslationUnit()

	diags := sink.Diagnostics()
	messages := make([]string, len(diags))
	for i, d := range diags {
		messages[i] = formatDiagnostic(sm, path, d)
	}
	return fileResult{Path: path, Diags: diags, Messages: messages}, nil
}

// formatDiagnostic renders one diagnostic as "path:line:col: level: message",
// the plain %-verb text spec.md §1 leaves as this core's entire rendering
// responsibility (no caret/range rendering).
func formatDiagnostic(sm *source.SourceManager, path string, d diag.Diagnostic) string {
	if !d.Loc.IsValid() {
		return fmt.Sprintf("%s: %s: %s", path, d.Level, d.Message())
	}
	line := sm.GetLineNumber(d.Loc)
	col := sm.GetColumnNumber(d.Loc)
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, line, col, d.Level, d.Message())
}
