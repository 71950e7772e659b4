// Package diag implements the diagnostic model: leveled, located messages
// with typed arguments, highlight ranges, and fix-it hints, built through a
// scoped Builder that enforces spec.md §7's "at most one diagnostic in
// flight" discipline. Grounded on the teacher's internal/model.ErrorCode /
// internal/core.CLIError machine-readable-code pattern, restructured around
// the spec's richer located-diagnostic shape (the teacher has no
// caret/range/fix-it model of its own to borrow from directly).
package diag

import (
	"fmt"

	"github.com/oxhq/ccore/internal/source"
)

// Level is a diagnostic's severity, per spec.md §7.
type Level int

const (
	Note Level = iota
	Warning
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal error"
	default:
		return "level(?)"
	}
}

// ID names a diagnostic's format string, mirroring the teacher's ErrorCode
// string-constant pattern (internal/model/errors.go) but scoped to
// compiler diagnostics rather than CLI/JSON error payloads.
type ID string

const (
	DiagRedefinition          ID = "redefinition"
	DiagConflictingTypes      ID = "conflicting_types"
	DiagUnknownIdentifier     ID = "unknown_identifier"
	DiagUnknownMember         ID = "unknown_member"
	DiagImplicitFloatToInt    ID = "implicit_float_to_int"
	DiagImplicitIntToFloat    ID = "implicit_int_to_float"
	DiagInvalidOperands       ID = "invalid_operands"
	DiagStaticAssertFailed    ID = "static_assert_failed"
	DiagNotConstantExpression ID = "not_constant_expression"
	DiagExpectedToken         ID = "expected_token"
	DiagUnexpectedToken       ID = "unexpected_token"
	DiagRecoveredSkip         ID = "recovered_skip"
	DiagLexError              ID = "lex_error"
)

// Messages holds the default English format string for each well-known
// ID, with %-style verbs consumed positionally by Arg.Format. Diagnostic
// text rendering itself (caret/range highlighting) is explicitly out of
// scope (spec.md §1's Non-goals); this map exists only so tests and the
// CLI driver have something human-readable to print.
var Messages = map[ID]string{
	DiagRedefinition:          "redefinition of %s",
	DiagConflictingTypes:      "conflicting types for %s",
	DiagUnknownIdentifier:     "use of undeclared identifier %s",
	DiagUnknownMember:         "no member named %s",
	DiagImplicitFloatToInt:    "implicit conversion from %s to %s changes value",
	DiagImplicitIntToFloat:    "implicit conversion from %s to %s",
	DiagInvalidOperands:       "invalid operands to binary expression (%s and %s)",
	DiagStaticAssertFailed:    "static assertion failed: %s",
	DiagNotConstantExpression: "expression is not a constant expression",
	DiagExpectedToken:         "expected %s",
	DiagUnexpectedToken:       "unexpected token %s",
	DiagRecoveredSkip:         "skipping to %s after error",
	DiagLexError:              "%s",
}

// ArgKind tags the dynamic type held by an Arg, per spec.md §7's
// "string/integer/identifier/qualtype/name/decl" argument kinds.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgInt
	ArgIdentifier
	ArgQualType
	ArgName
	ArgDecl
)

// Arg is one typed diagnostic argument.
type Arg struct {
	Kind  ArgKind
	Value any
}

func ArgS(s string) Arg       { return Arg{Kind: ArgString, Value: s} }
func ArgI(i int64) Arg        { return Arg{Kind: ArgInt, Value: i} }
func ArgIdent(name string) Arg { return Arg{Kind: ArgIdentifier, Value: name} }
func ArgQT(rendered string) Arg {
	// Takes the already-rendered spelling rather than a types.QualType
	// directly, so internal/diag never imports internal/types: diagnostics
	// are a leaf package other packages report into, not one they build
	// types against.
	return Arg{Kind: ArgQualType, Value: rendered}
}
func ArgN(name string) Arg  { return Arg{Kind: ArgName, Value: name} }
func ArgD(desc string) Arg  { return Arg{Kind: ArgDecl, Value: desc} }

// FixItKind is the kind of source edit a FixItHint proposes.
type FixItKind int

const (
	FixItRemove FixItKind = iota
	FixItInsert
	FixItReplace
)

// FixItHint is one proposed edit attached to a diagnostic. Field naming
// (Range plus a single replacement Text, empty for a pure removal) is
// grounded on the teacher's model.Change shape (Start/End/Original/New),
// collapsed to the narrower Remove/Insert/Replace vocabulary spec.md §7
// names explicitly.
type FixItHint struct {
	Kind  FixItKind
	Range source.SourceRange
	Text  string // insertion or replacement text; unused for FixItRemove
}

func RemoveRange(r source.SourceRange) FixItHint {
	return FixItHint{Kind: FixItRemove, Range: r}
}

func InsertAt(loc source.SourceLocation, text string) FixItHint {
	return FixItHint{Kind: FixItInsert, Range: source.SourceRange{Begin: loc, End: loc}, Text: text}
}

func ReplaceRange(r source.SourceRange, text string) FixItHint {
	return FixItHint{Kind: FixItReplace, Range: r, Text: text}
}

// Capacity bounds per spec.md §7: "up to 10 typed arguments... up to a
// fixed number of highlight ranges... up to a fixed number of fix-it
// hints". Exceeding one of these is a caller bug (Sema/Parser building a
// malformed diagnostic), not a user-facing error, so Builder treats it as
// an internal invariant violation like the rest of the core.
const (
	MaxArgs   = 10
	MaxRanges = 4
	MaxFixIts = 4
)

// Diagnostic is a fully built, immutable diagnostic record.
type Diagnostic struct {
	Level  Level
	ID     ID
	Loc    source.SourceLocation
	Args   []Arg
	Ranges []source.SourceRange
	FixIts []FixItHint
}

// Message renders the diagnostic's format string with its arguments
// substituted positionally. This is plain %-verb text, not the caret/range
// rendering spec.md §1 explicitly excludes from scope.
func (d Diagnostic) Message() string {
	format, ok := Messages[d.ID]
	if !ok {
		format = string(d.ID)
	}
	vals := make([]any, len(d.Args))
	for i, a := range d.Args {
		vals[i] = a.Value
	}
	return fmt.Sprintf(format, vals...)
}
