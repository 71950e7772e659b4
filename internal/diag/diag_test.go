package diag

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/ccore/internal/source"
)

func TestReportBuildsAndTracksErrorState(t *testing.T) {
	sink := NewSink()
	sink.Report(Warning, DiagImplicitFloatToInt, source.InvalidLocation, func(b *Builder) {
		b.Arg(ArgQT("double")).Arg(ArgQT("int"))
	})
	assert.False(t, sink.HasErrors())

	sink.Report(Error, DiagUnknownIdentifier, source.InvalidLocation, func(b *Builder) {
		b.Arg(ArgIdent("foo"))
	})
	require.True(t, sink.HasErrors())
	require.False(t, sink.HasFatal())

	diags := sink.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "implicit conversion from double to int changes value", diags[0].Message())
	assert.Equal(t, "use of undeclared identifier foo", diags[1].Message())
}

func TestFatalSetsBothFlags(t *testing.T) {
	sink := NewSink()
	sink.Report(Fatal, DiagNotConstantExpression, source.InvalidLocation, nil)
	assert.True(t, sink.HasErrors())
	assert.True(t, sink.HasFatal())
}

func TestArgCapIsEnforced(t *testing.T) {
	sink := NewSink()
	assert.Panics(t, func() {
		sink.Report(Note, DiagUnknownIdentifier, source.InvalidLocation, func(b *Builder) {
			for i := 0; i < MaxArgs+1; i++ {
				b.Arg(ArgI(int64(i)))
			}
		})
	})
}

func TestRangeAndFixItCaps(t *testing.T) {
	sink := NewSink()
	assert.Panics(t, func() {
		sink.Report(Note, DiagExpectedToken, source.InvalidLocation, func(b *Builder) {
			for i := 0; i < MaxRanges+1; i++ {
				b.Range(source.SourceRange{})
			}
		})
	})

	sink2 := NewSink()
	assert.Panics(t, func() {
		sink2.Report(Note, DiagExpectedToken, source.InvalidLocation, func(b *Builder) {
			for i := 0; i < MaxFixIts+1; i++ {
				b.FixIt(RemoveRange(source.SourceRange{}))
			}
		})
	})
}

func TestFixItConstructors(t *testing.T) {
	loc := source.InvalidLocation
	r := source.SourceRange{Begin: loc, End: loc}

	assert.Equal(t, FixItRemove, RemoveRange(r).Kind)
	ins := InsertAt(loc, "x")
	assert.Equal(t, FixItInsert, ins.Kind)
	assert.Equal(t, "x", ins.Text)
	rep := ReplaceRange(r, "y")
	assert.Equal(t, FixItReplace, rep.Kind)
	assert.Equal(t, "y", rep.Text)
}

// TestUnifiedDiffHelper exercises the go-difflib dependency this package
// carries for golden-output diagnostic tests, grounded on the teacher's
// internal/util.UnifiedDiff usage of the same library.
func TestUnifiedDiffHelper(t *testing.T) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines("int x;\n"),
		B:        difflib.SplitLines("int x = 0;\n"),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	require.NoError(t, err)
	assert.Contains(t, text, "-int x;")
	assert.Contains(t, text, "+int x = 0;")
}
