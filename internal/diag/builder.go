package diag

import "github.com/oxhq/ccore/internal/source"

// Builder accumulates one Diagnostic's arguments, ranges, and fix-its.
// Its zero value is never used directly; a Builder only exists inside the
// callback Sink.Report hands it to, which is how this package implements
// spec.md §7's "at most one diagnostic under construction at a time" and
// the Design Notes' "scoped value with guaranteed release, disallow
// escaping the builder from its creation scope": Go has no destructor to
// hook, so the scope is the callback's stack frame instead, and Report
// finalizes the Diagnostic the instant the callback returns.
type Builder struct {
	level  Level
	id     ID
	loc    source.SourceLocation
	args   []Arg
	ranges []source.SourceRange
	fixits []FixItHint
}

// Arg appends a typed argument. Panics past MaxArgs (an invariant
// violation: no caller should ever build a diagnostic with more than
// spec.md §7's fixed cap).
func (b *Builder) Arg(a Arg) *Builder {
	if len(b.args) >= MaxArgs {
		panic(&source.InvariantError{Msg: "diagnostic argument count exceeded MaxArgs"})
	}
	b.args = append(b.args, a)
	return b
}

// Range appends a highlight range. Panics past MaxRanges.
func (b *Builder) Range(r source.SourceRange) *Builder {
	if len(b.ranges) >= MaxRanges {
		panic(&source.InvariantError{Msg: "diagnostic range count exceeded MaxRanges"})
	}
	b.ranges = append(b.ranges, r)
	return b
}

// FixIt appends a proposed edit. Panics past MaxFixIts.
func (b *Builder) FixIt(f FixItHint) *Builder {
	if len(b.fixits) >= MaxFixIts {
		panic(&source.InvariantError{Msg: "diagnostic fix-it count exceeded MaxFixIts"})
	}
	b.fixits = append(b.fixits, f)
	return b
}

func (b *Builder) build() Diagnostic {
	return Diagnostic{
		Level:  b.level,
		ID:     b.id,
		Loc:    b.loc,
		Args:   b.args,
		Ranges: b.ranges,
		FixIts: b.fixits,
	}
}

// Sink collects finalized Diagnostics for a translation unit and tracks
// whether an Error or Fatal was ever reported, the signal Sema/Parser use
// to decide whether downstream phases should still run.
type Sink struct {
	diags     []Diagnostic
	errored   bool
	fatal     bool
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report builds and finalizes one diagnostic: build is called with a
// fresh Builder scoped to this call only; do not let the *Builder escape
// build's closure. The finished Diagnostic is appended to the sink when
// build returns.
func (s *Sink) Report(level Level, id ID, loc source.SourceLocation, build func(*Builder)) {
	b := &Builder{level: level, id: id, loc: loc}
	if build != nil {
		build(b)
	}
	d := b.build()
	s.diags = append(s.diags, d)
	switch level {
	case Error:
		s.errored = true
	case Fatal:
		s.errored = true
		s.fatal = true
	}
}

// Diagnostics returns every diagnostic reported so far, in emission order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diags }

// HasErrors reports whether any Error- or Fatal-level diagnostic was
// reported.
func (s *Sink) HasErrors() bool { return s.errored }

// HasFatal reports whether a Fatal-level diagnostic was reported; callers
// typically stop driving the translation unit forward once this is true.
func (s *Sink) HasFatal() bool { return s.fatal }
