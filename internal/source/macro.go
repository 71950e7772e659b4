package source

// MacroExpansionInfo records one macro-expansion "chunk": a small
// contiguous slice of the macro-location address space, covering one or
// more individual SourceLocations produced while expanding a single macro
// invocation at a single call site.
//
// SpellingLoc is the physical location (where the character actually came
// from: the macro body, or an argument token copied from the call site).
// ExpansionLocStart/End are the logical call-site range the user perceives
// the expansion as occupying.
type MacroExpansionInfo struct {
	SpellingLoc      SourceLocation
	ExpansionLocStart SourceLocation
	ExpansionLocEnd   SourceLocation

	// next is the next unused delta within this chunk's packed width
	// (invariant I4: must stay within MaxMacroDelta+1).
	next int
}

// fuseLRUSize is the "small cache" window spec.md's Design Notes call a
// performance heuristic without mandating a size; ccore fixes it at 6,
// matching the "last six MacroIDInfos" figure the Design Notes cite as the
// observed value (see DESIGN.md Open Question decisions).
const fuseLRUSize = 6

// MacroExpansionTable owns every MacroExpansionInfo for a translation unit
// and implements the location-fusing optimization: get_instantiation_loc
// reuses an existing entry, rather than allocating a new MacroID, when the
// instantiation point and physical file match an entry already in the LRU
// and the new physical delta still fits the packed width.
type MacroExpansionTable struct {
	entries []MacroExpansionInfo
	lru     []MacroID // most-recently-used first, capped at fuseLRUSize
}

// NewMacroExpansionTable returns an empty table. Entries are appended
// starting at index 0 and MacroID 0 is valid, meaning entries[0]: macro and
// file locations are distinguished by the tag bit, not by sharing one ID
// space, so the FileID-0-is-invalid convention needs no counterpart here.
func NewMacroExpansionTable() *MacroExpansionTable {
	return &MacroExpansionTable{}
}

// newEntry allocates a fresh MacroExpansionInfo and returns its ID.
func (t *MacroExpansionTable) newEntry(spelling, expStart, expEnd SourceLocation) MacroID {
	id := MacroID(len(t.entries))
	if int(id) > MaxMacroID {
		panic(&InvariantError{Msg: "macro expansion table exceeded MaxMacroID"})
	}
	t.entries = append(t.entries, MacroExpansionInfo{
		SpellingLoc:       spelling,
		ExpansionLocStart: expStart,
		ExpansionLocEnd:   expEnd,
	})
	t.touch(id)
	return id
}

func (t *MacroExpansionTable) touch(id MacroID) {
	for i, e := range t.lru {
		if e == id {
			t.lru = append(t.lru[:i], t.lru[i+1:]...)
			break
		}
	}
	t.lru = append([]MacroID{id}, t.lru...)
	if len(t.lru) > fuseLRUSize {
		t.lru = t.lru[:fuseLRUSize]
	}
}

// Entry returns the expansion info for id.
func (t *MacroExpansionTable) Entry(id MacroID) MacroExpansionInfo {
	return t.entries[id]
}

// GetInstantiationLoc implements spec §4.1's get_instantiation_loc: builds
// a macro SourceLocation for a token whose physical location is spelling
// and whose logical (call-site) range is [expStart, expEnd]. When an entry
// already in the LRU has the same expansion range and spelling file, and
// the new spelling's delta from that entry's base still fits the packed
// width, the location is fused into that entry instead of allocating a new
// MacroID — a space optimization that preserves semantics (both locations
// still decompose to their own correct spelling/expansion pair, because the
// entry's SpellingLoc is recorded at delta 0 and spelling of new locations
// is derived from delta).
func (t *MacroExpansionTable) GetInstantiationLoc(spelling, expStart, expEnd SourceLocation) SourceLocation {
	for _, id := range t.lru {
		e := &t.entries[id]
		if e.ExpansionLocStart != expStart || e.ExpansionLocEnd != expEnd {
			continue
		}
		if !sameFile(e.SpellingLoc, spelling) {
			continue
		}
		delta := physicalDelta(e.SpellingLoc, spelling)
		if delta < 0 || delta > MaxMacroDelta {
			continue
		}
		t.touch(id)
		return makeMacroLoc(id, delta)
	}

	id := t.newEntry(spelling, expStart, expEnd)
	return makeMacroLoc(id, 0)
}

// sameFile reports whether two file-tagged locations live in the same
// FileID. Non-file locations are never considered the same file.
func sameFile(a, b SourceLocation) bool {
	if a.IsMacroID() || b.IsMacroID() {
		return false
	}
	fa, _ := a.fileIDAndOffset()
	fb, _ := b.fileIDAndOffset()
	return fa == fb
}

// physicalDelta returns b's offset minus a's offset within the same file,
// or -1 if they are not directly comparable.
func physicalDelta(a, b SourceLocation) int {
	if a.IsMacroID() || b.IsMacroID() {
		return -1
	}
	_, oa := a.fileIDAndOffset()
	_, ob := b.fileIDAndOffset()
	return ob - oa
}

// resolveSpelling returns the physical SourceLocation a macro location
// refers to: the entry's recorded SpellingLoc, advanced by the packed
// delta.
func (t *MacroExpansionTable) resolveSpelling(id MacroID, delta int) SourceLocation {
	e := t.entries[id]
	fileID, offset := e.SpellingLoc.fileIDAndOffset()
	return makeFileLoc(fileID, offset+delta)
}
