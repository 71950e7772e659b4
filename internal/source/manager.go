package source

import (
	"fmt"
)

// fileSlot is the SourceManager's per-FileID bookkeeping: the buffer chunk
// itself plus the parent chunk (chunk 0 of a split file; recorded, but no
// lookup reads it) and the FileID of the #include that brought it in (for
// GetIncludeStack).
type fileSlot struct {
	buf        *FileBuffer
	parentFile FileID // 0 if this is chunk 0 or not a split continuation
	includedBy FileID // FileID whose buffer contains the #include directive
}

// LineNote is one #line directive's effect: starting at physicalOffset in
// fileID, subsequent physical lines are presumed to be in presumedFile
// starting at presumedLine. This is the SUPPLEMENTED #line remapping table
// from SPEC_FULL.md, grounded on original_source/Basic/SourceManager.cpp's
// LineTable. The core never parses #line itself (that's the preprocessor's
// job); AddLineNote lets an external preprocessor register the effect.
type LineNote struct {
	FileID         FileID
	PhysicalOffset int
	PresumedFile   string
	PresumedLine   int
}

// PresumedLoc is the result of resolving a location through any #line
// remapping in effect, distinct from the macro-aware GetLogicalLoc: two
// locations that are physically in the same file can have different
// presumed files/lines if a #line directive sits between them.
type PresumedLoc struct {
	FileName string
	Line     int
	Column   int
}

// SourceManager owns every source buffer for one translation unit, assigns
// FileIDs, and translates every SourceLocation to a (buffer, offset), with
// both a physical view (where characters live) and a logical view (where
// macro expansion and #line make the user perceive them).
type SourceManager struct {
	files []fileSlot // index 0 unused (InvalidFileID)
	macros *MacroExpansionTable

	// lineNotes holds #line directives, indexed by FileID and kept sorted
	// by PhysicalOffset within each file for binary search.
	lineNotes map[FileID][]LineNote

	chunkSize int // bytes per chunk; defaults to MaxFileOffset+1
}

// NewSourceManager returns an empty SourceManager ready to ingest files.
func NewSourceManager() *SourceManager {
	return &SourceManager{
		files:     make([]fileSlot, 1), // reserve index 0
		macros:    NewMacroExpansionTable(),
		lineNotes: make(map[FileID][]LineNote),
		chunkSize: MaxFileOffset + 1,
	}
}

// CreateFileID memory-maps (here: reads) path and registers it, splitting
// into fixed-size chunks if the file exceeds the per-chunk offset width
// (spec §6). includeLoc records the #include position; pass
// InvalidLocation for the main file.
func (sm *SourceManager) CreateFileID(path string, includeLoc SourceLocation) (FileID, error) {
	buf, err := ReadFileBuffer(path, includeLoc)
	if err != nil {
		return InvalidFileID, err
	}
	return sm.registerBuffer(buf, includeLoc)
}

// CreateMemBufferID wraps an in-memory buffer, taking ownership of data.
func (sm *SourceManager) CreateMemBufferID(name string, data []byte) (FileID, error) {
	buf := NewMemBuffer(name, data)
	return sm.registerBuffer(buf, InvalidLocation)
}

// registerBuffer splits buf into chunks as needed and assigns each a FileID.
func (sm *SourceManager) registerBuffer(buf *FileBuffer, includeLoc SourceLocation) (FileID, error) {
	includedBy := sm.fileIDOf(includeLoc)

	if buf.Len() <= sm.chunkSize {
		return sm.addChunk(buf, InvalidFileID, includedBy)
	}

	// Each chunk gets its own immutable sub-buffer and FileID, linked back
	// to chunk 0 via parentFile, and carries the file's includeLoc. The
	// chunks are not stitched back together: line and column numbers are
	// computed per chunk and restart in every chunk after the first.
	var first FileID
	origin := buf.name
	data := buf.data
	for off := 0; off < len(data); off += sm.chunkSize {
		end := off + sm.chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := NewMemBuffer(fmt.Sprintf("%s#%d", origin, off/sm.chunkSize), data[off:end])
		chunk.origin = origin
		chunk.chunkOffset = off
		chunk.chunkIndex = off / sm.chunkSize
		chunk.includeLoc = includeLoc

		parent := first
		id, err := sm.addChunk(chunk, parent, includedBy)
		if err != nil {
			return InvalidFileID, err
		}
		if off == 0 {
			first = id
		}
	}
	return first, nil
}

func (sm *SourceManager) addChunk(buf *FileBuffer, parent, includedBy FileID) (FileID, error) {
	id := FileID(len(sm.files))
	if int(id) > MaxFileID {
		panic(&InvariantError{Msg: "file ID space exhausted (too many distinct file chunks in one translation unit)"})
	}
	sm.files = append(sm.files, fileSlot{buf: buf, parentFile: parent, includedBy: includedBy})
	return id, nil
}

func (sm *SourceManager) fileIDOf(loc SourceLocation) FileID {
	if !loc.IsValid() || loc.IsMacroID() {
		return InvalidFileID
	}
	id, _ := loc.fileIDAndOffset()
	return id
}

func (sm *SourceManager) slot(id FileID) *fileSlot {
	if !id.IsValid() || int(id) >= len(sm.files) {
		panic(&InvariantError{Msg: "SourceLocation addresses a non-existent FileID"})
	}
	return &sm.files[id]
}

// Buffer returns the FileBuffer for id.
func (sm *SourceManager) Buffer(id FileID) *FileBuffer { return sm.slot(id).buf }

// GetLoc builds a file SourceLocation at offset within fileID.
func (sm *SourceManager) GetLoc(fileID FileID, offset int) SourceLocation {
	buf := sm.slot(fileID).buf
	if offset < 0 || offset > buf.Len() || offset > MaxFileOffset {
		panic(&InvariantError{Msg: "offset out of range for FileID"})
	}
	return makeFileLoc(fileID, offset)
}

// Decompose returns the (FileID, offset) a valid file SourceLocation
// addresses (testable property 4's round trip). Panics if loc is a macro
// location; callers should resolve via GetPhysicalLoc first.
func (sm *SourceManager) Decompose(loc SourceLocation) (FileID, int) {
	return loc.fileIDAndOffset()
}

// GetInstantiationLoc constructs a macro SourceLocation (spec §4.1).
func (sm *SourceManager) GetInstantiationLoc(spelling, expStart, expEnd SourceLocation) SourceLocation {
	return sm.macros.GetInstantiationLoc(spelling, expStart, expEnd)
}

// GetPhysicalLoc returns where a character actually lives: itself, for a
// file location; the resolved spelling location, for a macro location.
// Idempotent (spec §4.1).
func (sm *SourceManager) GetPhysicalLoc(loc SourceLocation) SourceLocation {
	if !loc.IsMacroID() {
		return loc
	}
	id, delta := loc.macroIDAndDelta()
	return sm.macros.resolveSpelling(id, delta)
}

// GetLogicalLoc returns where the user perceives a character: itself, for a
// file location; the macro's expansion (call-site) start, for a macro
// location. Idempotent (spec §4.1).
func (sm *SourceManager) GetLogicalLoc(loc SourceLocation) SourceLocation {
	if !loc.IsMacroID() {
		return loc
	}
	id, _ := loc.macroIDAndDelta()
	return sm.macros.Entry(id).ExpansionLocStart
}

// GetColumnNumber performs the O(column) backward scan to the nearest
// newline (spec §4.1).
func (sm *SourceManager) GetColumnNumber(loc SourceLocation) int {
	phys := sm.GetPhysicalLoc(loc)
	fileID, offset := phys.fileIDAndOffset()
	return ColumnForOffset(sm.slot(fileID).buf.data, offset)
}

// GetLineNumber returns the 1-based physical line number containing loc,
// building (and caching) the owning buffer's LineCache on first use (spec
// §4.1).
func (sm *SourceManager) GetLineNumber(loc SourceLocation) int {
	phys := sm.GetPhysicalLoc(loc)
	fileID, offset := phys.fileIDAndOffset()
	buf := sm.slot(fileID).buf
	return buf.lineCache().LineForOffset(offset)
}

// GetIncludeStack walks the parent #include chain of the FileID owning loc,
// nearest include first.
func (sm *SourceManager) GetIncludeStack(loc SourceLocation) []SourceLocation {
	fileID := sm.fileIDOf(sm.GetPhysicalLoc(loc))
	var stack []SourceLocation
	seen := map[FileID]bool{}
	for fileID.IsValid() && !seen[fileID] {
		seen[fileID] = true
		slot := sm.slot(fileID)
		inc := slot.buf.IncludeLoc()
		if !inc.IsValid() {
			break
		}
		stack = append(stack, inc)
		fileID = sm.fileIDOf(inc)
	}
	return stack
}

// AddLineNote registers a #line directive's effect, per the SUPPLEMENTED
// #line remapping in SPEC_FULL.md. note.FileID and note.PhysicalOffset
// identify where the directive took effect; everything physically after it
// in that file is presumed to be in note.PresumedFile starting at
// note.PresumedLine.
func (sm *SourceManager) AddLineNote(note LineNote) {
	notes := sm.lineNotes[note.FileID]
	i := 0
	for i < len(notes) && notes[i].PhysicalOffset < note.PhysicalOffset {
		i++
	}
	notes = append(notes, LineNote{})
	copy(notes[i+1:], notes[i:])
	notes[i] = note
	sm.lineNotes[note.FileID] = notes
}

// GetPresumedLoc resolves loc through any #line remapping in effect,
// falling back to the physical file/line/column when none applies.
func (sm *SourceManager) GetPresumedLoc(loc SourceLocation) PresumedLoc {
	phys := sm.GetPhysicalLoc(loc)
	fileID, offset := phys.fileIDAndOffset()
	col := ColumnForOffset(sm.slot(fileID).buf.data, offset)

	notes := sm.lineNotes[fileID]
	var active *LineNote
	for i := range notes {
		if notes[i].PhysicalOffset > offset {
			break
		}
		active = &notes[i]
	}
	if active == nil {
		return PresumedLoc{
			FileName: sm.slot(fileID).buf.Name(),
			Line:     sm.GetLineNumber(loc),
			Column:   col,
		}
	}

	physLine := sm.slot(fileID).buf.lineCache().LineForOffset(offset)
	notePhysLine := sm.slot(fileID).buf.lineCache().LineForOffset(active.PhysicalOffset)
	return PresumedLoc{
		FileName: active.PresumedFile,
		Line:     active.PresumedLine + (physLine - notePhysLine),
		Column:   col,
	}
}

// MarkFileGuarded sets the include-guard optimization bit for fileID (see
// SPEC_FULL.md SUPPLEMENTED FEATURES).
func (sm *SourceManager) MarkFileGuarded(fileID FileID) {
	sm.slot(fileID).buf.MarkGuarded()
}

// IsFileGuarded reports the include-guard bit for fileID.
func (sm *SourceManager) IsFileGuarded(fileID FileID) bool {
	return sm.slot(fileID).buf.IsGuarded()
}
