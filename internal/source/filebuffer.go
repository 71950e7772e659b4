package source

import (
	"fmt"
	"os"
)

// FileBuffer is an immutable byte buffer for one ingested file chunk, plus
// its lazily computed line-start offset cache. A FileBuffer is owned
// exclusively by the FileID slot that references it in the SourceManager;
// it is never shared or mutated after construction.
type FileBuffer struct {
	name string // display name: path, or "<memory>" for in-memory buffers
	data []byte

	// includeLoc is the SourceLocation of the #include (or equivalent) that
	// brought this file into the translation unit. Invalid for the main
	// file; every chunk of a split file carries the file's includeLoc.
	includeLoc SourceLocation

	// origin/chunkIndex/chunkOffset record where a chunk of a split file
	// came from. No line or column helper consults them: each chunk has its
	// own FileID and line cache, so line numbers restart in every chunk
	// after the first.
	origin      string // original (pre-split) file name
	chunkIndex  int
	chunkOffset int // byte offset of this chunk within the original file

	guarded bool // include-guard bookkeeping bit (see SPEC_FULL.md)

	lines *LineCache
}

// NewFileBuffer wraps data read from disk.
func NewFileBuffer(name string, data []byte, includeLoc SourceLocation) *FileBuffer {
	return &FileBuffer{name: name, data: data, includeLoc: includeLoc, origin: name}
}

// NewMemBuffer wraps an in-memory buffer, taking ownership of data.
func NewMemBuffer(name string, data []byte) *FileBuffer {
	if name == "" {
		name = "<memory>"
	}
	return &FileBuffer{name: name, data: data, origin: name}
}

// ReadFileBuffer reads path from disk into a new FileBuffer.
func ReadFileBuffer(path string, includeLoc SourceLocation) (*FileBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file %q: %w", path, err)
	}
	return NewFileBuffer(path, data, includeLoc), nil
}

// Name returns the buffer's display name.
func (b *FileBuffer) Name() string { return b.name }

// Bytes returns the buffer's immutable contents. Callers must not mutate it.
func (b *FileBuffer) Bytes() []byte { return b.data }

// Len returns the number of bytes in the buffer.
func (b *FileBuffer) Len() int { return len(b.data) }

// IncludeLoc returns the location of the #include that brought this file
// in, or the invalid sentinel for the main file.
func (b *FileBuffer) IncludeLoc() SourceLocation { return b.includeLoc }

// IsGuarded reports the include-guard optimization bit (SPEC_FULL.md
// SUPPLEMENTED FEATURES): whether this file has already been fully
// included once under a guard the preprocessor recognized as unconditional.
func (b *FileBuffer) IsGuarded() bool { return b.guarded }

// MarkGuarded sets the include-guard bit. The core never reads this bit
// itself; it exists purely as bookkeeping a preprocessor stand-in can use
// to decide whether to re-lex the file on a repeat #include.
func (b *FileBuffer) MarkGuarded() { b.guarded = true }

// lineCache lazily computes and caches this buffer's line-start offset
// table. Once computed it is valid for the buffer's lifetime (the buffer is
// immutable), per spec §3's FileBuffer/LineCache invariant.
func (b *FileBuffer) lineCache() *LineCache {
	if b.lines == nil {
		b.lines = newLineCache(b.data)
	}
	return b.lines
}
