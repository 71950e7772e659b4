package source

import "sort"

// LineCache holds a buffer's 1-based line-start offset table: lineStarts[i]
// is the byte offset at which line i+1 begins. Line #1 always starts at
// offset 0 (invariant in spec §3).
//
// The table is built once, on first query, by a single scan for '\n', '\r',
// and the '\r\n'/'\n\r' two-byte terminator pairs (treated as one line
// terminator each). Subsequent queries binary-search it.
type LineCache struct {
	lineStarts []int

	// lastFileOffset/lastLine form the 1-entry cache spec §4.1 describes:
	// consulted first, and when the new query is within a small window of
	// the previous result the binary-search bounds are narrowed instead of
	// searching the whole table.
	haveLast       bool
	lastOffset     int
	lastLine       int
}

func newLineCache(data []byte) *LineCache {
	starts := make([]int, 0, len(data)/32+1)
	starts = append(starts, 0)
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			if i+1 < len(data) && data[i+1] == '\r' {
				i++
			}
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LineCache{lineStarts: starts}
}

// lineWindows are the narrowing bands spec §4.1 names: when the new query
// offset is within ±5/±10/±20 lines of the last result, search only that
// band before falling back to the full table.
var lineWindows = [...]int{5, 10, 20}

// LineForOffset returns the 1-based line number containing offset.
func (lc *LineCache) LineForOffset(offset int) int {
	if lc.haveLast {
		if offset == lc.lastOffset {
			return lc.lastLine
		}
		if line, ok := lc.searchNear(offset); ok {
			lc.haveLast, lc.lastOffset, lc.lastLine = true, offset, line
			return line
		}
	}
	line := lc.searchFull(offset)
	lc.haveLast, lc.lastOffset, lc.lastLine = true, offset, line
	return line
}

// searchNear narrows the binary-search bounds around the cached line using
// the windows in lineWindows, in increasing order, before giving up.
func (lc *LineCache) searchNear(offset int) (int, bool) {
	n := len(lc.lineStarts)
	for _, w := range lineWindows {
		lo := lc.lastLine - 1 - w
		hi := lc.lastLine - 1 + w
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		if offset < lc.lineStarts[lo] || offset > lc.boundAt(hi) {
			continue
		}
		idx := sort.Search(hi-lo+1, func(i int) bool {
			return lc.lineStarts[lo+i] > offset
		})
		return lo + idx, true // lineStarts[lo+idx-1] <= offset < lineStarts[lo+idx]
	}
	return 0, false
}

// boundAt returns the offset of line index i's last byte, for inclusive
// range checks (one before the start of line i+2, or the largest int for
// the last line).
func (lc *LineCache) boundAt(i int) int {
	if i+1 < len(lc.lineStarts) {
		return lc.lineStarts[i+1] - 1
	}
	return int(^uint(0) >> 1)
}

// searchFull binary-searches the whole table.
func (lc *LineCache) searchFull(offset int) int {
	idx := sort.Search(len(lc.lineStarts), func(i int) bool {
		return lc.lineStarts[i] > offset
	})
	return idx // lineStarts[idx-1] <= offset < lineStarts[idx], so line number is idx
}

// ColumnForOffset scans backward from offset to the nearest preceding
// newline (or start of buffer) and returns the 1-based column, per spec
// §4.1's O(column) backward-scan contract.
func ColumnForOffset(data []byte, offset int) int {
	col := 1
	for i := offset - 1; i >= 0; i-- {
		if data[i] == '\n' || data[i] == '\r' {
			break
		}
		col++
	}
	return col
}

// LineStartOffset returns the byte offset at which 1-based line begins.
func (lc *LineCache) LineStartOffset(line int) int {
	if line < 1 {
		line = 1
	}
	if line-1 >= len(lc.lineStarts) {
		return lc.lineStarts[len(lc.lineStarts)-1]
	}
	return lc.lineStarts[line-1]
}

// NumLines returns the total number of lines in the buffer.
func (lc *LineCache) NumLines() int { return len(lc.lineStarts) }
