// Package edit implements a queue of byte-range edits applied to an
// unchanging original text.
package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrOverlap is returned when two queued edits touch the same bytes.
var ErrOverlap = errors.New("overlapping edits")

// ErrOutOfRange is returned when an edit lies outside the original text.
var ErrOutOfRange = errors.New("edit out of range")

// Edit replaces Old[Start:End] with New.
type Edit struct {
	New   string
	Start int
	End   int
	seq   int
}

// A Buffer is a queue of edits against an original text. Offsets always
// refer to the original, regardless of what was queued before.
type Buffer struct {
	old   []byte
	edits []Edit
}

// NewBuffer returns a buffer editing old. old must not be modified while the
// buffer is in use.
func NewBuffer(old []byte) *Buffer {
	return &Buffer{old: old}
}

// Insert queues new text at pos. Inserts at the same position are applied in
// the order they were queued.
func (b *Buffer) Insert(pos int, text string) {
	b.Replace(pos, pos, text)
}

// Delete queues removal of old[start:end].
func (b *Buffer) Delete(start, end int) {
	b.Replace(start, end, "")
}

// Replace queues replacement of old[start:end] with text.
func (b *Buffer) Replace(start, end int, text string) {
	b.edits = append(b.edits, Edit{Start: start, End: end, New: text, seq: len(b.edits)})
}

// Len returns the number of queued edits.
func (b *Buffer) Len() int {
	return len(b.edits)
}

// Edits returns the queued edits sorted by position.
func (b *Buffer) Edits() []Edit {
	out := make([]Edit, len(b.edits))
	copy(out, b.edits)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}

		// Pure insertions go before a replacement starting at the same offset.
		iIns, jIns := out[i].Start == out[i].End, out[j].Start == out[j].End
		if iIns != jIns {
			return iIns
		}

		return out[i].seq < out[j].seq
	})

	return out
}

// Apply returns the original text with every queued edit applied.
func (b *Buffer) Apply() ([]byte, error) {
	edits := b.Edits()

	var sb strings.Builder

	sb.Grow(len(b.old))

	offset := 0

	for idx, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > len(b.old) {
			return nil, fmt.Errorf("%w: [%d,%d) in %d bytes", ErrOutOfRange, e.Start, e.End, len(b.old))
		}

		if e.Start < offset {
			prev := edits[idx-1]

			return nil, fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap, prev.Start, prev.End, e.Start, e.End)
		}

		sb.Write(b.old[offset:e.Start])
		sb.WriteString(e.New)

		offset = e.End
	}

	sb.Write(b.old[offset:])

	return []byte(sb.String()), nil
}
