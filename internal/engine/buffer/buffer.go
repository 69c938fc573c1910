package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/rivo/uniseg"
)

// ErrBinaryFile is returned by Load for content that is not text.
var ErrBinaryFile = errors.New("file appears to be binary")

// binarySniffLen is how much of a file Load inspects for NUL bytes.
const binarySniffLen = 8000

// Buffer is an immutable list of lines.
type Buffer struct {
	lines []string
	path  string
}

// New creates a buffer from text. Lines are split on "\n" and a trailing
// "\r" is dropped from each line. The buffer always has at least one line.
func New(text string) *Buffer {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &Buffer{lines: lines}
}

// Load reads a file into a buffer.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return nil, fmt.Errorf("loading %s: %w", path, ErrBinaryFile)
	}

	// A final newline ends the last line rather than starting another.
	b := New(strings.TrimSuffix(string(data), "\n"))
	b.path = path
	return b, nil
}

// Path returns the file the buffer was loaded from, or "".
func (b *Buffer) Path() string {
	return b.path
}

// LineCount returns the number of lines (at least 1).
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns line i, or "" when i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the byte length of line i.
func (b *Buffer) LineLen(i int) int {
	return len(b.Line(i))
}

// Clamp moves p to the nearest valid position: the line is clamped to the
// buffer, the column to the line, and the column snaps back to the start of
// the grapheme containing it.
func (b *Buffer) Clamp(p Point) Point {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(b.lines) {
		p.Line = len(b.lines) - 1
	}

	line := b.lines[p.Line]
	switch {
	case p.Column <= 0:
		p.Column = 0
	case p.Column >= len(line):
		p.Column = len(line)
	default:
		p.Column = snapBack(line, p.Column)
	}
	return p
}

// PrevBoundary returns the start of the grapheme before col on line i.
// Returns 0 at the start of the line.
func (b *Buffer) PrevBoundary(i, col int) int {
	line := b.Line(i)
	if col > len(line) {
		col = len(line)
	}
	prev := 0
	for off := range graphemeStarts(line) {
		if off >= col {
			break
		}
		prev = off
	}
	return prev
}

// NextBoundary returns the end of the grapheme starting at or containing
// col on line i. Returns the line length at the end of the line.
func (b *Buffer) NextBoundary(i, col int) int {
	line := b.Line(i)
	for off := range graphemeStarts(line) {
		if off > col {
			return off
		}
	}
	return len(line)
}

// snapBack returns the start of the grapheme containing col.
func snapBack(line string, col int) int {
	start := 0
	for off := range graphemeStarts(line) {
		if off > col {
			break
		}
		start = off
	}
	return start
}

// graphemeStarts yields the byte offset of every grapheme cluster in s.
func graphemeStarts(s string) iter.Seq[int] {
	return func(yield func(int) bool) {
		state := -1
		off := 0
		rest := s
		for len(rest) > 0 {
			if !yield(off) {
				return
			}
			var cluster string
			cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			off += len(cluster)
		}
	}
}
