// Package source provides span-tracked source file handling shared by the
// reader and diagnostic layers.
package source

import (
	"fmt"
	"sort"
)

// Span represents a contiguous slice of the original source text.  Positions
// are retained as physical rune indices (rather than a string slice) so that
// callers can recover enclosing lines and columns for diagnostics.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a new span, checking that start <= end.
func NewSpan(start, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the first rune index covered by this span.
func (s Span) Start() int { return s.start }

// End returns one past the last rune index covered by this span.
func (s Span) End() int { return s.end }

// Length returns the number of runes covered by this span.
func (s Span) Length() int { return s.end - s.start }

// Line describes a single physical line within a source file.
type Line struct {
	text   []rune
	span   Span
	number int
}

// String returns the text of this line.
func (l Line) String() string { return string(l.text[l.span.start:l.span.end]) }

// Number returns the 1-based line number.
func (l Line) Number() int { return l.number }

// Column returns the 1-based column of the given absolute rune index within
// this line.
func (l Line) Column(index int) int { return index - l.span.start + 1 }

// File represents a single named source file, held fully in memory per
// spec.md's "input files are read fully into memory" resource policy.
type File struct {
	name       string
	contents   []rune
	lineStarts []int // lineStarts[i] is the rune offset where line i+1 begins
}

// NewFile constructs a source file from raw bytes, indexing line-start
// offsets once up front so later diagnostics don't re-scan the file.
func NewFile(name string, bytes []byte) *File {
	contents := []rune(string(bytes))

	lineStarts := []int{0}
	for i, r := range contents {
		if r == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	return &File{name: name, contents: contents, lineStarts: lineStarts}
}

// Name returns the file's name (path, or a synthetic name for in-memory
// sources such as test fixtures).
func (f *File) Name() string { return f.name }

// Contents returns the full rune sequence of this file.
func (f *File) Contents() []rune { return f.contents }

// FindLine returns the first physical line enclosing the start of the given
// span. If the span starts beyond the end of the file, the last line is
// returned. Looks up the enclosing line by binary-searching the file's
// precomputed line-start offsets (built once in NewFile) rather than
// re-scanning the file's contents on every call.
func (f *File) FindLine(span Span) Line {
	index := span.start

	// lineStarts is sorted ascending; find the last start offset <= index,
	// i.e. one past the first start offset that's strictly greater than it.
	num := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > index
	})

	lineIndex := num - 1
	if lineIndex < 0 {
		lineIndex = 0
	}

	start := f.lineStarts[lineIndex]

	end := len(f.contents)
	if lineIndex+1 < len(f.lineStarts) {
		end = f.lineStarts[lineIndex+1] - 1 // exclude the newline itself
	}

	return Line{f.contents, Span{start, end}, lineIndex + 1}
}

// SyntaxError reports a position and message against this file.
func (f *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{f, span, msg}
}

// SyntaxError is a structured error carrying a span into the file it
// originated from, plus a human-readable message.
type SyntaxError struct {
	file *File
	span Span
	msg  string
}

// File returns the source file this error was raised against.
func (e *SyntaxError) File() *File { return e.file }

// Span returns the span this error covers.
func (e *SyntaxError) Span() Span { return e.span }

// Message returns the raw message, without file/line decoration.
func (e *SyntaxError) Message() string { return e.msg }

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.file == nil {
		return e.msg
	}

	line := e.file.FindLine(e.span)

	return fmt.Sprintf("%s:%d:%d: %s", e.file.Name(), line.Number(), line.Column(e.span.Start()), e.msg)
}

// Map associates items of type T with the span of source text they were
// parsed from.  Used to recover diagnostic positions for values built well
// after the reader has finished running.
type Map[T comparable] struct {
	mapping map[T]Span
	file    *File
}

// NewMap constructs an empty source map over the given file.
func NewMap[T comparable](file *File) *Map[T] {
	return &Map[T]{mapping: make(map[T]Span), file: file}
}

// File returns the file this map indexes spans into.
func (m *Map[T]) File() *File { return m.file }

// Put records the span of a newly constructed item.  Panics if the item is
// already registered, since that indicates a parser bug (aliasing of two
// distinct source positions onto one value identity).
func (m *Map[T]) Put(item T, span Span) {
	if _, ok := m.mapping[item]; ok {
		panic(fmt.Sprintf("source map key already registered: %v", item))
	}

	m.mapping[item] = span
}

// Has checks whether an item has a recorded span.
func (m *Map[T]) Has(item T) bool {
	_, ok := m.mapping[item]
	return ok
}

// Get returns the span recorded for an item, or the zero Span if absent.
func (m *Map[T]) Get(item T) (Span, bool) {
	s, ok := m.mapping[item]
	return s, ok
}

// Copy duplicates the span recorded for `from` onto `to`, for a caller that
// rewrites a node and wants the new node to report diagnostics at the same
// position as the original.
func (m *Map[T]) Copy(from, to T) {
	if s, ok := m.mapping[from]; ok {
		m.mapping[to] = s
	}
}
