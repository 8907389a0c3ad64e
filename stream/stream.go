// Package stream provides an immutable, persistent cursor over input text.
//
// A Stream is a small value: a pointer to the shared Source plus an offset.
// Advancing produces a new Stream and never mutates the old one, so any
// number of parse attempts can hold on to positions in the same input.
package stream

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position represents a location in source text.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Source is the input shared by every Stream derived from it.
type Source struct {
	filename   string
	runes      []rune
	lineStarts []int
	cache      *Cache
}

// Stream is a read position over a Source.
// The zero Stream is not usable; create one with New.
type Stream struct {
	src   *Source
	index int
}

// New decodes text and returns a Stream at its first rune.
// Invalid UTF-8 bytes are decoded as utf8.RuneError, one rune per byte.
func New(filename, text string) Stream {
	runes := make([]rune, 0, utf8.RuneCountInString(text))
	lineStarts := []int{0}
	for _, r := range text {
		runes = append(runes, r)
		if r == '\n' {
			lineStarts = append(lineStarts, len(runes))
		}
	}
	src := &Source{
		filename:   filename,
		runes:      runes,
		lineStarts: lineStarts,
		cache:      newCache(),
	}
	return Stream{src: src}
}

// Current returns the rune at this position, or false at end of input.
func (s Stream) Current() (rune, bool) {
	if s.index >= len(s.src.runes) {
		return 0, false
	}
	return s.src.runes[s.index], true
}

// Next returns the stream for the following position.
// At end of input it returns s unchanged and false.
func (s Stream) Next() (Stream, bool) {
	if s.index >= len(s.src.runes) {
		return s, false
	}
	return Stream{src: s.src, index: s.index + 1}, true
}

// AtEnd reports whether the stream is at end of input.
func (s Stream) AtEnd() bool {
	return s.index >= len(s.src.runes)
}

// Offset is the number of runes before this position.
func (s Stream) Offset() int {
	return s.index
}

// Len is the number of runes left.
func (s Stream) Len() int {
	return len(s.src.runes) - s.index
}

// Source returns the input this stream reads from.
func (s Stream) Source() *Source {
	return s.src
}

// Position returns the line and column of this stream.
func (s Stream) Position() Position {
	return s.src.Position(s.index)
}

// Text returns the input between s and to.
// It panics if the streams read different sources or to precedes s.
func (s Stream) Text(to Stream) string {
	if s.src != to.src {
		panic("stream: Text across different sources")
	}
	if to.index < s.index {
		panic("stream: Text end precedes start")
	}
	return string(s.src.runes[s.index:to.index])
}

// Rest returns the remaining input as a string.
func (s Stream) Rest() string {
	return string(s.src.runes[s.index:])
}

// Before reports whether s is strictly before o in the same input.
func (s Stream) Before(o Stream) bool {
	return s.src == o.src && s.index < o.index
}

// Advance returns the stream n runes ahead, clamped to end of input.
func (s Stream) Advance(n int) Stream {
	i := s.index + n
	if i > len(s.src.runes) {
		i = len(s.src.runes)
	}
	if i < 0 {
		i = 0
	}
	return Stream{src: s.src, index: i}
}

func (s Stream) String() string {
	if s.src == nil {
		return "<nil stream>"
	}
	return s.Position().String()
}

// Filename returns the name the source was created with.
func (src *Source) Filename() string {
	return src.filename
}

// Len returns the number of runes in the source.
func (src *Source) Len() int {
	return len(src.runes)
}

// Cache returns the per-input cache.
func (src *Source) Cache() *Cache {
	return src.cache
}

// Position converts a rune offset to a Position.
func (src *Source) Position(offset int) Position {
	line := sort.Search(len(src.lineStarts), func(i int) bool {
		return src.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		Filename: src.filename,
		Offset:   offset,
		Line:     line + 1,
		Column:   offset - src.lineStarts[line] + 1,
	}
}
