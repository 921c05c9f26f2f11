package syntax

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Source is a parsed source file. It owns the text, its syntax tree, and a
// line table, and keeps all three in sync across incremental edits.
type Source struct {
	path  string
	text  string
	root  SyntaxNode
	lines []int
}

// NewSource parses text into a fresh source.
func NewSource(path, text string) *Source {
	return &Source{
		path:  path,
		text:  text,
		root:  Parse(text),
		lines: scanLineStarts(text, 0, []int{0}),
	}
}

// Path returns the file path the source was loaded from.
func (s *Source) Path() string { return s.path }

// Text returns the current text.
func (s *Source) Text() string { return s.text }

// Len returns the text length in bytes.
func (s *Source) Len() int { return len(s.text) }

// Root returns the root of the syntax tree.
func (s *Source) Root() *SyntaxNode { return &s.root }

// Lines returns the number of lines.
func (s *Source) Lines() int { return len(s.lines) }

// Replace substitutes the whole text and parses it from scratch.
func (s *Source) Replace(text string) {
	s.text = text
	s.root = Parse(text)
	s.lines = scanLineStarts(text, 0, s.lines[:1])
}

// Edit replaces the byte range with new text, repairs the line table, and
// incrementally updates the syntax tree. It returns the range of the new
// text that had to be re-parsed.
func (s *Source) Edit(replaced Range, with string) Range {
	if replaced.Start < 0 || replaced.End > len(s.text) {
		panic("edit out of bounds: " + replaced.String())
	}
	s.text = s.text[:replaced.Start] + with + s.text[replaced.End:]

	// Line starts strictly before the edited line are unaffected; everything
	// from there on is rescanned. The edit can join a carriage return with a
	// following line feed (or split such a pair), which invalidates the
	// edited line's own start, so the rescan begins one line earlier.
	line := s.lineIndex(replaced.Start)
	if line > 0 {
		line--
	}
	s.lines = scanLineStarts(s.text, s.lines[line], s.lines[:line+1])

	return Reparse(&s.root, s.text, replaced, len(with))
}

// lineIndex returns the 0-based index of the line containing the byte index.
func (s *Source) lineIndex(index int) int {
	return sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > index
	}) - 1
}

// LineColumn converts a byte index into 1-based line and column numbers. The
// column counts characters, not bytes.
func (s *Source) LineColumn(index int) (int, int) {
	if index < 0 {
		index = 0
	}
	if index > len(s.text) {
		index = len(s.text)
	}
	line := s.lineIndex(index)
	column := utf8.RuneCountInString(s.text[s.lines[line]:index])
	return line + 1, column + 1
}

// LineStart returns the byte index at which the 1-based line begins.
func (s *Source) LineStart(line int) (int, bool) {
	if line < 1 || line > len(s.lines) {
		return 0, false
	}
	return s.lines[line-1], true
}

// Offset converts 1-based line and column numbers back into a byte index.
// The column counts characters, not bytes. Columns past the end of the line
// are reported as out of range.
func (s *Source) Offset(line, column int) (int, bool) {
	start, ok := s.LineStart(line)
	if !ok || column < 1 {
		return 0, false
	}
	index := start
	for i := 0; i < column-1; i++ {
		if index >= len(s.text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(s.text[index:])
		if isNewline(r) {
			return 0, false
		}
		index += size
	}
	return index, true
}

// Line returns the text of the 1-based line, without its terminator.
func (s *Source) Line(line int) (string, bool) {
	start, ok := s.LineStart(line)
	if !ok {
		return "", false
	}
	end := len(s.text)
	if next, ok := s.LineStart(line + 1); ok {
		end = next
	}
	return strings.TrimRight(s.text[start:end], "\r\n\v\f\u0085\u2028\u2029"), true
}

// scanLineStarts appends the starts of all lines beginning after the byte
// index start to the given table.
func scanLineStarts(text string, start int, into []int) []int {
	for i := start; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isNewline(r) {
			if r == '\r' && i+size < len(text) && text[i+size] == '\n' {
				size++
			}
			into = append(into, i+size)
		}
		i += size
	}
	return into
}
