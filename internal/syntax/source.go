package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// The whole input is read into memory up front.
type source struct {
	buf []byte

	filename string
	line     uint32 // line of ch (1-based)
	col      uint32 // column of ch (1-based, in characters)

	ch   rune // current character, -1 at EOF
	offs int  // byte offset of the next character

	errh func(line, col uint32, msg string)
}

// newSource creates a source reading all of src.
// errh receives lexical errors; it may be nil.
func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0, // first nextch moves to col 1
		ch:       -1,
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading source file: " + err.Error())
		s.ch = -1
		return s
	}

	s.nextch()
	return s
}

// nextch advances to the next character. After it returns, (line, col)
// is the position of s.ch.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

// isLetter reports whether r may start an identifier (a-z, A-Z, _).
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// lower folds an ASCII letter to lower case; other runes pass through.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isWhitespace reports space, tab and carriage return.
// Newline is handled by the scanner because it may end a statement.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// isOperatorStart reports whether r begins an operator or delimiter.
func isOperatorStart(r rune) bool {
	switch r {
	case '=', '-', '/', ':', '(', ')', ',', ';':
		return true
	}
	return false
}
