package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on Rage source code.
type Scanner struct {
	source

	// Current token info
	tok    Token
	lit    string  // identifier name, literal text, or decoded char/string content
	kind   LitKind // only valid when tok == _Literal
	tokPos Pos

	// ASI (Automatic Semicolon Insertion) state
	nlsemi     bool // insert a semicolon at the next newline
	asiEnabled bool

	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{
		source:     *newSource(filename, src, errh),
		asiEnabled: true,
	}
}

// SetASIEnabled enables or disables automatic semicolon insertion.
func (s *Scanner) SetASIEnabled(enabled bool) {
	s.asiEnabled = enabled
}

// Next advances to the next token.
func (s *Scanner) Next() {
	nlsemi := s.nlsemi
	s.nlsemi = false

redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	if s.asiEnabled && nlsemi && (s.ch == '\n' || s.ch < 0) {
		s.tokPos = s.pos()
		s.tok = _Semi
		if s.ch == '\n' {
			s.lit = "newline"
			s.nextch()
		} else {
			s.lit = "EOF"
		}
		return
	}

	if s.ch == '\n' {
		s.nextch()
		goto redo
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '\'':
		s.scanChar()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			// comment skipped; nlsemi still applies to the newline after it
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}

	s.nlsemi = s.tok == _Name || s.tok == _Literal || s.tok == _Rparen
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// scanIdent scans an identifier, keyword, or word literal (true, false, null).
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()

	if kind, ok := wordLits[s.lit]; ok {
		s.tok = _Literal
		s.kind = kind
		return
	}
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a decimal integer or float literal.
// The text is kept verbatim; range checks happen during lowering.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.kind = IntLit

	s.scanDigits()
	if s.ch == '.' {
		s.kind = FloatLit
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		s.scanDigits()
	}
	if lower(s.ch) == 'e' {
		s.kind = FloatLit
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		s.scanDigits()
	}
	if isLetter(s.ch) {
		s.error(fmt.Sprintf("invalid character %q in number", s.ch))
		for isLetter(s.ch) || isDigit(s.ch) {
			s.nextch()
		}
	}

	s.lit = s.litBuf.String()
	s.tok = _Literal
}

func (s *Scanner) scanDigits() {
	for isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
}

// scanChar scans a character literal. The literal holds the decoded
// content, which may be empty or longer than one character; the
// evaluator rejects anything but a single character.
func (s *Scanner) scanChar() {
	s.nextch() // skip opening '
	s.lit = s.scanQuoted('\'', "character literal not terminated")
	s.tok = _Literal
	s.kind = CharLit
}

// scanString scans a string literal; the literal is the decoded content.
func (s *Scanner) scanString() {
	s.nextch() // skip opening "
	s.lit = s.scanQuoted('"', "string not terminated")
	s.tok = _Literal
	s.kind = StringLit
}

func (s *Scanner) scanQuoted(quote rune, unterminated string) string {
	var b strings.Builder
	for {
		switch {
		case s.ch == quote:
			s.nextch()
			return b.String()

		case s.ch == '\\':
			if r, ok := s.scanEscape(quote); ok {
				b.WriteRune(r)
			}

		case s.ch == '\n' || s.ch < 0:
			s.error(unterminated)
			return b.String()

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanEscape scans an escape sequence and returns the decoded rune.
func (s *Scanner) scanEscape(quote rune) (rune, bool) {
	s.nextch() // skip \

	switch s.ch {
	case 'n':
		s.nextch()
		return '\n', true
	case 't':
		s.nextch()
		return '\t', true
	case 'r':
		s.nextch()
		return '\r', true
	case '0':
		s.nextch()
		return 0, true
	case '\\':
		s.nextch()
		return '\\', true
	case quote:
		s.nextch()
		return quote, true
	case 'x':
		s.nextch()
		return s.scanHexEscape()
	}
	if s.ch < 0 || s.ch == '\n' {
		return 0, false
	}
	s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
	s.nextch()
	return 0, false
}

// scanHexEscape scans the two digits of a \xNN escape.
func (s *Scanner) scanHexEscape() (rune, bool) {
	var val rune
	for i := 0; i < 2; i++ {
		if !isHexDigit(s.ch) {
			s.error("invalid hex escape")
			return 0, false
		}
		val = val*16 + hexValue(s.ch)
		s.nextch()
	}
	return val, true
}

func hexValue(r rune) rune {
	if isDigit(r) {
		return r - '0'
	}
	return lower(r) - 'a' + 10
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '=':
		s.tok = _Assign
	case '-':
		s.tok = _Sub
	case '/':
		if s.ch != '/' {
			s.error("unexpected character '/'")
			return true
		}
		for s.ch != '\n' && s.ch >= 0 {
			s.nextch()
		}
		return true
	case ':':
		s.tok = _Colon
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case ',':
		s.tok = _Comma
	case ';':
		s.tok = _Semi
	}
	s.lit = s.tok.String()
	return false
}
