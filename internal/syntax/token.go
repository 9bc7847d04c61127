// Package syntax implements lexical analysis and parsing for the Rage
// statement language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // lexical error

	// Literals
	_Name    // identifier: x, libc_putchar
	_Literal // literal value (used with LitKind)

	// Operators
	_Assign // =
	_Sub    // - (only as a literal sign)

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Comma  // ,
	_Semi   // ;
	_Colon  // :

	// Keywords
	_Var

	tokenCount
)

var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_Sub:    "-",

	_Lparen: "(",
	_Rparen: ")",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",

	_Var: "var",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t == _Var
}

// IsLiteral reports whether t is a literal token.
func (t Token) IsLiteral() bool {
	return t == _Literal
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t == _Assign || t == _Sub
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 65, -3
	FloatLit                 // 3.5, 1e3, -0.25
	CharLit                  // 'A', '\n', '\x41'
	BoolLit                  // true, false
	StringLit                // "hello"
	NullLit                  // null
)

var litKindNames = [...]string{
	IntLit:    "int",
	FloatLit:  "float",
	CharLit:   "char",
	BoolLit:   "bool",
	StringLit: "string",
	NullLit:   "null",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= NullLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// Type names (i8, char, str, ...) are not keywords; they are scanned as
// _Name and resolved by the type registry.
var keywords = map[string]Token{
	"var": _Var,
}

// wordLits are identifiers scanned as literals.
var wordLits = map[string]LitKind{
	"true":  BoolLit,
	"false": BoolLit,
	"null":  NullLit,
}

// LookupKeyword returns the token for the given identifier string:
// the keyword token, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
