package syntax

import (
	"io"
	"strings"
)

// Maximum number of errors before aborting parse.
const maxErrors = 10

// SyntaxError represents a lexical or syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis on Rage source code.
type Parser struct {
	scanner  *Scanner
	filename string

	// Current token info (cached from scanner)
	tok  Token
	lit  string
	kind LitKind
	pos  Pos

	// Error handling
	errh   func(pos Pos, msg string)
	errcnt int
	first  error
	abort  bool
}

// NewParser creates a new Parser for the given source.
// errh, if non-nil, receives every lexical and syntax error.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{filename: filename, errh: errh}
	p.scanner = NewScanner(filename, src, func(line, col uint32, msg string) {
		p.syntaxErrorAt(NewPos(filename, line, col), msg)
	})
	p.next()
	return p
}

// SetASIEnabled passes the ASI setting to the underlying scanner.
// It affects tokens after the current one.
func (p *Parser) SetASIEnabled(enabled bool) {
	p.scanner.SetASIEnabled(enabled)
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.kind = p.scanner.LitKind()
	p.pos = p.scanner.Pos()
}

// got consumes the current token and returns true if it is tok.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes tok or reports an error and resynchronizes.
// It reports whether tok was found.
func (p *Parser) want(tok Token) bool {
	if p.got(tok) {
		return true
	}
	p.syntaxError("expected " + tok.String() + ", found " + p.describe())
	p.advance()
	return false
}

// describe returns a short description of the current token for diagnostics.
func (p *Parser) describe() string {
	switch p.tok {
	case _Name:
		return "name " + p.lit
	case _Literal:
		return p.kind.String() + " literal"
	case _Semi:
		if p.lit == "newline" || p.lit == "EOF" {
			return p.lit
		}
	}
	return p.tok.String()
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(pos, msg)
	}

	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors; aborting parse")
		}
	}
}

// advance skips to the end of the current statement.
func (p *Parser) advance() {
	for p.tok != _EOF && p.tok != _Semi {
		p.next()
	}
	if p.tok == _Semi {
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file. The returned statement list always
// ends with an *EOIStmt, even after errors.
func (p *Parser) Parse() *File {
	f := &File{Name: p.filename}
	f.pos = p.pos

	for !p.abort && p.tok != _EOF {
		if p.got(_Semi) {
			continue // empty statement
		}
		if s := p.stmt(); s != nil {
			f.Stmts = append(f.Stmts, s)
		}
	}

	eoi := &EOIStmt{}
	eoi.pos = p.pos
	f.Stmts = append(f.Stmts, eoi)
	return f
}

// ParseFile is a convenience wrapper that parses src and returns the first
// error, if any.
func ParseFile(filename string, src io.Reader) (*File, error) {
	p := NewParser(filename, src, nil)
	f := p.Parse()
	return f, p.FirstError()
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses one statement including its terminating semicolon.
//
//	Stmt = VarDecl | DefineStmt | CallStmt .
func (p *Parser) stmt() Stmt {
	errcnt := p.errcnt
	var s Stmt
	switch p.tok {
	case _Var:
		s = p.varDecl()
	case _Name:
		name := p.name()
		switch p.tok {
		case _Assign:
			s = p.defineStmt(name)
		case _Lparen:
			c := &CallStmt{Call: p.call(name)}
			c.pos = name.pos
			s = c
		default:
			p.syntaxError("expected = or ( after " + name.Value + ", found " + p.describe())
			p.advance()
			return nil
		}
	default:
		p.syntaxError("expected statement, found " + p.describe())
		p.advance()
		return nil
	}

	if p.errcnt != errcnt {
		// already reported; the parser has resynchronized
		return nil
	}
	if !p.want(_Semi) {
		return nil
	}
	return s
}

// varDecl parses a declaration.
//
//	VarDecl = "var" Name ":" Name .
func (p *Parser) varDecl() Stmt {
	d := &VarDecl{}
	d.pos = p.pos
	p.next() // var

	if p.tok != _Name {
		p.syntaxError("expected variable name, found " + p.describe())
		p.advance()
		return nil
	}
	d.Name = p.name()
	if !p.want(_Colon) {
		return nil
	}
	switch {
	case p.tok == _Name:
		d.Type = p.name()
	case p.tok == _Literal && p.kind == NullLit:
		// null is a word literal in expressions but a type keyword here.
		d.Type = p.name()
	default:
		p.syntaxError("expected type name, found " + p.describe())
		p.advance()
		return nil
	}
	return d
}

// defineStmt parses a definition after its target name.
//
//	DefineStmt = Name "=" Expr .
func (p *Parser) defineStmt(name *Name) Stmt {
	s := &DefineStmt{Name: name}
	s.pos = name.pos
	p.next() // =

	s.Value = p.expr()
	return s
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
//
//	Expr = Name | Name "(" [ Expr { "," Expr } ] ")" | [ "-" ] Literal .
func (p *Parser) expr() Expr {
	switch p.tok {
	case _Name:
		name := p.name()
		if p.tok == _Lparen {
			return p.call(name)
		}
		return name

	case _Literal:
		lit := NewBasicLit(p.pos, p.lit, p.kind)
		p.next()
		return lit

	case _Sub:
		pos := p.pos
		p.next()
		if p.tok != _Literal || (p.kind != IntLit && p.kind != FloatLit) {
			p.syntaxError("expected number after -, found " + p.describe())
			p.advance()
			return nil
		}
		lit := NewBasicLit(pos, "-"+p.lit, p.kind)
		p.next()
		return lit
	}

	p.syntaxError("expected expression, found " + p.describe())
	p.advance()
	return nil
}

// call parses the argument list of a call to fun.
func (p *Parser) call(fun *Name) *CallExpr {
	c := &CallExpr{Fun: fun}
	c.pos = fun.pos
	p.next() // (

	for p.tok != _Rparen && p.tok != _EOF && !p.abort {
		arg := p.expr()
		if arg == nil {
			return c
		}
		c.Args = append(c.Args, arg)
		if !p.got(_Comma) {
			break
		}
	}
	if p.tok != _Rparen {
		p.syntaxError("expected ) in call to " + fun.Value + ", found " + p.describe())
		p.advance()
		return c
	}
	p.next()
	return c
}

func (p *Parser) name() *Name {
	n := NewName(p.pos, p.lit)
	p.next()
	return n
}

// ----------------------------------------------------------------------------
// Helpers

// IsValidIdent reports whether s is a syntactically valid Rage identifier.
func IsValidIdent(s string) bool {
	if s == "" || !isLetter(rune(s[0])) {
		return false
	}
	if strings.IndexFunc(s, func(r rune) bool { return !isLetter(r) && !isDigit(r) }) >= 0 {
		return false
	}
	_, word := wordLits[s]
	return !word && LookupKeyword(s) == _Name
}
