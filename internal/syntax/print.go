package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.Name)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		p.printf("Type: %s\n", n.Type.Value)
		p.indent--

	case *DefineStmt:
		p.printf("DefineStmt %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		p.printf("Value:\n")
		p.indent++
		p.print(n.Value)
		p.indent--
		p.indent--

	case *CallStmt:
		p.printf("CallStmt %s\n", n.pos)
		p.indent++
		p.print(n.Call)
		p.indent--

	case *EOIStmt:
		p.printf("EOI %s\n", n.pos)

	case *Name:
		p.printf("Name %s\n", n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s\n", n.Kind, litString(n))

	case *CallExpr:
		p.printf("CallExpr %s\n", n.Fun.Value)
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

// ExprString returns the source form of an expression.
func ExprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch x := e.(type) {
	case *Name:
		return x.Value
	case *BasicLit:
		return litString(x)
	case *CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = ExprString(a)
		}
		return x.Fun.Value + "(" + strings.Join(args, ", ") + ")"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

// litString re-quotes character and string literals.
func litString(l *BasicLit) string {
	switch l.Kind {
	case CharLit:
		q := strconv.QuoteToASCII(l.Value)
		q = strings.ReplaceAll(q[1:len(q)-1], `\"`, `"`)
		return "'" + strings.ReplaceAll(q, "'", `\'`) + "'"
	case StringLit:
		return strconv.Quote(l.Value)
	}
	return l.Value
}
