package ssa

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/you-not-fish/rage/internal/types"
)

// Fprint writes the SSA representation of a function to w.
//
// Format:
//
//	func main() i32:
//	  b0: (entry)
//	    v0 = Alloca <ptr> [0] {x}
//	    v1 = Const <i8> [65]
//	    Store v0 v1
//	    v2 = Load <i8> v0
//	    v3 = StaticCall <i32> {putchar} v2
//	    v4 = Const <i32> [0]
//	    Return v4
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s", f.Name)
	if f.Decl != nil {
		fmt.Fprintf(w, "(")
		for i, p := range f.Decl.Params {
			if i > 0 {
				fmt.Fprintf(w, ", ")
			}
			fmt.Fprintf(w, "%s", p)
		}
		fmt.Fprintf(w, ") %s", f.Decl.Result)
	}
	fmt.Fprintf(w, ":\n")

	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	}
	fmt.Fprintf(w, "  %s:%s\n", b, label)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}

	if t := formatTerminator(b); t != "" {
		fmt.Fprintf(w, "    %s\n", t)
	}
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	// For void ops, don't print "vN = "
	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s", v.ID, v.Op)
	}

	if v.Type != types.MachInvalid {
		fmt.Fprintf(&sb, " <%s>", v.Type)
	}

	switch v.Op {
	case OpConst, OpAlloca:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	}

	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", formatAux(v.Aux))
	}

	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator. Open blocks print nothing.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		return ""
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	default:
		return "???"
	}
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// FprintModule writes the module's declarations and function bodies to w.
func FprintModule(w io.Writer, m *Module) {
	fmt.Fprintf(w, "module %s", m.Name)
	if m.TargetTriple != "" {
		fmt.Fprintf(w, " (%s)", m.TargetTriple)
	}
	fmt.Fprintf(w, "\n")
	for _, d := range m.Decls {
		if d.Linkage == LinkageImport {
			fmt.Fprintf(w, "declare %s\n", d)
		}
	}
	for _, f := range m.Funcs {
		fmt.Fprintf(w, "\n")
		Fprint(w, f)
	}
}

// formatAux formats an Aux value for display.
func formatAux(aux interface{}) string {
	switch a := aux.(type) {
	case *types.Var:
		return a.Name()
	case *FuncDecl:
		return a.Name
	case string:
		return a
	default:
		return fmt.Sprintf("%v", aux)
	}
}

// Print writes the SSA representation of a function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}
