package codegen

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"

	"github.com/you-not-fish/rage/internal/ssa"
)

// emitter wraps an io.Writer and keeps the first write error.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes a formatted line to the output.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitComment writes a comment line.
func (e *emitter) emitComment(text string) {
	e.emit("; %s", text)
}

// emitModule writes the textual IR of m.
func (e *emitter) emitModule(m *ir.Module) {
	if e.err != nil {
		return
	}
	_, e.err = m.WriteTo(e.w)
}

// slotName returns the LLVM local name of an alloca: the variable name
// with an ".addr" suffix, which cannot collide with block labels.
func slotName(v *ssa.Value) string {
	if tv := v.Var(); tv != nil {
		return tv.Name() + ".addr"
	}
	return fmt.Sprintf("slot%d", v.AuxInt)
}

// blockName returns the LLVM label for an SSA block.
// Block 0 is "entry", others are "bN".
func blockName(b *ssa.Block) string {
	if b.ID == 0 {
		return "entry"
	}
	return fmt.Sprintf("b%d", b.ID)
}
