// Package codegen translates SSA modules into LLVM IR.
package codegen

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"

	"github.com/you-not-fish/rage/internal/ssa"
	"github.com/you-not-fish/rage/internal/types"
)

// Build translates m into an LLVM module. Every function body in m must
// be sealed.
func Build(m *ssa.Module, sizes *types.Sizes) (*ir.Module, error) {
	if sizes == nil {
		sizes = types.DefaultSizes
	}
	g := &generator{
		sizes: sizes,
		mod:   ir.NewModule(),
		funcs: make(map[*ssa.FuncDecl]*ir.Func),
	}
	g.mod.SourceFilename = m.Name
	g.mod.TargetTriple = m.TargetTriple

	for _, d := range m.Decls {
		if err := g.declare(d); err != nil {
			return nil, err
		}
	}
	for _, fn := range m.Funcs {
		if err := g.lowerFunc(fn); err != nil {
			return nil, err
		}
	}
	return g.mod, nil
}

// Generate writes the LLVM IR for m to w.
func Generate(w io.Writer, m *ssa.Module, sizes *types.Sizes) error {
	mod, err := Build(m, sizes)
	if err != nil {
		return fmt.Errorf("codegen: %w", err)
	}
	e := &emitter{w: w}
	e.emitComment(fmt.Sprintf("ragec module %s", m.Name))
	e.emitModule(mod)
	return e.err
}
