package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/you-not-fish/rage/internal/ssa"
	"github.com/you-not-fish/rage/internal/types"
)

// generator translates one ssa.Module into an LLVM module.
type generator struct {
	sizes *types.Sizes
	mod   *ir.Module
	funcs map[*ssa.FuncDecl]*ir.Func
}

// declare creates the LLVM function for a declaration.
func (g *generator) declare(d *ssa.FuncDecl) error {
	ret, err := llvmType(d.Result)
	if err != nil {
		return fmt.Errorf("func %s: result: %w", d.Name, err)
	}
	params := make([]*ir.Param, len(d.Params))
	for i, p := range d.Params {
		t, err := llvmType(p)
		if err != nil {
			return fmt.Errorf("func %s: param %d: %w", d.Name, i, err)
		}
		params[i] = ir.NewParam(fmt.Sprintf("p%d", i), t)
	}
	f := g.mod.NewFunc(d.Name, ret, params...)
	if d.Linkage == ssa.LinkageInternal {
		f.Linkage = enum.LinkageInternal
	}
	g.funcs[d] = f
	return nil
}

// lowerFunc emits the body of a single SSA function.
func (g *generator) lowerFunc(fn *ssa.Func) error {
	f := g.funcs[fn.Decl]
	if f == nil {
		return fmt.Errorf("func %s: not declared", fn.Name)
	}
	vals := make(map[*ssa.Value]value.Value)
	for _, b := range fn.Blocks {
		if err := g.lowerBlock(f.NewBlock(blockName(b)), b, vals); err != nil {
			return fmt.Errorf("func %s: %w", fn.Name, err)
		}
	}
	return nil
}

// lowerBlock emits the instructions of b into blk.
func (g *generator) lowerBlock(blk *ir.Block, b *ssa.Block, vals map[*ssa.Value]value.Value) error {
	for _, v := range b.Values {
		x, err := g.lowerValue(blk, v, vals)
		if err != nil {
			return fmt.Errorf("%s: %w", v.LongString(), err)
		}
		if x != nil {
			vals[v] = x
		}
	}
	return g.lowerTerminator(blk, b, vals)
}

// lowerValue emits the LLVM IR for a single SSA value and returns the
// LLVM value it defines, or nil for void operations.
func (g *generator) lowerValue(blk *ir.Block, v *ssa.Value, vals map[*ssa.Value]value.Value) (value.Value, error) {
	arg := func(i int) (value.Value, error) {
		x := vals[v.Args[i]]
		if x == nil {
			return nil, fmt.Errorf("arg %d (%s) has no LLVM value", i, v.Args[i])
		}
		return x, nil
	}

	switch v.Op {
	// Constants are inlined at use sites; no instruction emitted.
	case ssa.OpConst:
		t, err := intType(v.Type)
		if err != nil {
			return nil, err
		}
		return constant.NewInt(t, v.AuxInt), nil

	case ssa.OpConstFloat:
		t, err := floatType(v.Type)
		if err != nil {
			return nil, err
		}
		return constant.NewFloat(t, v.AuxFloat), nil

	case ssa.OpAlloca:
		elem := v.ElemType()
		t, err := llvmType(elem)
		if err != nil {
			return nil, err
		}
		a := blk.NewAlloca(t)
		a.Align = ir.Align(g.sizes.Alignof(elem))
		a.SetName(slotName(v))
		return a, nil

	case ssa.OpLoad:
		p, err := arg(0)
		if err != nil {
			return nil, err
		}
		t, err := llvmType(v.Type)
		if err != nil {
			return nil, err
		}
		l := blk.NewLoad(t, p)
		l.Align = ir.Align(g.sizes.Alignof(v.Type))
		return l, nil

	case ssa.OpStore:
		p, err := arg(0)
		if err != nil {
			return nil, err
		}
		x, err := arg(1)
		if err != nil {
			return nil, err
		}
		s := blk.NewStore(x, p)
		s.Align = ir.Align(g.sizes.Alignof(v.Args[1].Type))
		return nil, nil

	case ssa.OpSExt, ssa.OpTrunc, ssa.OpFPExt, ssa.OpFPTrunc:
		return g.lowerConv(blk, v, arg)

	case ssa.OpStaticCall:
		return g.lowerStaticCall(blk, v, arg)
	}
	return nil, fmt.Errorf("cannot lower op %s", v.Op)
}

// lowerConv emits a width or precision conversion.
func (g *generator) lowerConv(blk *ir.Block, v *ssa.Value, arg func(int) (value.Value, error)) (value.Value, error) {
	x, err := arg(0)
	if err != nil {
		return nil, err
	}
	t, err := llvmType(v.Type)
	if err != nil {
		return nil, err
	}
	switch v.Op {
	case ssa.OpSExt:
		return blk.NewSExt(x, t), nil
	case ssa.OpTrunc:
		return blk.NewTrunc(x, t), nil
	case ssa.OpFPExt:
		return blk.NewFPExt(x, t), nil
	default:
		return blk.NewFPTrunc(x, t), nil
	}
}

// lowerStaticCall emits a direct call to a declared function.
func (g *generator) lowerStaticCall(blk *ir.Block, v *ssa.Value, arg func(int) (value.Value, error)) (value.Value, error) {
	callee := g.funcs[v.Callee()]
	if callee == nil {
		return nil, fmt.Errorf("call to undeclared function")
	}
	args := make([]value.Value, len(v.Args))
	for i := range v.Args {
		x, err := arg(i)
		if err != nil {
			return nil, err
		}
		args[i] = x
	}
	return blk.NewCall(callee, args...), nil
}

// lowerTerminator emits the block terminator.
func (g *generator) lowerTerminator(blk *ir.Block, b *ssa.Block, vals map[*ssa.Value]value.Value) error {
	switch b.Kind {
	case ssa.BlockReturn:
		if len(b.Controls) == 0 || b.Controls[0] == nil {
			blk.NewRet(nil)
			return nil
		}
		x := vals[b.Controls[0]]
		if x == nil {
			return fmt.Errorf("return value %s has no LLVM value", b.Controls[0])
		}
		blk.NewRet(x)
		return nil
	}
	return fmt.Errorf("%s: cannot lower %s block", b, b.Kind)
}
