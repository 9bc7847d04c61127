package ssa

import (
	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/types"
)

// Func is a function body under construction or complete.
type Func struct {
	Name string

	// Decl is the function's declaration in its module.
	Decl *FuncDecl

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]).
	Entry *Block

	nextValueID ID
	nextBlockID ID
}

// NewFunc creates a function body for decl with an open entry block.
func NewFunc(decl *FuncDecl) *Func {
	f := &Func{
		Name: decl.Name,
		Decl: decl,
	}
	f.Entry = f.NewBlock(BlockPlain)
	return f
}

// NewBlock creates a new basic block with the given kind and appends it to the function.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewValue creates a new Value at the end of block b.
func (f *Func) NewValue(b *Block, op Op, typ types.MachineType, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos creates a new Value with source position in the given block.
func (f *Func) NewValuePos(b *Block, op Op, typ types.MachineType, pos syntax.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}

// Slots returns the element types of the function's allocas in order.
func (f *Func) Slots() []types.MachineType {
	var slots []types.MachineType
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == OpAlloca {
				slots = append(slots, v.ElemType())
			}
		}
	}
	return slots
}

// Seal terminates the open entry block with a return of ret.
func (f *Func) Seal(ret *Value) {
	f.Entry.Kind = BlockReturn
	f.Entry.SetControl(ret)
}
