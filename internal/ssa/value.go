package ssa

import (
	"fmt"

	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single SSA computation.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	Op Op

	// Type is the machine type of the result.
	// MachInvalid for void operations.
	Type types.MachineType

	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	AuxInt   int64
	AuxFloat float64
	Aux      interface{} // *types.Var for Alloca, *FuncDecl for StaticCall

	// Uses counts references from other values and block controls.
	Uses int32

	// Pos is the source position of the construct that produced the value.
	Pos syntax.Pos
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns the value in the same form Fprint uses.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// SetArgs replaces the argument list, adjusting use counts.
func (v *Value) SetArgs(args []*Value) {
	for _, old := range v.Args {
		old.Uses--
	}
	v.Args = args
	for _, arg := range args {
		arg.Uses++
	}
}

// ReplaceArg replaces the argument at index i, adjusting use counts.
func (v *Value) ReplaceArg(i int, new *Value) {
	v.Args[i].Uses--
	v.Args[i] = new
	new.Uses++
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

// Var returns the variable an Alloca materializes, or nil.
func (v *Value) Var() *types.Var {
	if v.Op != OpAlloca {
		return nil
	}
	tv, _ := v.Aux.(*types.Var)
	return tv
}

// ElemType returns the machine type stored in an Alloca's slot.
func (v *Value) ElemType() types.MachineType {
	if tv := v.Var(); tv != nil {
		mt, _ := tv.Machine()
		return mt
	}
	return types.MachInvalid
}

// Callee returns the declaration a StaticCall targets, or nil.
func (v *Value) Callee() *FuncDecl {
	if v.Op != OpStaticCall {
		return nil
	}
	d, _ := v.Aux.(*FuncDecl)
	return d
}
