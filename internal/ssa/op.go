// Package ssa implements the linear SSA intermediate representation of the
// Rage compiler and the statement lowering that builds it.
package ssa

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst      // integer constant at Type's width; AuxInt = value (sign-normalized)
	OpConstFloat // float constant; AuxFloat = value

	// Memory
	OpAlloca // slot storage; Type = ptr; AuxInt = slot index; Aux = *types.Var
	OpLoad   // load from slot; Args[0] = alloca
	OpStore  // store to slot; Args[0] = alloca, Args[1] = value; void

	// Conversion
	OpSExt    // integer sign extension; Args[0] = narrower value
	OpTrunc   // integer truncation; Args[0] = wider value
	OpFPExt   // float -> double
	OpFPTrunc // double -> float

	// Calls
	OpStaticCall // direct call; Aux = *FuncDecl; Args = arguments

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // no side effects; removable when unused
	IsVoid bool   // produces no value
	NArgs  int    // fixed argument count, or -1 if variadic
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst:      {Name: "Const", IsPure: true},
	OpConstFloat: {Name: "ConstFloat", IsPure: true},

	OpAlloca: {Name: "Alloca"},
	OpLoad:   {Name: "Load", NArgs: 1},
	OpStore:  {Name: "Store", IsVoid: true, NArgs: 2},

	OpSExt:    {Name: "SExt", IsPure: true, NArgs: 1},
	OpTrunc:   {Name: "Trunc", IsPure: true, NArgs: 1},
	OpFPExt:   {Name: "FPExt", IsPure: true, NArgs: 1},
	OpFPTrunc: {Name: "FPTrunc", IsPure: true, NArgs: 1},

	OpStaticCall: {Name: "StaticCall", NArgs: -1},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}
