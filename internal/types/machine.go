package types

import "github.com/you-not-fish/rage/internal/rtabi"

// MachineType is a value representation understood by the IR and the
// code generator.
type MachineType uint8

const (
	MachInvalid MachineType = iota
	MachI8
	MachI16
	MachI32
	MachI64
	MachF32
	MachF64
	MachPtr // slot addresses only; never the type of a source value

	machCount
)

var machNames = [machCount]string{
	MachInvalid: "invalid",
	MachI8:      rtabi.LLVMTypeI8,
	MachI16:     rtabi.LLVMTypeI16,
	MachI32:     rtabi.LLVMTypeI32,
	MachI64:     rtabi.LLVMTypeI64,
	MachF32:     rtabi.LLVMTypeFloat,
	MachF64:     rtabi.LLVMTypeDouble,
	MachPtr:     rtabi.LLVMTypePtr,
}

var machBits = [machCount]int{
	MachI8:  8,
	MachI16: 16,
	MachI32: 32,
	MachI64: 64,
	MachF32: 32,
	MachF64: 64,
	MachPtr: 8 * rtabi.SizePtr,
}

// String returns the LLVM spelling of m.
func (m MachineType) String() string {
	if m < machCount {
		return machNames[m]
	}
	return "invalid"
}

// Bits returns the width of m in bits, or 0 if m is invalid.
func (m MachineType) Bits() int {
	if m < machCount {
		return machBits[m]
	}
	return 0
}

// IsInt reports whether m is an integer type.
func (m MachineType) IsInt() bool {
	return m >= MachI8 && m <= MachI64
}

// IsFloat reports whether m is a floating-point type.
func (m MachineType) IsFloat() bool {
	return m == MachF32 || m == MachF64
}

// ParseMachine maps an LLVM type name ("i8", "double", ...) to its
// machine type.
func ParseMachine(s string) (MachineType, bool) {
	for m := MachI8; m < machCount; m++ {
		if machNames[m] == s {
			return m, true
		}
	}
	return MachInvalid, false
}

// basicMachine maps every primitive kind to its machine type.
// Reference kinds map to MachInvalid.
var basicMachine = [kindCount]MachineType{
	I8:   MachI8,
	I16:  MachI16,
	I32:  MachI32,
	I64:  MachI64,
	F32:  MachF32,
	F64:  MachF64,
	Bool: MachI8,
	Char: MachI8,
}

// MachineOf returns the machine representation of t. It reports false
// for types that have none (str, ptr, null) and for a nil t.
func MachineOf(t *Basic) (MachineType, bool) {
	if t == nil {
		return MachInvalid, false
	}
	m := basicMachine[t.kind]
	return m, m != MachInvalid
}
