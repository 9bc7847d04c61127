// Package rtabi defines the ABI constants shared between the compiler and
// the host C runtime it links against.
package rtabi

// Target configuration
const (
	// DefaultTargetTriple is used when neither the environment nor the host
	// provides one.
	DefaultTargetTriple = "x86_64-pc-linux-gnu"
)

// Machine type sizes in bytes
const (
	SizeI8  = 1
	SizeI16 = 2
	SizeI32 = 4
	SizeI64 = 8
	SizeF32 = 4
	SizeF64 = 8
	SizePtr = 8
)

// Machine type alignments in bytes (natural alignment on every supported target)
const (
	AlignI8  = SizeI8
	AlignI16 = SizeI16
	AlignI32 = SizeI32
	AlignI64 = SizeI64
	AlignF32 = SizeF32
	AlignF64 = SizeF64
	AlignPtr = SizePtr
)

// LLVM type names for code generation
const (
	LLVMTypeI8     = "i8"
	LLVMTypeI16    = "i16"
	LLVMTypeI32    = "i32"
	LLVMTypeI64    = "i64"
	LLVMTypeFloat  = "float"
	LLVMTypeDouble = "double"
	LLVMTypePtr    = "ptr" // slot address in SSA dumps; emitted IR uses typed pointers (i8*, i32*)
)
