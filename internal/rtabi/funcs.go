// Package rtabi defines the ABI constants shared between the compiler and
// the host C runtime it links against.
package rtabi

// RuntimeFn identifies one of the runtime entry points a Rage program may call.
// The set is closed: adding an entry means adding a row to runtimeFuncs.
type RuntimeFn int

const (
	PutChar RuntimeFn = iota // libc putchar
	GetChar                  // libc getchar

	runtimeFnCount // sentinel; must be last
)

// C runtime symbol names (resolved by the system linker)
const (
	SymPutChar = "putchar"
	SymGetChar = "getchar"
)

// Names used in Rage source to reach the runtime.
const (
	SrcPutChar = "libc_putchar"
	SrcGetChar = "libc_getchar"
)

// User program entry point
const (
	// EntryName is the exported symbol of the compiled program body.
	EntryName = "main"

	// EntryResult is the LLVM return type of the entry point.
	EntryResult = LLVMTypeI32
)

// FuncSignature describes a runtime function's signature for code generation.
type FuncSignature struct {
	Fn         RuntimeFn
	Source     string   // name used in Rage source
	Name       string   // linker symbol
	ReturnType string   // LLVM return type
	ParamTypes []string // LLVM parameter types
}

// runtimeFuncs is indexed by RuntimeFn.
// putchar and getchar share one shape: a single i8 in, i32 out.
var runtimeFuncs = [runtimeFnCount]FuncSignature{
	PutChar: {Fn: PutChar, Source: SrcPutChar, Name: SymPutChar, ReturnType: LLVMTypeI32, ParamTypes: []string{LLVMTypeI8}},
	GetChar: {Fn: GetChar, Source: SrcGetChar, Name: SymGetChar, ReturnType: LLVMTypeI32, ParamTypes: []string{LLVMTypeI8}},
}

// RuntimeFunctions returns the signatures of all runtime functions, in
// RuntimeFn order.
func RuntimeFunctions() []FuncSignature {
	out := make([]FuncSignature, len(runtimeFuncs))
	copy(out, runtimeFuncs[:])
	return out
}

// Signature returns the signature of fn.
func Signature(fn RuntimeFn) (FuncSignature, bool) {
	if fn < 0 || fn >= runtimeFnCount {
		return FuncSignature{}, false
	}
	return runtimeFuncs[fn], true
}

// LookupRuntime maps a callee name written in source to its runtime function.
func LookupRuntime(source string) (RuntimeFn, bool) {
	for _, sig := range runtimeFuncs {
		if sig.Source == source {
			return sig.Fn, true
		}
	}
	return 0, false
}

// String returns the source-level name of fn.
func (fn RuntimeFn) String() string {
	if sig, ok := Signature(fn); ok {
		return sig.Source
	}
	return "runtime?"
}
