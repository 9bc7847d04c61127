package ssa

import (
	"errors"
	"strings"
	"testing"

	"github.com/you-not-fish/rage/internal/rtabi"
	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/types"
)

// lower parses src and lowers it into the entry function of a fresh module.
// It calls t.Fatal on parse errors.
func lower(t *testing.T, src string) (*Func, error) {
	t.Helper()

	file, err := syntax.ParseFile("t.rage", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	m := NewModule("t", rtabi.DefaultTargetTriple)
	rt, err := DeclareRuntime(m)
	if err != nil {
		t.Fatalf("DeclareRuntime: %v", err)
	}
	return BuildMain(m, rt, file)
}

// mustLower lowers src and verifies the result.
func mustLower(t *testing.T, src string) *Func {
	t.Helper()

	fn, err := lower(t, src)
	if err != nil {
		t.Fatalf("lowering failed: %v", err)
	}
	if err := Verify(fn); err != nil {
		t.Fatalf("Verify(%s) failed:\n%v\nSSA:\n%s", fn.Name, err, Sprint(fn))
	}
	return fn
}

// lowerErr lowers src and checks that it fails with the given kind.
func lowerErr(t *testing.T, src string, kind ErrorKind) *LowerError {
	t.Helper()

	fn, err := lower(t, src)
	if err == nil {
		t.Fatalf("lowering succeeded, want %s\nSSA:\n%s", kind, Sprint(fn))
	}
	var le *LowerError
	if !errors.As(err, &le) {
		t.Fatalf("error %v is %T, want *LowerError", err, err)
	}
	if le.Kind != kind {
		t.Fatalf("error kind = %s, want %s (%v)", le.Kind, kind, err)
	}
	return le
}

// ops returns the ops of the entry block in order.
func ops(fn *Func) []Op {
	var list []Op
	for _, v := range fn.Entry.Values {
		list = append(list, v.Op)
	}
	return list
}

// findOp returns the values with the given op.
func findOp(fn *Func, op Op) []*Value {
	var list []*Value
	for _, v := range fn.Entry.Values {
		if v.Op == op {
			list = append(list, v)
		}
	}
	return list
}

func TestBuildEmpty(t *testing.T) {
	fn := mustLower(t, "")

	if fn.Name != "main" {
		t.Errorf("Name = %q, want main", fn.Name)
	}
	if fn.Decl.Linkage != LinkageExport || fn.Decl.Result != types.MachI32 {
		t.Errorf("Decl = %s (%s)", fn.Decl, fn.Decl.Linkage)
	}
	want := "func main() i32:\n  b0: (entry)\n    v0 = Const <i32> [0]\n    Return v0\n"
	if got := Sprint(fn); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildPutChar(t *testing.T) {
	fn := mustLower(t, "var x: i8;\nx = 65;\nlibc_putchar(x);\n")

	want := `func main() i32:
  b0: (entry)
    v0 = Alloca <ptr> [0] {x}
    v1 = Const <i8> [65]
    Store v0 v1
    v3 = Load <i8> v0
    v4 = StaticCall <i32> {putchar} v3
    v5 = Const <i32> [0]
    Return v5
`
	if got := Sprint(fn); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	call := findOp(fn, OpStaticCall)[0]
	if call.Callee().Linkage != LinkageImport {
		t.Errorf("putchar linkage = %s, want import", call.Callee().Linkage)
	}
	if call.Args[0].Args[0] != fn.Entry.Values[0] {
		t.Error("call argument does not load from x's slot")
	}
}

func TestBuildDuplicateDeclaration(t *testing.T) {
	le := lowerErr(t, "var x: i8;\nvar x: i16;", DuplicateDeclaration)
	if !strings.HasPrefix(le.Error(), "t.rage:2:5: error[DuplicateDeclaration]: x redeclared") {
		t.Errorf("Error() = %q", le.Error())
	}
	if !strings.Contains(le.Error(), "previous declaration at t.rage:1:5") {
		t.Errorf("Error() = %q, want previous position", le.Error())
	}
}

func TestBuildSlots(t *testing.T) {
	fn := mustLower(t, "var a: i8; var s: str; var b: i64; var p: ptr; var c: f32;")

	allocas := findOp(fn, OpAlloca)
	want := []struct {
		name string
		slot int64
		elem types.MachineType
	}{
		{"a", 0, types.MachI8},
		{"b", 2, types.MachI64},
		{"c", 4, types.MachF32},
	}
	if len(allocas) != len(want) {
		t.Fatalf("got %d allocas, want %d\nSSA:\n%s", len(allocas), len(want), Sprint(fn))
	}
	for i, w := range want {
		a := allocas[i]
		if a.Var().Name() != w.name || a.AuxInt != w.slot || a.ElemType() != w.elem {
			t.Errorf("alloca %d = %s slot %d of %s, want %s slot %d of %s",
				i, a.Var().Name(), a.AuxInt, a.ElemType(), w.name, w.slot, w.elem)
		}
	}
	slots := fn.Slots()
	if len(slots) != 3 || slots[2] != types.MachF32 {
		t.Errorf("Slots() = %v", slots)
	}
}

func TestBuildLiteralWidths(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		typ   types.MachineType
		value int64
	}{
		{"char", "var c: char; c = 'A';", types.MachI8, 65},
		{"char as int", "var c: char; c = 65;", types.MachI8, 65},
		{"bool true", "var b: bool; b = true;", types.MachI8, 1},
		{"bool false", "var b: bool; b = false;", types.MachI8, 0},
		{"bool from 1", "var b: bool; b = 1;", types.MachI8, 1},
		{"i16", "var x: i16; x = 1000;", types.MachI16, 1000},
		{"i32 negative", "var x: i32; x = -5;", types.MachI32, -5},
		{"i64 min", "var x: i64; x = -9223372036854775808;", types.MachI64, -9223372036854775808},
		{"i8 unsigned pattern", "var x: i8; x = 255;", types.MachI8, -1},
		{"char latin1", "var c: char; c = 'é';", types.MachI8, -23},
		{"bool into i64", "var x: i64; x = true;", types.MachI64, 1},
		{"char into i32", "var x: i32; x = 'z';", types.MachI32, 122},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := mustLower(t, tt.src)
			consts := findOp(fn, OpConst)
			// The last constant is the return value.
			if len(consts) != 2 {
				t.Fatalf("got %d constants, want 2\nSSA:\n%s", len(consts), Sprint(fn))
			}
			c := consts[0]
			if c.Type != tt.typ || c.AuxInt != tt.value {
				t.Errorf("constant = %s, want <%s> [%d]", c.LongString(), tt.typ, tt.value)
			}
		})
	}
}

func TestBuildCharEqualsCode(t *testing.T) {
	a := mustLower(t, "var c: char; c = 'A';")
	b := mustLower(t, "var c: char; c = 65;")
	if Sprint(a) != Sprint(b) {
		t.Errorf("'A' and 65 lowered differently:\n%s\n%s", Sprint(a), Sprint(b))
	}
}

func TestBuildFloats(t *testing.T) {
	tests := []struct {
		src   string
		typ   types.MachineType
		value float64
	}{
		{"var f: f64; f = 2.5;", types.MachF64, 2.5},
		{"var f: f64; f = 3;", types.MachF64, 3},
		{"var f: f32; f = 1;", types.MachF32, 1},
		{"var f: f32; f = 0.1;", types.MachF32, float64(float32(0.1))},
		{"var f: f64; f = -1.5e3;", types.MachF64, -1500},
	}
	for _, tt := range tests {
		fn := mustLower(t, tt.src)
		c := findOp(fn, OpConstFloat)
		if len(c) != 1 || c[0].Type != tt.typ || c[0].AuxFloat != tt.value {
			t.Errorf("%s:\n%s", tt.src, Sprint(fn))
		}
	}
}

func TestBuildLiteralErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
	}{
		{"var x: i8; x = 256;", LiteralParseError},
		{"var x: i8; x = -129;", LiteralParseError},
		{"var x: i16; x = 70000;", LiteralParseError},
		{"var x: i64; x = 9223372036854775808;", LiteralParseError},
		{"var c: char; c = '€';", LiteralParseError},
		{"var f: f32; f = 1e39;", LiteralParseError},
		{"var f: f64; f = 1e400;", LiteralParseError},
		{"var x: i32; x = 1.5;", TypeMismatch},
		{"var x: i8; x = \"hi\";", Unsupported},
		{"var x: i8; x = null;", Unsupported},
		{"var b: bool; b = 2;", TypeMismatch},
		{"var b: bool; b = -1;", TypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lowerErr(t, tt.src, tt.kind)
		})
	}
}

func TestBuildUndeclared(t *testing.T) {
	for _, src := range []string{
		"y = 1;",
		"libc_putchar(y);",
		"var x: i8; x = y;",
		"var x: i8; x = i8;",
	} {
		le := lowerErr(t, src, UndeclaredVariable)
		if !strings.Contains(le.Msg, "undeclared variable") {
			t.Errorf("%s: Msg = %q", src, le.Msg)
		}
	}
}

func TestBuildUnknownType(t *testing.T) {
	le := lowerErr(t, "var x: u8;", UnknownType)
	if le.Pos.Col() != 8 {
		t.Errorf("error column = %d, want 8", le.Pos.Col())
	}
}

func TestBuildNoMachineType(t *testing.T) {
	for _, src := range []string{
		"var s: str; s = 'a';",
		"var s: str; s = \"hello\";",
		"var p: ptr; p = 0;",
		"var n: null; n = null;",
		"var s: str; libc_putchar(s);",
		"var s: str; var x: i8; x = s;",
	} {
		lowerErr(t, src, Unsupported)
	}
}

func TestBuildCalls(t *testing.T) {
	fn := mustLower(t, "libc_putchar('H'); libc_putchar(10);")
	calls := findOp(fn, OpStaticCall)
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	for i, want := range []int64{72, 10} {
		arg := calls[i].Args[0]
		if arg.Op != OpConst || arg.Type != types.MachI8 || arg.AuxInt != want {
			t.Errorf("call %d arg = %s, want Const <i8> [%d]", i, arg.LongString(), want)
		}
	}

	lowerErr(t, "printf(1);", UnknownFunction)
	lowerErr(t, "libc_putchar(1, 2);", Unsupported)
	lowerErr(t, "libc_putchar();", Unsupported)
	lowerErr(t, "libc_putchar(1.5);", TypeMismatch)
}

func TestBuildGetChar(t *testing.T) {
	fn := mustLower(t, "var c: i8; c = libc_getchar(0); libc_putchar(c);")
	want := []Op{OpAlloca, OpConst, OpStaticCall, OpTrunc, OpStore, OpLoad, OpStaticCall, OpConst}
	got := ops(fn)
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}
	if getc := fn.Entry.Values[2].Callee(); getc.Name != "getchar" {
		t.Errorf("first call = %s, want getchar", getc.Name)
	}
}

func TestBuildIdentifierCoercion(t *testing.T) {
	tests := []struct {
		src string
		op  Op
	}{
		{"var a: i64; a = 70; var b: i8; b = a;", OpTrunc},
		{"var a: i8; a = 7; var b: i32; b = a;", OpSExt},
		{"var a: f32; a = 1.5; var b: f64; b = a;", OpFPExt},
		{"var a: f64; a = 1.5; var b: f32; b = a;", OpFPTrunc},
		{"var a: i64; a = 66; libc_putchar(a);", OpTrunc},
	}
	for _, tt := range tests {
		fn := mustLower(t, tt.src)
		if len(findOp(fn, tt.op)) != 1 {
			t.Errorf("%s: missing %s\n%s", tt.src, tt.op, Sprint(fn))
		}
	}

	fn := mustLower(t, "var a: i8; a = 1; var b: i8; b = a;")
	if n := len(findOp(fn, OpSExt)) + len(findOp(fn, OpTrunc)); n != 0 {
		t.Errorf("same-width copy emitted %d conversions", n)
	}

	lowerErr(t, "var f: f64; f = 1; var i: i32; i = f;", TypeMismatch)
	lowerErr(t, "var i: i32; i = 1; var f: f64; f = i;", TypeMismatch)
}

func TestBuildSourceOrder(t *testing.T) {
	fn := mustLower(t, "var x: i8; x = 1; x = 2; libc_putchar(x); x = 3;")
	var stored []int64
	for _, v := range findOp(fn, OpStore) {
		stored = append(stored, v.Args[1].AuxInt)
	}
	if len(stored) != 3 || stored[0] != 1 || stored[1] != 2 || stored[2] != 3 {
		t.Errorf("stores = %v, want [1 2 3]", stored)
	}
}

func TestBuildStopsAtFirstError(t *testing.T) {
	fn, err := lower(t, "var x: i8; y = 1; var z: i8;")
	if !IsKind(err, UndeclaredVariable) {
		t.Fatalf("err = %v, want UndeclaredVariable", err)
	}
	if got := ops(fn); len(got) != 1 || got[0] != OpAlloca {
		t.Errorf("ops after failure = %v, want [Alloca]", got)
	}
	if fn.Entry.Sealed() {
		t.Error("function sealed after failure")
	}
}

func TestBuilderIncremental(t *testing.T) {
	m := NewModule("repl", "")
	rt, err := DeclareRuntime(m)
	if err != nil {
		t.Fatal(err)
	}
	decl, _ := m.DeclareFunc("main", nil, types.MachI32, LinkageExport)
	fn, err := m.NewFunc(decl)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(fn, rt, types.NewProgram("repl"))

	for _, line := range []string{"var x: i8;", "x = 'a';", "libc_putchar(x);"} {
		file, err := syntax.ParseFile("repl", strings.NewReader(line))
		if err != nil {
			t.Fatal(err)
		}
		if err := b.File(file); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if b.Program().NumSlots() != 1 || b.Func() != fn {
		t.Errorf("builder state: %d slots", b.Program().NumSlots())
	}
	if err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if err := b.Finish(); err == nil {
		t.Error("second Finish succeeded")
	}
	if err := VerifyModule(m); err != nil {
		t.Fatal(err)
	}

	file, _ := syntax.ParseFile("repl", strings.NewReader("x = 1;"))
	if err := b.Stmt(file.Stmts[0]); !IsKind(err, Unsupported) {
		t.Errorf("Stmt after Finish = %v, want Unsupported", err)
	}
}

func TestFitInt(t *testing.T) {
	tests := []struct {
		x    int64
		bits int
		want int64
		ok   bool
	}{
		{127, 8, 127, true},
		{128, 8, -128, true},
		{255, 8, -1, true},
		{256, 8, 0, false},
		{-128, 8, -128, true},
		{-129, 8, 0, false},
		{65535, 16, -1, true},
		{4294967295, 32, -1, true},
		{-1, 64, -1, true},
	}
	for _, tt := range tests {
		got, ok := fitInt(tt.x, tt.bits)
		if got != tt.want || ok != tt.ok {
			t.Errorf("fitInt(%d, %d) = %d, %v; want %d, %v", tt.x, tt.bits, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBuildNullDeclaration(t *testing.T) {
	fn := mustLower(t, "var n: null; var x: i8;")
	allocas := findOp(fn, OpAlloca)
	if len(allocas) != 1 || allocas[0].Var().Name() != "x" || allocas[0].AuxInt != 1 {
		t.Fatalf("want one alloca for x in slot 1\nSSA:\n%s", Sprint(fn))
	}

	le := lowerErr(t, "var n: null; n = 0;", Unsupported)
	if !strings.Contains(le.Msg, "variable n of type null has no machine representation") {
		t.Errorf("Msg = %q", le.Msg)
	}
	lowerErr(t, "var n: null; libc_putchar(n);", Unsupported)
}

func TestBuildDiagnosticsNameDeclaredType(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
		msg  string
	}{
		{"var f: f32; f = 1e39;", LiteralParseError, "literal 1e+39 overflows f32"},
		{"var c: char; c = 300;", LiteralParseError, "literal 300 overflows char"},
		{"var b: bool; b = 7;", TypeMismatch, "cannot use 7 as bool"},
		{"var c: char; c = 1.5;", TypeMismatch, "cannot use float literal as char"},
		{"var f: f64; var c: char; c = f;", TypeMismatch, "cannot use f (f64) as char"},
		{"libc_putchar(1000);", LiteralParseError, "literal 1000 overflows i8"},
		{"var f: f32; f = libc_getchar(0);", TypeMismatch, "cannot use libc_getchar result (i32) as f32"},
	}
	for _, tt := range tests {
		le := lowerErr(t, tt.src, tt.kind)
		if le.Msg != tt.msg {
			t.Errorf("%s: Msg = %q, want %q", tt.src, le.Msg, tt.msg)
		}
	}
}

func TestNewMain(t *testing.T) {
	m := NewModule("t", rtabi.DefaultTargetTriple)
	rt, err := DeclareRuntime(m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMain(m, rt, types.NewProgram("t"))
	if err != nil {
		t.Fatal(err)
	}
	fn := b.Func()
	if fn.Decl.Linkage != LinkageExport || fn.Decl.Result != types.MachI32 || m.Lookup(rtabi.EntryName) != fn.Decl {
		t.Errorf("main decl = %s (%s)", fn.Decl, fn.Decl.Linkage)
	}
	if _, err := NewMain(m, rt, types.NewProgram("t")); err == nil {
		t.Error("second NewMain in one module succeeded")
	}
}
