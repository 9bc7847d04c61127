package ssa

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/rage/internal/types"
)

// Verify checks the structural integrity of an SSA function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil {
		add("func %s: entry block is nil", f.Name)
		return combineErrors(errs)
	}

	if len(f.Blocks) == 0 {
		add("func %s: no blocks", f.Name)
		return combineErrors(errs)
	}

	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}

	// 1. Straight-line code: the entry block is the only block.
	if len(f.Blocks) != 1 {
		add("func %s: has %d blocks, want 1", f.Name, len(f.Blocks))
	}

	if f.Decl == nil {
		add("func %s: no declaration", f.Name)
	}

	defined := make(map[*Value]bool)
	ids := make(map[ID]*Value)
	uses := make(map[*Value]int32)
	slots := make(map[int64]*Value)

	for _, b := range f.Blocks {
		// 2. Every block has a valid Kind
		if b.Kind == BlockInvalid {
			add("func %s, %s: block has invalid kind", f.Name, b)
		}

		// 3. Block's Func pointer matches
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		for _, v := range b.Values {
			// 4. Every Value's Block pointer matches its containing block
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}

			if ids[v.ID] != nil {
				add("func %s, %s: duplicate value ID %d", f.Name, b, v.ID)
			}
			ids[v.ID] = v

			// 5. Void values have no type; everything else has one.
			if v.Op.IsVoid() && v.Type != types.MachInvalid {
				add("func %s, %s, %s (%s): void value has type %s", f.Name, b, v, v.Op, v.Type)
			}
			if !v.Op.IsVoid() && v.Type == types.MachInvalid {
				add("func %s, %s, %s (%s): non-void value has no type", f.Name, b, v, v.Op)
			}

			// 6. Args are non-nil, non-void and defined earlier.
			for i, arg := range v.Args {
				if arg == nil {
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
					continue
				}
				uses[arg]++
				if arg.Op.IsVoid() {
					add("func %s, %s, %s: arg[%d] %s is void", f.Name, b, v, i, arg)
				}
				if !defined[arg] {
					add("func %s, %s, %s: arg[%d] %s used before definition", f.Name, b, v, i, arg)
				}
			}

			// 7. Arg count matches the op.
			if n := v.Op.Info().NArgs; n >= 0 && len(v.Args) != n {
				add("func %s, %s, %s (%s): has %d args, want %d", f.Name, b, v, v.Op, len(v.Args), n)
			} else {
				verifyOp(v, add)
			}

			if v.Op == OpAlloca {
				if prev := slots[v.AuxInt]; prev != nil {
					add("func %s, %s: slot %d allocated by both %s and %s", f.Name, b, v.AuxInt, prev, v)
				}
				slots[v.AuxInt] = v
			}

			defined[v] = true
		}

		// 8. Terminator
		switch b.Kind {
		case BlockPlain:
			add("func %s, %s: block is not terminated", f.Name, b)
		case BlockReturn:
			if len(b.Controls) != 1 || b.Controls[0] == nil {
				add("func %s, %s: return has %d controls, want 1", f.Name, b, len(b.Controls))
				break
			}
			c := b.Controls[0]
			uses[c]++
			if !defined[c] {
				add("func %s, %s: return value %s not defined in block", f.Name, b, c)
			}
			if f.Decl != nil && c.Type != f.Decl.Result {
				add("func %s, %s: returns %s, want %s", f.Name, b, c.Type, f.Decl.Result)
			}
		}
	}

	// 9. Use counts are consistent.
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Uses != uses[v] {
				add("func %s, %s, %s: Uses = %d, want %d", f.Name, b, v, v.Uses, uses[v])
			}
		}
	}

	return combineErrors(errs)
}

// verifyOp checks the operand and result types of a single value.
func verifyOp(v *Value, add func(string, ...interface{})) {
	switch v.Op {
	case OpInvalid:
		add("%s: invalid op", v)

	case OpConst:
		if !v.Type.IsInt() {
			add("%s: Const of non-integer type %s", v, v.Type)
		} else if n, ok := fitInt(v.AuxInt, v.Type.Bits()); !ok || n != v.AuxInt {
			add("%s: Const [%d] not normalized to %s", v, v.AuxInt, v.Type)
		}

	case OpConstFloat:
		if !v.Type.IsFloat() {
			add("%s: ConstFloat of non-float type %s", v, v.Type)
		}

	case OpAlloca:
		tv := v.Var()
		switch {
		case v.Type != types.MachPtr:
			add("%s: Alloca has type %s, want ptr", v, v.Type)
		case tv == nil:
			add("%s: Alloca has no variable", v)
		case !tv.HasStorage():
			add("%s: Alloca for %s, which has no storage", v, tv)
		case int64(tv.Slot()) != v.AuxInt:
			add("%s: Alloca slot [%d], variable %s has slot %d", v, v.AuxInt, tv.Name(), tv.Slot())
		}

	case OpLoad:
		p := v.Args[0]
		if p == nil || p.Op != OpAlloca {
			add("%s: Load from non-alloca", v)
		} else if p.ElemType() != v.Type {
			add("%s: Load <%s> from slot of %s", v, v.Type, p.ElemType())
		}

	case OpStore:
		p, x := v.Args[0], v.Args[1]
		if p == nil || x == nil {
			return
		}
		if p.Op != OpAlloca {
			add("Store %s %s: target is not an alloca", p, x)
		} else if p.ElemType() != x.Type {
			add("Store %s %s: value of %s into slot of %s", p, x, x.Type, p.ElemType())
		}

	case OpSExt, OpTrunc, OpFPExt, OpFPTrunc:
		x := v.Args[0]
		if x == nil {
			return
		}
		want := map[types.Conversion]Op{
			types.ConvSExt:    OpSExt,
			types.ConvTrunc:   OpTrunc,
			types.ConvFPExt:   OpFPExt,
			types.ConvFPTrunc: OpFPTrunc,
		}[types.ConversionOf(x.Type, v.Type)]
		if want != v.Op {
			add("%s: %s from %s to %s", v, v.Op, x.Type, v.Type)
		}

	case OpStaticCall:
		d := v.Callee()
		if d == nil {
			add("%s: StaticCall has no callee", v)
			return
		}
		if v.Type != d.Result {
			add("%s: call of %s has type %s, want %s", v, d.Name, v.Type, d.Result)
		}
		if len(v.Args) != len(d.Params) {
			add("%s: call of %s has %d args, want %d", v, d.Name, len(v.Args), len(d.Params))
			return
		}
		for i, a := range v.Args {
			if a != nil && a.Type != d.Params[i] {
				add("%s: call of %s arg[%d] has type %s, want %s", v, d.Name, i, a.Type, d.Params[i])
			}
		}
	}
}

// VerifyModule verifies every function in m and checks that calls target
// declarations of m.
func VerifyModule(m *Module) error {
	var errs []string
	for _, f := range m.Funcs {
		if err := Verify(f); err != nil {
			errs = append(errs, err.Error())
		}
		if f.Decl != nil && m.Lookup(f.Name) != f.Decl {
			errs = append(errs, fmt.Sprintf("func %s: not declared in module %s", f.Name, m.Name))
		}
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if d := v.Callee(); d != nil && m.Lookup(d.Name) != d {
					errs = append(errs, fmt.Sprintf("func %s, %s: callee %s not declared in module %s", f.Name, v, d.Name, m.Name))
				}
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "\n"))
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
