package passes

import (
	"github.com/you-not-fish/rage/internal/ssa"
)

// Mem2Reg promotes slot allocas to SSA registers. Rage functions are a
// single straight-line block, so each load is replaced by the value of the
// closest preceding store to the same slot; no phis are needed. A load that
// precedes every store reads zero. Allocas used by anything other than
// load (ptr) or store (dst) are left intact.
func Mem2Reg(f *ssa.Func) {
	promotable := findPromotable(f)
	if len(promotable) == 0 {
		return
	}
	for _, b := range f.Blocks {
		promoteBlock(b, promotable)
	}
}

// findPromotable returns the set of allocas whose every use is a load or
// the destination of a store.
func findPromotable(f *ssa.Func) map[*ssa.Value]bool {
	set := make(map[*ssa.Value]bool)
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpAlloca {
				set[v] = true
			}
		}
	}

	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if !set[arg] {
					continue
				}
				ok := (v.Op == ssa.OpLoad || v.Op == ssa.OpStore) && i == 0
				if !ok {
					delete(set, arg)
				}
			}
		}
		for _, c := range b.Controls {
			delete(set, c)
		}
	}
	return set
}

// promoteBlock rewrites the loads and stores of promotable allocas in b
// and removes them together with the allocas.
func promoteBlock(b *ssa.Block, promotable map[*ssa.Value]bool) {
	cur := make(map[*ssa.Value]*ssa.Value)  // alloca → current value
	repl := make(map[*ssa.Value]*ssa.Value) // removed load → its value

	kept := b.Values[:0]
	for _, v := range b.Values {
		for i, arg := range v.Args {
			if r, ok := repl[arg]; ok {
				v.ReplaceArg(i, r)
			}
		}

		switch {
		case v.Op == ssa.OpAlloca && promotable[v]:
			continue

		case v.Op == ssa.OpStore && promotable[v.Args[0]]:
			cur[v.Args[0]] = v.Args[1]
			v.SetArgs(nil)
			continue

		case v.Op == ssa.OpLoad && promotable[v.Args[0]]:
			slot := v.Args[0]
			if x := cur[slot]; x != nil {
				repl[v] = x
				v.SetArgs(nil)
				continue
			}
			// Read before any store: the load becomes a zero constant.
			v.SetArgs(nil)
			if v.Type.IsFloat() {
				v.Op = ssa.OpConstFloat
				v.AuxFloat = 0
			} else {
				v.Op = ssa.OpConst
				v.AuxInt = 0
			}
			cur[slot] = v
		}
		kept = append(kept, v)
	}
	for i := len(kept); i < len(b.Values); i++ {
		b.Values[i] = nil
	}
	b.Values = kept

	for _, c := range b.Controls {
		if r, ok := repl[c]; ok {
			b.SetControl(r)
		}
	}
}
