package passes

import "github.com/you-not-fish/rage/internal/ssa"

// DeadCode removes pure values that have no uses. Values are visited last
// to first so that removing a value can free its arguments in the same pass.
func DeadCode(f *ssa.Func) {
	for _, b := range f.Blocks {
		dead := make(map[*ssa.Value]bool)
		for i := len(b.Values) - 1; i >= 0; i-- {
			v := b.Values[i]
			if v.IsPure() && v.Uses == 0 {
				v.SetArgs(nil)
				dead[v] = true
			}
		}
		if len(dead) == 0 {
			continue
		}
		kept := b.Values[:0]
		for _, v := range b.Values {
			if !dead[v] {
				kept = append(kept, v)
			}
		}
		b.Values = kept
	}
}
