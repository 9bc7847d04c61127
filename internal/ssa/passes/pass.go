package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/you-not-fish/rage/internal/ssa"
)

// Pass describes a single SSA optimization pass.
type Pass struct {
	Name string
	Fn   func(f *ssa.Func)
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump SSA before this pass ("*" for all)
	DumpAfter  string    // dump SSA after this pass ("*" for all)
	Verify     bool      // verify SSA before/after each pass
	DumpFunc   string    // restrict dumps to this function name
	Out        io.Writer // dump destination; nil means stderr
}

// Default returns the standard pipeline. mem2reg is left out when
// promote is false.
func Default(promote bool) []Pass {
	var list []Pass
	if promote {
		list = append(list, Pass{Name: "mem2reg", Fn: Mem2Reg})
	}
	return append(list, Pass{Name: "deadcode", Fn: DeadCode})
}

// Lookup returns the pass with the given name.
func Lookup(name string) (Pass, bool) {
	for _, p := range Default(true) {
		if p.Name == name {
			return p, true
		}
	}
	return Pass{}, false
}

// Run executes the given passes on f in order.
func Run(f *ssa.Func, passes []Pass, cfg Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- before %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(out, f)
			fmt.Fprintln(out)
		}

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		p.Fn(f)

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- after %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(out, f)
			fmt.Fprintln(out)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
