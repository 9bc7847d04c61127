// Package driver runs one Rage compilation unit from source text to a
// sealed, verified SSA module and its LLVM IR.
package driver

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/you-not-fish/rage/internal/codegen"
	"github.com/you-not-fish/rage/internal/rtabi"
	"github.com/you-not-fish/rage/internal/ssa"
	"github.com/you-not-fish/rage/internal/ssa/passes"
	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/types"
)

// Config controls a compilation.
type Config struct {
	TargetTriple string // empty means rtabi.DefaultTargetTriple
	NoASI        bool   // disable automatic semicolon insertion
	Promote      bool   // run mem2reg
	Verify       bool   // verify SSA around every pass

	DumpBefore string    // dump SSA before this pass ("*" for all)
	DumpAfter  string    // dump SSA after this pass ("*" for all)
	DumpFunc   string    // restrict dumps to this function
	DumpOut    io.Writer // pass dumps; nil means stderr

	Sizes *types.Sizes // nil means types.DefaultSizes
	Trace io.Writer    // per-phase timings; nil disables tracing
}

func (c *Config) sizes() *types.Sizes {
	if c.Sizes == nil {
		return types.DefaultSizes
	}
	return c.Sizes
}

// Unit is one compilation unit: a module holding the runtime imports and
// the body of main, built statement by statement.
type Unit struct {
	Filename string
	Module   *ssa.Module
	Main     *ssa.Func
	Runtime  *ssa.RuntimeTable

	// Stats counts the statements lowered so far.
	Stats syntax.Stats

	// FrameSize is the stack size of main's slots, recorded at Finish
	// before passes can remove them.
	FrameSize int64

	conf    Config
	builder *ssa.Builder
	sealed  bool
}

// NewUnit creates a unit with the runtime declared and an empty main.
func NewUnit(filename string, conf *Config) (*Unit, error) {
	if conf == nil {
		conf = &Config{}
	}
	triple := conf.TargetTriple
	if triple == "" {
		triple = rtabi.DefaultTargetTriple
	}
	m := ssa.NewModule(filename, triple)
	rt, err := ssa.DeclareRuntime(m)
	if err != nil {
		return nil, err
	}
	b, err := ssa.NewMain(m, rt, types.NewProgram(unitName(filename)))
	if err != nil {
		return nil, err
	}
	return &Unit{
		Filename: filename,
		Module:   m,
		Main:     b.Func(),
		Runtime:  rt,
		conf:     *conf,
		builder:  b,
	}, nil
}

// unitName returns the base name of filename without its extension.
func unitName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Program returns the unit's symbol table.
func (u *Unit) Program() *types.Program { return u.builder.Program() }

// Lower appends the statements of f to main. The first failing
// statement stops lowering; earlier statements stay lowered.
func (u *Unit) Lower(f *syntax.File) error {
	if u.sealed {
		return fmt.Errorf("%s: unit already finished", u.Filename)
	}
	if err := u.builder.File(f); err != nil {
		return err
	}
	st := syntax.CountStats(f)
	for r, n := range st.Rules {
		u.Stats.Rules[r] += n
	}
	u.Stats.Calls += st.Calls
	return nil
}

// Finish seals main with "ret i32 0", verifies the module and runs the
// pass pipeline.
func (u *Unit) Finish() error {
	if u.sealed {
		return fmt.Errorf("%s: unit already finished", u.Filename)
	}
	if err := u.builder.Finish(); err != nil {
		return err
	}
	u.sealed = true
	u.FrameSize = u.conf.sizes().FrameSize(u.Main.Slots())

	if err := ssa.VerifyModule(u.Module); err != nil {
		return err
	}
	cfg := passes.Config{
		DumpBefore: u.conf.DumpBefore,
		DumpAfter:  u.conf.DumpAfter,
		Verify:     u.conf.Verify,
		DumpFunc:   u.conf.DumpFunc,
		Out:        u.conf.DumpOut,
	}
	for _, fn := range u.Module.Funcs {
		if err := passes.Run(fn, passes.Default(u.conf.Promote), cfg); err != nil {
			return fmt.Errorf("pass pipeline failed for %s: %w", fn.Name, err)
		}
	}
	return nil
}

// Sealed reports whether Finish has run.
func (u *Unit) Sealed() bool { return u.sealed }

// EmitSSA writes the SSA of every function in the unit to w.
func (u *Unit) EmitSSA(w io.Writer) {
	for i, fn := range u.Module.Funcs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		ssa.Fprint(w, fn)
	}
}

// EmitLL writes the unit's LLVM IR to w. The unit must be finished.
func (u *Unit) EmitLL(w io.Writer) error {
	if !u.sealed {
		return fmt.Errorf("%s: unit not finished", u.Filename)
	}
	return codegen.Generate(w, u.Module, u.conf.sizes())
}

// Parse parses src. All syntax errors are returned joined, in order.
func Parse(filename string, src io.Reader, conf *Config) (*syntax.File, error) {
	var errs []error
	p := syntax.NewParser(filename, src, func(pos syntax.Pos, msg string) {
		errs = append(errs, &syntax.SyntaxError{Pos: pos, Msg: msg})
	})
	if conf != nil && conf.NoASI {
		p.SetASIEnabled(false)
	}
	f := p.Parse()
	return f, errors.Join(errs...)
}

// Compile parses, lowers and finishes one source file.
func Compile(filename string, src io.Reader, conf *Config) (*Unit, error) {
	if conf == nil {
		conf = &Config{}
	}
	t := newTracer(conf.Trace, filename)

	f, err := Parse(filename, src, conf)
	t.phase("parse")
	if err != nil {
		return nil, err
	}

	u, err := NewUnit(filename, conf)
	if err != nil {
		return nil, err
	}
	if err := u.Lower(f); err != nil {
		return u, err
	}
	t.phase("lower")

	if err := u.Finish(); err != nil {
		return u, err
	}
	t.phase("passes")
	t.stats(u)
	return u, nil
}

// tracer prints per-phase timings when enabled.
type tracer struct {
	w     io.Writer
	name  string
	start time.Time
	last  time.Time
}

func newTracer(w io.Writer, name string) *tracer {
	now := time.Now()
	return &tracer{w: w, name: name, start: now, last: now}
}

func (t *tracer) phase(name string) {
	if t.w == nil {
		return
	}
	now := time.Now()
	fmt.Fprintf(t.w, "trace: %s: %-7s %v\n", t.name, name, now.Sub(t.last))
	t.last = now
}

func (t *tracer) stats(u *Unit) {
	if t.w == nil {
		return
	}
	s := u.Stats
	fmt.Fprintf(t.w, "trace: %s: %d declarations, %d definitions, %d calls, %d slots (%d bytes), %d values, total %v\n",
		t.name, s.Rules[syntax.RuleDeclaration], s.Rules[syntax.RuleDefinition], s.Calls,
		u.Program().NumSlots(), u.FrameSize, u.Main.NumValues(), time.Since(t.start))
}
