package ssa

import (
	"fmt"

	"github.com/you-not-fish/rage/internal/rtabi"
	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/types"
)

// Builder lowers Rage statements, in order, into the entry block of a
// single function. A Builder belongs to one compilation unit.
type Builder struct {
	fn   *Func
	b    *Block // current block
	rt   *RuntimeTable
	prog *types.Program

	vars map[*types.Var]*Value // variable → alloca
}

// NewBuilder returns a builder appending to fn's entry block. Variables
// are declared in prog; calls resolve through rt.
func NewBuilder(fn *Func, rt *RuntimeTable, prog *types.Program) *Builder {
	return &Builder{
		fn:   fn,
		b:    fn.Entry,
		rt:   rt,
		prog: prog,
		vars: make(map[*types.Var]*Value),
	}
}

// Func returns the function under construction.
func (b *Builder) Func() *Func { return b.fn }

// Program returns the symbol table.
func (b *Builder) Program() *types.Program { return b.prog }

// NewMain declares the exported entry function in m and returns a
// builder for its body, with variables declared in prog.
func NewMain(m *Module, rt *RuntimeTable, prog *types.Program) (*Builder, error) {
	result, ok := types.ParseMachine(rtabi.EntryResult)
	if !ok {
		return nil, fmt.Errorf("bad entry result type %q", rtabi.EntryResult)
	}
	decl, err := m.DeclareFunc(rtabi.EntryName, nil, result, LinkageExport)
	if err != nil {
		return nil, err
	}
	fn, err := m.NewFunc(decl)
	if err != nil {
		return nil, err
	}
	return NewBuilder(fn, rt, prog), nil
}

// BuildMain lowers every statement of file into a new entry function of
// m and seals it with a zero return.
func BuildMain(m *Module, rt *RuntimeTable, file *syntax.File) (*Func, error) {
	b, err := NewMain(m, rt, types.NewProgram(file.Name))
	if err != nil {
		return nil, err
	}
	if err := b.File(file); err != nil {
		return b.fn, err
	}
	if err := b.Finish(); err != nil {
		return b.fn, err
	}
	return b.fn, nil
}

// File lowers the statements of f in source order, stopping at the first
// error. Values emitted before the failure are kept.
func (b *Builder) File(f *syntax.File) error {
	for _, s := range f.Stmts {
		if err := b.Stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// Stmt lowers a single statement.
func (b *Builder) Stmt(s syntax.Stmt) error {
	if b.b.Sealed() {
		return errorf(s.Pos(), Unsupported, "statement after end of %s", b.fn.Name)
	}
	switch s.Rule() {
	case syntax.RuleDeclaration:
		if d, ok := s.(*syntax.VarDecl); ok {
			return b.declaration(d)
		}
	case syntax.RuleDefinition:
		if d, ok := s.(*syntax.DefineStmt); ok {
			return b.definition(d)
		}
	case syntax.RuleCall:
		if c, ok := s.(*syntax.CallStmt); ok {
			_, err := b.call(c.Call)
			return err
		}
	case syntax.RuleEOI:
		return nil
	}
	return errorf(s.Pos(), Unsupported, "cannot lower %s statement %T", s.Rule(), s)
}

// Finish seals the function with a zero return of its result type.
func (b *Builder) Finish() error {
	if b.b.Sealed() {
		return fmt.Errorf("%s already sealed", b.fn.Name)
	}
	res := b.fn.Decl.Result
	if !res.IsInt() {
		return fmt.Errorf("%s: cannot return zero of type %s", b.fn.Name, res)
	}
	zero := b.fn.NewValue(b.b, OpConst, res)
	b.fn.Seal(zero)
	return nil
}

// declaration lowers "var x: T": resolve T, bind x to the next slot and
// emit the slot's storage.
func (b *Builder) declaration(d *syntax.VarDecl) error {
	typ := types.Lookup(d.Type.Value)
	if typ == nil {
		return errorf(d.Type.Pos(), UnknownType, "unknown type %s", d.Type.Value)
	}
	v, prev := b.prog.Declare(d.Name.Pos(), d.Name.Value, typ)
	if v == nil {
		return errorf(d.Name.Pos(), DuplicateDeclaration, "%s redeclared\n\tprevious declaration at %s", d.Name.Value, prev.Pos())
	}
	if typ.IsReference() {
		// Bound with a slot index but never materialized.
		return nil
	}
	alloca := b.fn.NewValuePos(b.b, OpAlloca, types.MachPtr, d.Pos())
	alloca.AuxInt = int64(v.Slot())
	alloca.Aux = v
	b.vars[v] = alloca
	return nil
}

// definition lowers "x = e": evaluate e at x's machine type and store it
// into x's slot.
func (b *Builder) definition(d *syntax.DefineStmt) error {
	v, err := b.lookup(d.Name)
	if err != nil {
		return err
	}
	alloca := b.vars[v]
	val, err := b.exprAt(d.Value, dest{mt: alloca.ElemType(), typ: v.Basic()})
	if err != nil {
		return err
	}
	b.fn.NewValuePos(b.b, OpStore, types.MachInvalid, d.Pos(), alloca, val)
	return nil
}

// lookup resolves a variable reference that must have storage.
func (b *Builder) lookup(n *syntax.Name) (*types.Var, error) {
	v := b.prog.LookupVar(n.Value)
	if v == nil {
		return nil, errorf(n.Pos(), UndeclaredVariable, "undeclared variable %s", n.Value)
	}
	if b.vars[v] == nil {
		return nil, errorf(n.Pos(), Unsupported, "variable %s of type %s has no machine representation", n.Value, v.Basic())
	}
	return v, nil
}
