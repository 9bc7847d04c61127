package ssa

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/rage/internal/types"
)

// Linkage describes the visibility of a function symbol.
type Linkage int

const (
	LinkageImport   Linkage = iota // defined outside the unit (runtime)
	LinkageExport                  // defined here, visible to the linker
	LinkageInternal                // defined here, unit-local
)

func (l Linkage) String() string {
	switch l {
	case LinkageImport:
		return "import"
	case LinkageExport:
		return "export"
	case LinkageInternal:
		return "internal"
	}
	return "linkage?"
}

// FuncDecl is a function signature declared in a module.
type FuncDecl struct {
	Name    string
	Params  []types.MachineType
	Result  types.MachineType
	Linkage Linkage
}

// String returns the declaration in "name(i8) i32" form.
func (d *FuncDecl) String() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	sb.WriteByte('(')
	for i, p := range d.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") ")
	sb.WriteString(d.Result.String())
	return sb.String()
}

func (d *FuncDecl) sameSignature(params []types.MachineType, result types.MachineType, linkage Linkage) bool {
	if d.Result != result || d.Linkage != linkage || len(d.Params) != len(params) {
		return false
	}
	for i := range params {
		if d.Params[i] != params[i] {
			return false
		}
	}
	return true
}

// Module is a compilation unit: its function declarations and bodies.
type Module struct {
	Name         string
	TargetTriple string

	// Decls lists declared functions in declaration order.
	Decls []*FuncDecl

	// Funcs lists function bodies in creation order.
	Funcs []*Func

	byName map[string]*FuncDecl
}

// NewModule creates an empty module.
func NewModule(name, triple string) *Module {
	return &Module{
		Name:         name,
		TargetTriple: triple,
		byName:       make(map[string]*FuncDecl),
	}
}

// DeclareFunc declares a function signature. Redeclaring an identical
// signature returns the existing declaration; a conflicting one is an error.
func (m *Module) DeclareFunc(name string, params []types.MachineType, result types.MachineType, linkage Linkage) (*FuncDecl, error) {
	if d := m.byName[name]; d != nil {
		if !d.sameSignature(params, result, linkage) {
			return nil, fmt.Errorf("function %s redeclared with a different signature (have %s)", name, d)
		}
		return d, nil
	}
	d := &FuncDecl{
		Name:    name,
		Params:  append([]types.MachineType(nil), params...),
		Result:  result,
		Linkage: linkage,
	}
	m.byName[name] = d
	m.Decls = append(m.Decls, d)
	return d, nil
}

// Lookup returns the declaration of name, or nil.
func (m *Module) Lookup(name string) *FuncDecl {
	return m.byName[name]
}

// NewFunc creates a body for the declared function decl.
func (m *Module) NewFunc(decl *FuncDecl) (*Func, error) {
	if decl.Linkage == LinkageImport {
		return nil, fmt.Errorf("cannot define imported function %s", decl.Name)
	}
	for _, f := range m.Funcs {
		if f.Decl == decl {
			return nil, fmt.Errorf("function %s already has a body", decl.Name)
		}
	}
	f := NewFunc(decl)
	m.Funcs = append(m.Funcs, f)
	return f, nil
}
