package types

import "github.com/you-not-fish/rage/internal/syntax"

// Program is the symbol table of one compilation unit: a single flat
// scope of variables with monotonically assigned slot indices.
type Program struct {
	name  string
	scope *Scope
	slots int // next slot index
}

// NewProgram creates an empty program scope below Universe.
func NewProgram(name string) *Program {
	return &Program{
		name:  name,
		scope: NewScope(Universe, "program "+name),
	}
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// Scope returns the program scope.
func (p *Program) Scope() *Scope {
	return p.scope
}

// Declare binds name to a new variable of type typ with the next slot
// index. If name is already bound, Declare returns (nil, existing) and
// no slot is consumed.
func (p *Program) Declare(pos syntax.Pos, name string, typ *Basic) (*Var, Object) {
	if existing := p.scope.Lookup(name); existing != nil {
		return nil, existing
	}
	v := NewVar(pos, name, typ, p.slots)
	p.scope.Insert(v)
	p.slots++
	return v, nil
}

// LookupVar returns the variable bound to name, or nil.
func (p *Program) LookupVar(name string) *Var {
	v, _ := p.scope.Lookup(name).(*Var)
	return v
}

// NumSlots returns the number of slots allocated so far.
func (p *Program) NumSlots() int {
	return p.slots
}

// Vars returns the declared variables in slot order.
func (p *Program) Vars() []*Var {
	vars := make([]*Var, 0, p.slots)
	for _, obj := range p.scope.Objects() {
		if v, ok := obj.(*Var); ok {
			vars = append(vars, v)
		}
	}
	return vars
}
