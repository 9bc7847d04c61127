package types

import "github.com/you-not-fish/rage/internal/syntax"

// Object represents a declared entity: a variable or a type name.
type Object interface {
	Name() string    // object name
	Type() Type      // object type
	Pos() syntax.Pos // declaration position
	Parent() *Scope  // enclosing scope

	setParent(*Scope)
	aObject()
}

type object struct {
	name   string
	typ    Type
	pos    syntax.Pos
	parent *Scope
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Pos() syntax.Pos    { return o.pos }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// Var is a program variable. Each variable owns one storage slot whose
// index is fixed at declaration.
type Var struct {
	object
	slot int
	mt   MachineType // MachInvalid if the type has no machine representation
}

// NewVar creates a variable of type typ bound to slot.
func NewVar(pos syntax.Pos, name string, typ *Basic, slot int) *Var {
	mt, _ := MachineOf(typ)
	return &Var{object: object{name: name, typ: typ, pos: pos}, slot: slot, mt: mt}
}

// Basic returns the declared primitive type.
func (v *Var) Basic() *Basic {
	b, _ := v.typ.(*Basic)
	return b
}

// Slot returns the slot index assigned at declaration.
func (v *Var) Slot() int {
	return v.slot
}

// Machine returns the machine type of the variable's storage.
// It reports false if the variable has no storage.
func (v *Var) Machine() (MachineType, bool) {
	return v.mt, v.mt != MachInvalid
}

// HasStorage reports whether a slot was materialized for v.
func (v *Var) HasStorage() bool {
	return v.mt != MachInvalid
}

func (v *Var) String() string {
	return v.name + ": " + v.typ.String()
}

// TypeName represents a predeclared type keyword.
type TypeName struct {
	object
}

// NewTypeName creates a new type name object.
func NewTypeName(pos syntax.Pos, name string, typ *Basic) *TypeName {
	return &TypeName{object: object{name: name, typ: typ, pos: pos}}
}

// Basic returns the named primitive type.
func (t *TypeName) Basic() *Basic {
	b, _ := t.typ.(*Basic)
	return b
}
