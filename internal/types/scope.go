package types

import (
	"fmt"
	"sort"
	"strings"
)

// Scope maps names to objects. Rage has two scopes: the Universe of type
// keywords and one program scope per compilation unit.
type Scope struct {
	parent  *Scope
	elems   map[string]Object
	order   []Object // insertion order
	comment string   // debugging comment (e.g., "universe", "program main")
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:  parent,
		elems:   make(map[string]Object),
		comment: comment,
	}
}

// Parent returns the parent scope, or nil for the Universe scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Comment returns the scope's comment (for debugging).
func (s *Scope) Comment() string {
	return s.comment
}

// Lookup returns the object with the given name in this scope only.
func (s *Scope) Lookup(name string) Object {
	return s.elems[name]
}

// LookupParent searches this scope and then its parents.
// It returns the object and the scope it was found in, or (nil, nil).
func (s *Scope) LookupParent(name string) (Object, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if obj := scope.elems[name]; obj != nil {
			return obj, scope
		}
	}
	return nil, nil
}

// Insert inserts an object into the scope.
// If an object with the same name already exists, Insert leaves the
// scope unchanged and returns the existing object. Otherwise it returns nil.
func (s *Scope) Insert(obj Object) Object {
	name := obj.Name()
	if existing := s.elems[name]; existing != nil {
		return existing
	}
	s.elems[name] = obj
	s.order = append(s.order, obj)
	obj.setParent(s)
	return nil
}

// Names returns the names of all objects in the scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Objects returns the objects in insertion order.
func (s *Scope) Objects() []Object {
	return append([]Object(nil), s.order...)
}

// Len returns the number of objects in the scope.
func (s *Scope) Len() int {
	return len(s.elems)
}

// String returns a string representation of the scope for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scope %s {\n", s.comment)
	for _, obj := range s.order {
		if v, ok := obj.(*Var); ok {
			fmt.Fprintf(&buf, "  %s: %s (slot %d)\n", v.name, v.typ, v.slot)
			continue
		}
		fmt.Fprintf(&buf, "  %s: %s\n", obj.Name(), obj.Type())
	}
	buf.WriteString("}\n")
	return buf.String()
}
