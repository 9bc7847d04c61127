package types

import "github.com/you-not-fish/rage/internal/syntax"

// NoPos is the zero position value, used for predeclared objects.
var NoPos syntax.Pos

// Universe is the root scope holding the primitive type names.
var Universe *Scope

func init() {
	Universe = NewScope(nil, "universe")
	for kind := I8; kind < kindCount; kind++ {
		t := Typ[kind]
		Universe.Insert(NewTypeName(NoPos, t.name, t))
	}
}

// Lookup resolves a type keyword to its primitive type.
// It returns nil for names that are not type keywords.
func Lookup(name string) *Basic {
	tn, ok := Universe.Lookup(name).(*TypeName)
	if !ok {
		return nil
	}
	return tn.Basic()
}

// Keywords returns the type keywords in declaration order.
func Keywords() []string {
	names := make([]string, 0, int(kindCount)-1)
	for kind := I8; kind < kindCount; kind++ {
		names = append(names, Typ[kind].name)
	}
	return names
}
