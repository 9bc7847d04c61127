// Package types implements the Rage type registry and the objects bound
// in the program scope. It has no dependency on the IR.
package types

// Type is the interface implemented by all types.
type Type interface {
	// String returns the source spelling of the type.
	String() string

	aType()
}

type typ struct{}

func (typ) aType() {}
