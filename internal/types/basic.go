package types

// BasicKind describes the kind of a primitive type.
type BasicKind int

const (
	Invalid BasicKind = iota

	I8
	I16
	I32
	I64
	F32
	F64
	Bool
	Char
	Str
	Ptr
	Null

	kindCount
)

// BasicInfo describes properties of a primitive type.
type BasicInfo int

const (
	IsInteger BasicInfo = 1 << iota
	IsFloat
	IsBoolean
	IsChar
	IsReference // str, ptr, null: no machine representation

	IsNumeric = IsInteger | IsFloat
)

// Basic represents a primitive type.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the type keyword.
func (b *Basic) Name() string {
	return b.name
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the primitive types, indexed by BasicKind.
// Typ[Invalid] is nil.
var Typ = [kindCount]*Basic{
	Invalid: nil,
	I8:      {kind: I8, info: IsInteger, name: "i8"},
	I16:     {kind: I16, info: IsInteger, name: "i16"},
	I32:     {kind: I32, info: IsInteger, name: "i32"},
	I64:     {kind: I64, info: IsInteger, name: "i64"},
	F32:     {kind: F32, info: IsFloat, name: "f32"},
	F64:     {kind: F64, info: IsFloat, name: "f64"},
	Bool:    {kind: Bool, info: IsBoolean, name: "bool"},
	Char:    {kind: Char, info: IsChar, name: "char"},
	Str:     {kind: Str, info: IsReference, name: "str"},
	Ptr:     {kind: Ptr, info: IsReference, name: "ptr"},
	Null:    {kind: Null, info: IsReference, name: "null"},
}
