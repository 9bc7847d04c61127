package types

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	xb, ok1 := x.(*Basic)
	yb, ok2 := y.(*Basic)
	return ok1 && ok2 && xb != nil && yb != nil && xb.kind == yb.kind
}

// IsInteger reports whether b is i8, i16, i32 or i64.
func (b *Basic) IsInteger() bool { return b != nil && b.info&IsInteger != 0 }

// IsFloat reports whether b is f32 or f64.
func (b *Basic) IsFloat() bool { return b != nil && b.info&IsFloat != 0 }

// IsNumeric reports whether b is an integer or float type.
func (b *Basic) IsNumeric() bool { return b != nil && b.info&IsNumeric != 0 }

// IsBoolean reports whether b is bool.
func (b *Basic) IsBoolean() bool { return b != nil && b.info&IsBoolean != 0 }

// IsReference reports whether b is str, ptr or null.
func (b *Basic) IsReference() bool { return b != nil && b.info&IsReference != 0 }

// Conversion is the machine-level operation turning a value of one
// machine type into another.
type Conversion int

const (
	ConvNone    Conversion = iota // same type
	ConvSExt                      // widen an integer, sign-extending
	ConvTrunc                     // narrow an integer
	ConvFPExt                     // f32 -> f64
	ConvFPTrunc                   // f64 -> f32
	ConvInvalid                   // no implicit conversion (int <-> float, ptr)
)

var convNames = [...]string{
	ConvNone:    "none",
	ConvSExt:    "sext",
	ConvTrunc:   "trunc",
	ConvFPExt:   "fpext",
	ConvFPTrunc: "fptrunc",
	ConvInvalid: "invalid",
}

func (c Conversion) String() string {
	if c >= 0 && int(c) < len(convNames) {
		return convNames[c]
	}
	return "invalid"
}

// ConversionOf returns the implicit conversion from one machine type to
// another. Integers convert among themselves, as do floats; mixing the
// two is not allowed.
func ConversionOf(from, to MachineType) Conversion {
	switch {
	case from == to && (from.IsInt() || from.IsFloat()):
		return ConvNone
	case from.IsInt() && to.IsInt():
		if from.Bits() < to.Bits() {
			return ConvSExt
		}
		return ConvTrunc
	case from.IsFloat() && to.IsFloat():
		if from.Bits() < to.Bits() {
			return ConvFPExt
		}
		return ConvFPTrunc
	}
	return ConvInvalid
}
