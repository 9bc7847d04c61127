package types

import "github.com/you-not-fish/rage/internal/rtabi"

// Sizes provides size and alignment of machine types.
// It uses the rtabi constants to stay consistent with the C runtime.
type Sizes struct{}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{}

// Sizeof returns the size of m in bytes, or 0 if m is invalid.
func (s *Sizes) Sizeof(m MachineType) int64 {
	switch m {
	case MachI8:
		return rtabi.SizeI8
	case MachI16:
		return rtabi.SizeI16
	case MachI32:
		return rtabi.SizeI32
	case MachI64:
		return rtabi.SizeI64
	case MachF32:
		return rtabi.SizeF32
	case MachF64:
		return rtabi.SizeF64
	case MachPtr:
		return rtabi.SizePtr
	}
	return 0
}

// Alignof returns the alignment of m in bytes; invalid types align to 1.
func (s *Sizes) Alignof(m MachineType) int64 {
	switch m {
	case MachI8:
		return rtabi.AlignI8
	case MachI16:
		return rtabi.AlignI16
	case MachI32:
		return rtabi.AlignI32
	case MachI64:
		return rtabi.AlignI64
	case MachF32:
		return rtabi.AlignF32
	case MachF64:
		return rtabi.AlignF64
	case MachPtr:
		return rtabi.AlignPtr
	}
	return 1
}

// FrameSize returns the bytes needed to lay out slots of the given
// machine types in order, each at its natural alignment.
func (s *Sizes) FrameSize(slots []MachineType) int64 {
	var offset, maxAlign int64 = 0, 1
	for _, m := range slots {
		a := s.Alignof(m)
		offset = align(offset, a) + s.Sizeof(m)
		if a > maxAlign {
			maxAlign = a
		}
	}
	return align(offset, maxAlign)
}

// align returns x rounded up to a multiple of a.
func align(x, a int64) int64 {
	return (x + a - 1) &^ (a - 1)
}
