package codegen

import (
	"fmt"

	irtypes "github.com/llir/llvm/ir/types"

	"github.com/you-not-fish/rage/internal/types"
)

// llvmType maps a machine type to its LLVM IR type.
func llvmType(mt types.MachineType) (irtypes.Type, error) {
	switch mt {
	case types.MachI8:
		return irtypes.I8, nil
	case types.MachI16:
		return irtypes.I16, nil
	case types.MachI32:
		return irtypes.I32, nil
	case types.MachI64:
		return irtypes.I64, nil
	case types.MachF32:
		return irtypes.Float, nil
	case types.MachF64:
		return irtypes.Double, nil
	case types.MachPtr:
		return irtypes.I8Ptr, nil
	}
	return nil, fmt.Errorf("no LLVM type for %s", mt)
}

// intType maps an integer machine type to its LLVM integer type.
func intType(mt types.MachineType) (*irtypes.IntType, error) {
	t, err := llvmType(mt)
	if err != nil {
		return nil, err
	}
	it, ok := t.(*irtypes.IntType)
	if !ok {
		return nil, fmt.Errorf("%s is not an integer type", mt)
	}
	return it, nil
}

// floatType maps a float machine type to its LLVM floating-point type.
func floatType(mt types.MachineType) (*irtypes.FloatType, error) {
	t, err := llvmType(mt)
	if err != nil {
		return nil, err
	}
	ft, ok := t.(*irtypes.FloatType)
	if !ok {
		return nil, fmt.Errorf("%s is not a floating-point type", mt)
	}
	return ft, nil
}
