package ssa

import (
	"fmt"

	"github.com/you-not-fish/rage/internal/rtabi"
	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/types"
)

// RuntimeTable holds the module's declaration of each runtime function.
type RuntimeTable struct {
	decls map[rtabi.RuntimeFn]*FuncDecl
}

// DeclareRuntime imports every runtime function into m.
// It must be called once per module, before lowering.
func DeclareRuntime(m *Module) (*RuntimeTable, error) {
	rt := &RuntimeTable{decls: make(map[rtabi.RuntimeFn]*FuncDecl)}
	for _, sig := range rtabi.RuntimeFunctions() {
		result, ok := types.ParseMachine(sig.ReturnType)
		if !ok {
			return nil, fmt.Errorf("runtime %s: bad return type %q", sig.Name, sig.ReturnType)
		}
		params := make([]types.MachineType, len(sig.ParamTypes))
		for i, p := range sig.ParamTypes {
			mt, ok := types.ParseMachine(p)
			if !ok {
				return nil, fmt.Errorf("runtime %s: bad parameter type %q", sig.Name, p)
			}
			params[i] = mt
		}
		d, err := m.DeclareFunc(sig.Name, params, result, LinkageImport)
		if err != nil {
			return nil, fmt.Errorf("declaring runtime: %w", err)
		}
		rt.decls[sig.Fn] = d
	}
	return rt, nil
}

// Lookup returns the declaration of fn.
func (rt *RuntimeTable) Lookup(fn rtabi.RuntimeFn) (*FuncDecl, error) {
	if d := rt.decls[fn]; d != nil {
		return d, nil
	}
	return nil, errorf(syntax.Pos{}, UnknownRuntimeFn, "runtime function %s is not declared", fn)
}

// Len returns the number of declared runtime functions.
func (rt *RuntimeTable) Len() int { return len(rt.decls) }
