package ssa

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/you-not-fish/rage/internal/rtabi"
	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/types"
)

// literal is the value of a source literal before it has a machine type.
type literal struct {
	isFloat bool
	i       int64
	f       float64
}

// evalLiteral parses the text of lit.
func evalLiteral(lit *syntax.BasicLit) (literal, error) {
	switch lit.Kind {
	case syntax.IntLit:
		i, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return literal{}, errorf(lit.Pos(), LiteralParseError, "invalid integer literal %s", lit.Value)
		}
		return literal{i: i}, nil
	case syntax.FloatLit:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return literal{}, errorf(lit.Pos(), LiteralParseError, "invalid float literal %s", lit.Value)
		}
		return literal{isFloat: true, f: f}, nil
	case syntax.CharLit:
		r, size := utf8.DecodeRuneInString(lit.Value)
		if (r == utf8.RuneError && size <= 1) || size != len(lit.Value) {
			return literal{}, errorf(lit.Pos(), LiteralParseError, "character literal %s must hold exactly one character", strconv.Quote(lit.Value))
		}
		return literal{i: int64(r)}, nil
	case syntax.BoolLit:
		switch lit.Value {
		case "true":
			return literal{i: 1}, nil
		case "false":
			return literal{i: 0}, nil
		}
		return literal{}, errorf(lit.Pos(), LiteralParseError, "invalid bool literal %s", lit.Value)
	case syntax.StringLit, syntax.NullLit:
		return literal{}, errorf(lit.Pos(), Unsupported, "%s literals cannot be lowered", lit.Kind)
	}
	return literal{}, errorf(lit.Pos(), Unsupported, "unknown literal kind %s", lit.Kind)
}

// dest is the type an expression is evaluated at.
type dest struct {
	mt  types.MachineType
	typ *types.Basic // declared type of the target variable; nil for call parameters
}

// String returns the declared type if there is one, else the machine type.
func (d dest) String() string {
	if d.typ != nil {
		return d.typ.Name()
	}
	return d.mt.String()
}

// materialize emits lit as a constant of the destination's machine type.
// The destination decides the width, not the literal.
func (b *Builder) materialize(pos syntax.Pos, lit literal, d dest) (*Value, error) {
	mt := d.mt
	switch {
	case mt.IsInt():
		if lit.isFloat {
			return nil, errorf(pos, TypeMismatch, "cannot use float literal as %s", d)
		}
		if d.typ.IsBoolean() && lit.i != 0 && lit.i != 1 {
			return nil, errorf(pos, TypeMismatch, "cannot use %d as bool", lit.i)
		}
		n, ok := fitInt(lit.i, mt.Bits())
		if !ok {
			return nil, errorf(pos, LiteralParseError, "literal %d overflows %s", lit.i, d)
		}
		v := b.fn.NewValuePos(b.b, OpConst, mt, pos)
		v.AuxInt = n
		return v, nil

	case mt.IsFloat():
		f := lit.f
		if !lit.isFloat {
			f = float64(lit.i)
		}
		if mt == types.MachF32 {
			if math.Abs(f) > math.MaxFloat32 {
				return nil, errorf(pos, LiteralParseError, "literal %g overflows %s", f, d)
			}
			f = float64(float32(f))
		}
		v := b.fn.NewValuePos(b.b, OpConstFloat, mt, pos)
		v.AuxFloat = f
		return v, nil
	}
	return nil, errorf(pos, Unsupported, "cannot materialize a constant of type %s", d)
}

// fitInt reports whether x fits in an integer of the given width, read
// either as signed or unsigned, and returns it sign-extended from that width.
func fitInt(x int64, bits int) (int64, bool) {
	if bits >= 64 {
		return x, true
	}
	lo := -int64(1) << (bits - 1)
	hi := int64(1)<<bits - 1
	if x < lo || x > hi {
		return 0, false
	}
	shift := uint(64 - bits)
	return x << shift >> shift, true
}

// evalIdentifier loads the current value of the variable n names.
func (b *Builder) evalIdentifier(n *syntax.Name) (*Value, error) {
	v, err := b.lookup(n)
	if err != nil {
		return nil, err
	}
	alloca := b.vars[v]
	return b.fn.NewValuePos(b.b, OpLoad, alloca.ElemType(), n.Pos(), alloca), nil
}

// exprAt evaluates e as a value of the destination type.
func (b *Builder) exprAt(e syntax.Expr, want dest) (*Value, error) {
	switch e := e.(type) {
	case *syntax.BasicLit:
		lit, err := evalLiteral(e)
		if err != nil {
			return nil, err
		}
		return b.materialize(e.Pos(), lit, want)
	case *syntax.Name:
		v, err := b.evalIdentifier(e)
		if err != nil {
			return nil, err
		}
		return b.coerce(e.Pos(), v, e.Value+" ("+b.prog.LookupVar(e.Value).Basic().Name()+")", want)
	case *syntax.CallExpr:
		v, err := b.call(e)
		if err != nil {
			return nil, err
		}
		return b.coerce(e.Pos(), v, e.Fun.Value+" result ("+v.Type.String()+")", want)
	}
	return nil, errorf(e.Pos(), Unsupported, "cannot evaluate %T", e)
}

// coerce converts v, described by what, to the destination's machine type.
func (b *Builder) coerce(pos syntax.Pos, v *Value, what string, want dest) (*Value, error) {
	var op Op
	switch types.ConversionOf(v.Type, want.mt) {
	case types.ConvNone:
		return v, nil
	case types.ConvSExt:
		op = OpSExt
	case types.ConvTrunc:
		op = OpTrunc
	case types.ConvFPExt:
		op = OpFPExt
	case types.ConvFPTrunc:
		op = OpFPTrunc
	default:
		return nil, errorf(pos, TypeMismatch, "cannot use %s as %s", what, want)
	}
	return b.fn.NewValuePos(b.b, op, want.mt, pos, v), nil
}

// call lowers a runtime call and returns its result.
func (b *Builder) call(c *syntax.CallExpr) (*Value, error) {
	fn, ok := rtabi.LookupRuntime(c.Fun.Value)
	if !ok {
		return nil, errorf(c.Fun.Pos(), UnknownFunction, "unknown function %s", c.Fun.Value)
	}
	decl, err := b.rt.Lookup(fn)
	if err != nil {
		if le, ok := err.(*LowerError); ok {
			le.Pos = c.Fun.Pos()
		}
		return nil, err
	}
	if len(c.Args) != len(decl.Params) {
		return nil, errorf(c.Pos(), Unsupported, "%s expects %d argument(s), got %d", c.Fun.Value, len(decl.Params), len(c.Args))
	}
	args := make([]*Value, len(c.Args))
	for i, a := range c.Args {
		v, err := b.exprAt(a, dest{mt: decl.Params[i]})
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v := b.fn.NewValuePos(b.b, OpStaticCall, decl.Result, c.Pos(), args...)
	v.Aux = decl
	return v, nil
}
