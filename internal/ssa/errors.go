package ssa

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/rage/internal/syntax"
)

// ErrorKind classifies lowering failures.
type ErrorKind int

const (
	UnknownType ErrorKind = iota
	DuplicateDeclaration
	UndeclaredVariable
	LiteralParseError
	Unsupported
	UnknownFunction
	UnknownRuntimeFn
	TypeMismatch
)

var errorKindNames = [...]string{
	UnknownType:          "UnknownType",
	DuplicateDeclaration: "DuplicateDeclaration",
	UndeclaredVariable:   "UndeclaredVariable",
	LiteralParseError:    "LiteralParseError",
	Unsupported:          "Unsupported",
	UnknownFunction:      "UnknownFunction",
	UnknownRuntimeFn:     "UnknownRuntimeFn",
	TypeMismatch:         "TypeMismatch",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// LowerError is a failure to lower a statement.
type LowerError struct {
	Pos  syntax.Pos
	Kind ErrorKind
	Msg  string
}

func (e *LowerError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: error[%s]: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("error[%s]: %s", e.Kind, e.Msg)
}

func errorf(pos syntax.Pos, kind ErrorKind, format string, args ...interface{}) *LowerError {
	return &LowerError{Pos: pos, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is, or wraps, a LowerError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var le *LowerError
	return errors.As(err, &le) && le.Kind == kind
}
