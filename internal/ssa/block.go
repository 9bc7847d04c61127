package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota
	BlockPlain             // open; still accepting values
	BlockReturn            // function return; Controls[0] = return value
)

var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockPlain:   "plain",
	BlockReturn:  "ret",
}

// String returns the string representation of the block kind.
func (k BlockKind) String() string {
	if k >= 0 && int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is a basic block. Rage programs are straight-line, so a function
// has exactly one block that is sealed with a return.
type Block struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	Kind BlockKind

	// Controls holds the terminator's operand values.
	// For BlockReturn: Controls[0] = return value.
	Controls []*Value

	// Values is the ordered list of values computed in this block.
	Values []*Value

	Func *Func
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// SetControl sets the return control value.
func (b *Block) SetControl(v *Value) {
	for _, old := range b.Controls {
		if old != nil {
			old.Uses--
		}
	}
	b.Controls = []*Value{v}
	if v != nil {
		v.Uses++
	}
}

// NumValues returns the number of values in this block.
func (b *Block) NumValues() int { return len(b.Values) }

// Sealed reports whether the block has been terminated.
func (b *Block) Sealed() bool { return b.Kind != BlockPlain }
