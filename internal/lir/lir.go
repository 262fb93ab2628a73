// Package lir implements the low-level IR: loop idioms recognized and
// rewritten into bulk operations, including the generalized
// "offset-modify" form produced by the balanced-offset-block transform
// (spec.md 4.3).
package lir

import "fmt"

// Kind tags an LIR operation's variant.
type Kind byte

const (
	OffsetModify Kind = iota
	Move
	WriteZero
	Hop
	MoveCell
	In
	Out
	BrFor
	BrBack
	Meta
)

// Op is a single LIR instruction. Field meaning depends on Kind:
//
//	OffsetModify: Delta is the signed modify amount, Offset the cell offset.
//	Move:         Delta is the position delta.
//	Hop:          Delta is the stride.
//	MoveCell:     Offset is the destination cell offset.
//	Meta:         Tag carries an inert trace annotation.
type Op struct {
	Kind   Kind
	Delta  int
	Offset int
	Tag    string
}

// IsOpen reports whether op opens a loop. Used by branchtable.Build.
func (op Op) IsOpen() bool { return op.Kind == BrFor }

// IsClose reports whether op closes a loop. Used by branchtable.Build.
func (op Op) IsClose() bool { return op.Kind == BrBack }

// IsPureCellOrMove reports whether op is free of any effect (such as I/O)
// whose iteration count the balanced-offset transform must not disturb.
// Only OffsetModify(_, 0) and Move are side-effect-free in this sense
// within a loop body.
func (op Op) IsPureCellOrMove() bool {
	return op.Kind == Move || (op.Kind == OffsetModify && op.Offset == 0)
}

func (op Op) String() string {
	switch op.Kind {
	case OffsetModify:
		return fmt.Sprintf("OffsetModify(%+d, offset: %+d)", op.Delta, op.Offset)
	case Move:
		return fmt.Sprintf("Move(%+d)", op.Delta)
	case WriteZero:
		return "WriteZero"
	case Hop:
		return fmt.Sprintf("Hop(%+d)", op.Delta)
	case MoveCell:
		return fmt.Sprintf("MoveCell(%+d)", op.Offset)
	case In:
		return "In"
	case Out:
		return "Out"
	case BrFor:
		return "["
	case BrBack:
		return "]"
	case Meta:
		return fmt.Sprintf("<%s>", op.Tag)
	default:
		return "?"
	}
}
