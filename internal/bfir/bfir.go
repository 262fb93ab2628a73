// Package bfir defines the first intermediate representation: one variant
// per recognized source byte, with every other byte dropped.
package bfir

// Op is a BF-IR operation. One-to-one with the eight recognized source
// characters.
type Op byte

const (
	Inc Op = iota
	Dec
	MvRight
	MvLeft
	In
	Out
	BrFor
	BrBack
)

// IsOpen reports whether op opens a loop. Used by branchtable.Build.
func (op Op) IsOpen() bool { return op == BrFor }

// IsClose reports whether op closes a loop. Used by branchtable.Build.
func (op Op) IsClose() bool { return op == BrBack }

func (op Op) String() string {
	switch op {
	case Inc:
		return "+"
	case Dec:
		return "-"
	case MvRight:
		return ">"
	case MvLeft:
		return "<"
	case In:
		return ","
	case Out:
		return "."
	case BrFor:
		return "["
	case BrBack:
		return "]"
	default:
		return "?"
	}
}
