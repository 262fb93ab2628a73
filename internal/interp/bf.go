package interp

import (
	"fmt"
	"io"

	"github.com/tinylangs/bfjit/internal/bfir"
	"github.com/tinylangs/bfjit/internal/branchtable"
	"github.com/tinylangs/bfjit/internal/tape"
)

// ErrUnmatchedBracket re-exports branchtable.ErrUnmatchedBracket so
// callers of interp don't need to import branchtable directly just to
// errors.Is against it.
var ErrUnmatchedBracket = branchtable.ErrUnmatchedBracket

// RunBF walks BF-IR directly with a program counter, scanning forward or
// backward for a bracket's partner on demand rather than using a
// precomputed branch table. This is the reference tier (spec.md 4.5): it
// exists for correctness comparison against the optimized tiers, and it
// is the only tier that detects MvLeft-at-origin as a fatal error.
func RunBF(prog []bfir.Op, in io.Reader, out io.Writer) error {
	t := tape.New()
	ip := 0

	for ip < len(prog) {
		switch prog[ip] {
		case bfir.MvRight:
			t.MoveBy(1)
		case bfir.MvLeft:
			if t.Pos() == 0 {
				return fmt.Errorf("%w: at instruction %d", ErrPositionUnderflow, ip)
			}
			t.MoveBy(-1)
		case bfir.Inc:
			t.Add(1)
		case bfir.Dec:
			t.Add(-1)
		case bfir.Out:
			if _, err := out.Write([]byte{t.Read()}); err != nil {
				return wrapOut(err)
			}
		case bfir.In:
			var buf [1]byte
			if _, err := io.ReadFull(in, buf[:]); err != nil {
				return wrapIn(err)
			}
			t.Set(buf[0])
		case bfir.BrFor:
			if t.Read() == 0 {
				pos, err := scanForward(prog, ip)
				if err != nil {
					return err
				}
				ip = pos
			}
		case bfir.BrBack:
			if t.Read() != 0 {
				pos, err := scanBackward(prog, ip)
				if err != nil {
					return err
				}
				ip = pos
			}
		}
		ip++
	}

	return nil
}

func scanForward(prog []bfir.Op, from int) (int, error) {
	depth := 0
	for pos := from + 1; pos < len(prog); pos++ {
		switch prog[pos] {
		case bfir.BrFor:
			depth++
		case bfir.BrBack:
			if depth > 0 {
				depth--
			} else {
				return pos, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unmatched '[' at instruction %d", ErrUnmatchedBracket, from)
}

func scanBackward(prog []bfir.Op, from int) (int, error) {
	depth := 0
	for pos := from - 1; pos >= 0; pos-- {
		switch prog[pos] {
		case bfir.BrBack:
			depth++
		case bfir.BrFor:
			if depth > 0 {
				depth--
			} else {
				return pos, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unmatched ']' at instruction %d", ErrUnmatchedBracket, from)
}
