package hir

import "github.com/tinylangs/bfjit/internal/bfir"

// Lower scans BF-IR left to right and collapses maximal contiguous runs of
// Inc/Dec into a single Modify(sum), and runs of MvRight/MvLeft into a
// single Move(sum). Every other op passes through unchanged. The output
// never contains two adjacent Modify or two adjacent Move ops, and never
// reorders across an I/O op or a bracket.
func Lower(prog []bfir.Op) []Op {
	out := make([]Op, 0, len(prog))

	i := 0
	for i < len(prog) {
		switch prog[i] {
		case bfir.Inc, bfir.Dec:
			delta := 0
			for i < len(prog) && (prog[i] == bfir.Inc || prog[i] == bfir.Dec) {
				if prog[i] == bfir.Inc {
					delta++
				} else {
					delta--
				}
				i++
			}
			out = append(out, Op{Kind: Modify, Delta: delta})

		case bfir.MvRight, bfir.MvLeft:
			delta := 0
			for i < len(prog) && (prog[i] == bfir.MvRight || prog[i] == bfir.MvLeft) {
				if prog[i] == bfir.MvRight {
					delta++
				} else {
					delta--
				}
				i++
			}
			out = append(out, Op{Kind: Move, Delta: delta})

		case bfir.In:
			out = append(out, Op{Kind: In})
			i++
		case bfir.Out:
			out = append(out, Op{Kind: Out})
			i++
		case bfir.BrFor:
			out = append(out, Op{Kind: BrFor})
			i++
		case bfir.BrBack:
			out = append(out, Op{Kind: BrBack})
			i++
		}
	}

	return out
}
