package lir

import "github.com/tinylangs/bfjit/internal/hir"

// Gen lowers HIR into LIR in the two passes described by spec.md 4.3:
// pass A copies HIR through (recognizing simple-loop idioms against the
// HIR window at each BrFor), pass B re-examines the pass-A output for
// "balanced offset block" loops and rewrites their bodies to eliminate
// intra-loop position churn.
func Gen(program []hir.Op) []Op {
	return passB(passA(program))
}

// passA implements HIR → LIR: copy-through for Modify (as
// OffsetModify(δ, 0)), Move, In, Out, BrBack; simple-loop idiom
// recognition on BrFor.
func passA(program []hir.Op) []Op {
	out := make([]Op, 0, len(program))

	i := 0
	for i < len(program) {
		op := program[i]
		switch op.Kind {
		case hir.Modify:
			out = append(out, Op{Kind: OffsetModify, Delta: op.Delta, Offset: 0})
			i++
		case hir.Move:
			out = append(out, Op{Kind: Move, Delta: op.Delta})
			i++
		case hir.In:
			out = append(out, Op{Kind: In})
			i++
		case hir.Out:
			out = append(out, Op{Kind: Out})
			i++
		case hir.BrBack:
			out = append(out, Op{Kind: BrBack})
			i++
		case hir.BrFor:
			if opt, consumed, ok := trySimpleHIRLoop(program[i:]); ok {
				out = append(out, opt)
				i += consumed
			} else {
				out = append(out, Op{Kind: BrFor})
				i++
			}
		}
	}

	return out
}

// trySimpleHIRLoop attempts idiom recognition on the HIR window starting
// at a BrFor (window[0]). A simple loop contains no nested brackets.
// Returns the rewritten op, the number of HIR ops (BrFor through matching
// BrBack, inclusive) it replaces, and whether a rewrite applied.
func trySimpleHIRLoop(window []hir.Op) (Op, int, bool) {
	end := -1
	depthSeen := false
	for j := 1; j < len(window); j++ {
		if window[j].Kind == hir.BrFor || window[j].Kind == hir.BrBack {
			end = j
			depthSeen = true
			break
		}
	}
	if !depthSeen {
		return Op{}, 0, false
	}
	if window[end].Kind == hir.BrFor {
		// Nested loop: not simple, leave the BrFor in place for the
		// general interpreter loop to handle.
		return Op{}, 0, false
	}

	body := window[1:end]
	consumed := end + 1

	switch {
	case len(body) == 1 && body[0].Kind == hir.Modify:
		return Op{Kind: WriteZero}, consumed, true
	case len(body) == 1 && body[0].Kind == hir.Move:
		return Op{Kind: Hop, Delta: body[0].Delta}, consumed, true
	case len(body) == 4 &&
		body[0].Kind == hir.Modify && body[0].Delta == -1 &&
		body[1].Kind == hir.Move &&
		body[2].Kind == hir.Modify && body[2].Delta == 1 &&
		body[3].Kind == hir.Move && body[3].Delta == -body[1].Delta &&
		body[1].Delta != 0:
		return Op{Kind: MoveCell, Offset: body[1].Delta}, consumed, true
	default:
		return Op{}, 0, false
	}
}

// passB re-examines each BrFor in pass-A's output and, when the loop is
// simple and its body consists entirely of OffsetModify(_, 0) and Move,
// rewrites it into a "balanced offset block": the body's net position
// drift is simulated and every OffsetModify is rewritten to the absolute
// offset it touches at that point in the original body, in visitation
// order, followed by a fixup Move carrying the drift correction whenever
// the drift is nonzero.
func passB(program []Op) []Op {
	out := make([]Op, 0, len(program))

	i := 0
	for i < len(program) {
		if program[i].Kind == BrFor {
			if rewritten, consumed, ok := trySimpleLIRLoop(program[i:]); ok {
				out = append(out, rewritten...)
				i += consumed
				continue
			}
		}
		out = append(out, program[i])
		i++
	}

	return out
}

func trySimpleLIRLoop(window []Op) ([]Op, int, bool) {
	end := -1
	found := false
	for j := 1; j < len(window); j++ {
		if window[j].Kind == BrFor || window[j].Kind == BrBack {
			end = j
			found = true
			break
		}
	}
	if !found || window[end].Kind == BrFor {
		return nil, 0, false
	}

	body := window[1:end]
	for _, op := range body {
		if !op.IsPureCellOrMove() {
			return nil, 0, false
		}
	}

	var set []Op
	offset := 0
	for _, op := range body {
		switch op.Kind {
		case Move:
			offset += op.Delta
		case OffsetModify:
			set = append(set, Op{Kind: OffsetModify, Delta: op.Delta, Offset: offset})
		}
	}

	rewritten := make([]Op, 0, len(set)+3)
	rewritten = append(rewritten, Op{Kind: BrFor})
	rewritten = append(rewritten, set...)
	if offset != 0 {
		rewritten = append(rewritten, Op{Kind: Move, Delta: offset})
	}
	rewritten = append(rewritten, Op{Kind: BrBack})

	return rewritten, end + 1, true
}
