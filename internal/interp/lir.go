package interp

import (
	"io"

	"github.com/tinylangs/bfjit/internal/branchtable"
	"github.com/tinylangs/bfjit/internal/lir"
	"github.com/tinylangs/bfjit/internal/tape"
	"github.com/tinylangs/bfjit/internal/trace"
)

// RunLIR walks LIR using a precomputed branch table (spec.md 4.6). rec
// may be nil, in which case tracing is skipped entirely at zero cost;
// when non-nil it is fed every op so it can report non-nested loop hit
// counts after execution (spec.md 4.6, tracing is a build-time/CLI
// opt-in and must never change observable output).
func RunLIR(prog []lir.Op, in io.Reader, out io.Writer, rec *trace.Recorder) error {
	table, err := branchtable.Build(prog, lir.Op.IsOpen, lir.Op.IsClose)
	if err != nil {
		return err
	}

	t := tape.New()
	ip := 0

	for ip < len(prog) {
		op := prog[ip]
		origIP := ip

		switch op.Kind {
		case lir.OffsetModify:
			target := t.Pos() + op.Offset
			t.AddAt(target, op.Delta)
		case lir.Move:
			t.SetPos(t.Pos() + op.Delta)
		case lir.Out:
			if _, err := out.Write([]byte{t.Read()}); err != nil {
				return wrapOut(err)
			}
		case lir.In:
			var buf [1]byte
			if _, err := io.ReadFull(in, buf[:]); err != nil {
				return wrapIn(err)
			}
			t.Set(buf[0])
		case lir.BrFor:
			if rec != nil {
				rec.OnBrFor(origIP, op)
			}
			if t.Read() == 0 {
				ip = table[ip]
				if rec != nil {
					rec.OnBranchSkip()
				}
			}
		case lir.BrBack:
			continued := t.Read() != 0
			if continued {
				ip = table[ip]
			}
			if rec != nil {
				rec.OnBrBack(origIP, op, continued)
			}
		case lir.WriteZero:
			t.Zero()
		case lir.Hop:
			for t.Read() != 0 {
				t.SetPos(t.Pos() + op.Delta)
			}
		case lir.MoveCell:
			if t.Read() != 0 {
				target := t.Pos() + op.Offset
				t.AddAt(target, int(t.Read()))
				t.Zero()
			}
		case lir.Meta:
			// inert, no-op
		}

		if rec != nil && op.Kind != lir.BrFor && op.Kind != lir.BrBack {
			rec.OnOp(op)
		}

		ip++
	}

	return nil
}
