package interp

import (
	"io"

	"github.com/tinylangs/bfjit/internal/branchtable"
	"github.com/tinylangs/bfjit/internal/hir"
	"github.com/tinylangs/bfjit/internal/tape"
)

// RunHIR walks HIR using a precomputed branch table (spec.md 4.6). PC
// advances by one after every op; branch ops set PC to the matched
// partner's index first, so execution resumes at the instruction
// following the partner bracket.
func RunHIR(prog []hir.Op, in io.Reader, out io.Writer) error {
	table, err := branchtable.Build(prog, hir.Op.IsOpen, hir.Op.IsClose)
	if err != nil {
		return err
	}

	t := tape.New()
	ip := 0

	for ip < len(prog) {
		op := prog[ip]
		switch op.Kind {
		case hir.Modify:
			t.Add(op.Delta)
		case hir.Move:
			t.SetPos(t.Pos() + op.Delta)
		case hir.Out:
			if _, err := out.Write([]byte{t.Read()}); err != nil {
				return wrapOut(err)
			}
		case hir.In:
			var buf [1]byte
			if _, err := io.ReadFull(in, buf[:]); err != nil {
				return wrapIn(err)
			}
			t.Set(buf[0])
		case hir.BrFor:
			if t.Read() == 0 {
				ip = table[ip]
			}
		case hir.BrBack:
			if t.Read() != 0 {
				ip = table[ip]
			}
		}
		ip++
	}

	return nil
}
