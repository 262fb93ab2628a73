//go:build arm64
// +build arm64

package arm64

import (
	"fmt"
	"unsafe"

	"github.com/tinylangs/bfjit/internal/asm"
	"github.com/tinylangs/bfjit/internal/branchtable"
	"github.com/tinylangs/bfjit/internal/lir"
)

// ErrUnsupportedOp is returned by Compile when the program contains an LIR
// op the JIT tier declines to compile. Per SPEC_FULL.md's resolved open
// question, In is one such op: the generated code has no portable way to
// call back into a Go io.Reader, so programs using "," must run on one of
// the tree-walking tiers instead.
var ErrUnsupportedOp = fmt.Errorf("bfjit: jit: unsupported op")

// zr is the AArch64 zero register, used as STRB's source when writing a
// literal 0 (WriteZero, MoveCell's post-add zeroing).
const zr reg = 31

// Compile lowers prog to AArch64 machine code written into seg, returning
// the entry point's address. Calling convention (matched by call_arm64.s):
//
//	x0 = tape base address (30000 zeroed bytes, caller-owned)
//	x1 = output buffer base address
//
// On return x0 holds the number of bytes written to the output buffer.
// The generated code starts at tape[0] (the reference, HIR and LIR tiers
// all start at position 0) and never grows or bounds-checks the tape: per
// SPEC_FULL.md 9's resolved open question the JIT's tape size is fixed,
// and running off either end is undefined behavior exactly as in the
// optimized tree-walking tiers.
func Compile(seg *asm.CodeSegment, prog []lir.Op) (uintptr, error) {
	for _, op := range prog {
		if op.Kind == lir.In {
			return 0, fmt.Errorf("%w: In", ErrUnsupportedOp)
		}
	}

	table, err := branchtable.Build(prog, lir.Op.IsOpen, lir.Op.IsClose)
	if err != nil {
		return 0, err
	}

	buf := seg.Next()
	e := NewEmitter(buf)

	e.addImm(x3, x1, 0) // x3 := output base, kept to compute bytes written on exit

	bodyStart := make(map[int]int) // BrFor ip -> label bound at top of its body
	afterLoop := make(map[int]int) // BrBack ip -> label bound right after it

	for ip, op := range prog {
		switch op.Kind {
		case lir.OffsetModify:
			e.addImm(x2, x0, 0) // x2 := target cell address
			e.addrInto(x2, op.Offset)
			e.ldrbImm(x5, x2, 0)
			if op.Delta >= 0 {
				e.addImm(x5, x5, uint32(op.Delta&0xFF))
			} else {
				e.subImm(x5, x5, uint32((-op.Delta)&0xFF))
			}
			e.strbImm(x5, x2, 0)

		case lir.Move:
			e.addrInto(x0, op.Delta)

		case lir.Out:
			e.ldrbImm(x5, x0, 0)
			e.strbImm(x5, x1, 0)
			e.addImm(x1, x1, 1)

		case lir.WriteZero:
			e.strbImm(zr, x0, 0)

		case lir.Hop:
			top := e.Label()
			bottom := e.Label()
			e.Bind(top)
			e.ldrbImm(x5, x0, 0)
			e.cbz(x5, bottom)
			e.addrInto(x0, op.Delta)
			e.b(top)
			e.Bind(bottom)

		case lir.MoveCell:
			skip := e.Label()
			e.ldrbImm(x4, x0, 0) // x4 := current cell value, held across addrInto's use of x5
			e.cbz(x4, skip)
			e.addImm(x2, x0, 0) // x2 := target cell address
			e.addrInto(x2, op.Offset)
			e.ldrbImm(x5, x2, 0)
			e.addReg(x5, x5, x4)
			e.strbImm(x5, x2, 0)
			e.strbImm(zr, x0, 0)
			e.Bind(skip)

		case lir.BrFor:
			exit := e.Label()
			start := e.Label()
			afterLoop[table[ip]] = exit
			bodyStart[ip] = start
			e.ldrbImm(x5, x0, 0)
			e.cbz(x5, exit)
			e.Bind(start)

		case lir.BrBack:
			start := bodyStart[table[ip]]
			exit := afterLoop[ip]
			e.ldrbImm(x5, x0, 0)
			e.cbnz(x5, start)
			e.Bind(exit)

		case lir.Meta:
			// inert

		default:
			return 0, fmt.Errorf("%w: kind %v", ErrUnsupportedOp, op.Kind)
		}
	}

	e.subReg(x0, x1, x3) // bytes written = final cursor - base
	e.ret()

	// Emitting may have grown the segment into a new mapping, so the entry
	// address is read from the buffer only once all code is written.
	entry := uintptr(unsafe.Pointer(&buf.Bytes()[0]))
	return entry, nil
}

// addrInto emits dst-targeted pointer arithmetic: dst := dst + delta,
// materializing |delta| through MOVZ since LIR offsets (bounded by the
// fixed 30000-cell tape) always fit in a 16-bit immediate.
func (e *Emitter) addrInto(dst reg, delta int) {
	if delta == 0 {
		return
	}
	mag := delta
	if mag < 0 {
		mag = -mag
	}
	if mag > 0xFFFF {
		panic("bfjit: jit: offset exceeds 16-bit immediate")
	}
	e.movz(x5, uint32(mag))
	if delta >= 0 {
		e.addReg(dst, dst, x5)
	} else {
		e.subReg(dst, dst, x5)
	}
}
