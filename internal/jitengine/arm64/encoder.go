//go:build arm64
// +build arm64

// Package arm64 compiles LIR (internal/lir) directly to AArch64 machine
// code. It does not reuse wazero's internal/asm/arm64 encoder: that
// encoder is built around a generic multi-instruction Node graph backed
// by the external twitchyliquid64/golang-asm assembler, which exists to
// support the full WASM instruction set and relocatable function calls.
// A tape machine only ever needs about a dozen fixed instruction shapes
// and one kind of branch, so instructions are emitted directly as
// little-endian uint32 words into a internal/asm.CodeSegment, the way
// wazero's own compiler emits straight-line sequences before handing them
// to its assembler.
//
// Register convention (spec.md 4.7, SPEC_FULL.md 4.7a):
//
//	x0  tape pointer, always pointing at the current cell
//	x1  output write cursor (next free byte of the caller's output buffer)
//	x2  scratch
//	x3  output buffer base, held for the whole run to compute the byte count
//	x4  scratch
//	x5  scratch
package arm64

import (
	"github.com/tinylangs/bfjit/internal/asm"
)

// reg is an AArch64 general purpose register number, 0-30 (x0-x30) or 31
// standing for the stack pointer / zero register depending on context.
type reg uint32

const (
	x0 reg = 0
	x1 reg = 1
	x2 reg = 2
	x3 reg = 3
	x4 reg = 4
	x5 reg = 5
	lr reg = 30
)

// Emitter accumulates AArch64 instructions into a code buffer and resolves
// forward branches once their targets are known.
type Emitter struct {
	buf     asm.Buffer
	fixups  []fixup
	labels  map[int]uint32 // label id -> byte offset from buf start
	nextLbl int
}

type fixup struct {
	instrOff int // byte offset of the branch instruction within buf
	label    int
	kind     fixupKind
}

type fixupKind int

const (
	fixupB    fixupKind = iota // unconditional B, 26-bit imm
	fixupCBZ                   // CBZ/CBNZ, 19-bit imm, opcode already written with reg+cond baked in
	fixupCBNZ
)

// NewEmitter wraps buf, a fresh buffer obtained from a CodeSegment's Next.
func NewEmitter(buf asm.Buffer) *Emitter {
	return &Emitter{buf: buf, labels: make(map[int]uint32)}
}

// Label allocates a new, as yet unbound label.
func (e *Emitter) Label() int {
	id := e.nextLbl
	e.nextLbl++
	return id
}

// Bind records that label now refers to the next instruction to be
// emitted, and patches any fixups that were waiting on it.
func (e *Emitter) Bind(label int) {
	here := uint32(e.buf.Len())
	e.labels[label] = here
	e.patch(label, here)
}

func (e *Emitter) patch(label int, target uint32) {
	kept := e.fixups[:0]
	for _, f := range e.fixups {
		if f.label != label {
			kept = append(kept, f)
			continue
		}
		e.rewrite(f, target)
	}
	e.fixups = kept
}

func (e *Emitter) rewrite(f fixup, target uint32) {
	delta := int32(target) - int32(f.instrOff)
	b := e.buf.Bytes()
	word := le32(b[f.instrOff : f.instrOff+4])
	switch f.kind {
	case fixupB:
		imm := uint32(delta/4) & 0x03FFFFFF
		word = (word &^ 0x03FFFFFF) | imm
	case fixupCBZ, fixupCBNZ:
		imm := (uint32(delta/4) & 0x7FFFF) << 5
		word = (word &^ (0x7FFFF << 5)) | imm
	}
	putLE32(b[f.instrOff:f.instrOff+4], word)
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLE32(b []byte, w uint32) {
	b[0] = byte(w)
	b[1] = byte(w >> 8)
	b[2] = byte(w >> 16)
	b[3] = byte(w >> 24)
}

// emit writes a single instruction word.
func (e *Emitter) emit(word uint32) {
	e.buf.WriteUint32(word)
}

// Bytes returns the instructions emitted so far.
func (e *Emitter) Bytes() []byte {
	return e.buf.Bytes()
}

// --- instruction encoders ---
//
// Each encoding below was derived by hand against the ARMv8 reference
// manual's fixed-width instruction fields and is exercised by
// encoder_test.go against known-good opcodes rather than against an
// external assembler, since none is linked into this module.

// addImm emits ADD <rd>, <rn>, #imm (imm in 0..4095, unsigned).
func (e *Emitter) addImm(rd, rn reg, imm uint32) {
	e.emit(0x91000000 | (imm&0xFFF)<<10 | uint32(rn)<<5 | uint32(rd))
}

// subImm emits SUB <rd>, <rn>, #imm (imm in 0..4095, unsigned).
func (e *Emitter) subImm(rd, rn reg, imm uint32) {
	e.emit(0xD1000000 | (imm&0xFFF)<<10 | uint32(rn)<<5 | uint32(rd))
}

// addReg emits ADD <rd>, <rn>, <rm> (64-bit, no shift).
func (e *Emitter) addReg(rd, rn, rm reg) {
	e.emit(0x8B000000 | uint32(rm)<<16 | uint32(rn)<<5 | uint32(rd))
}

// subReg emits SUB <rd>, <rn>, <rm> (64-bit, no shift).
func (e *Emitter) subReg(rd, rn, rm reg) {
	e.emit(0xCB000000 | uint32(rm)<<16 | uint32(rn)<<5 | uint32(rd))
}

// movz emits MOVZ <rd>, #imm16 (64-bit, shift 0).
func (e *Emitter) movz(rd reg, imm16 uint32) {
	e.emit(0xD2800000 | (imm16&0xFFFF)<<5 | uint32(rd))
}

// ldrbImm emits LDRB <wt>, [<xn>, #imm] (unsigned offset, imm in 0..4095).
func (e *Emitter) ldrbImm(wt, xn reg, imm uint32) {
	e.emit(0x39400000 | (imm&0xFFF)<<10 | uint32(xn)<<5 | uint32(wt))
}

// strbImm emits STRB <wt>, [<xn>, #imm] (unsigned offset, imm in 0..4095).
func (e *Emitter) strbImm(wt, xn reg, imm uint32) {
	e.emit(0x39000000 | (imm&0xFFF)<<10 | uint32(xn)<<5 | uint32(wt))
}

// ret emits RET {x30}.
func (e *Emitter) ret() {
	e.emit(0xD65F03C0)
}

// b emits an unconditional branch to label, deferring resolution if the
// label is not yet bound.
func (e *Emitter) b(label int) {
	instrOff := e.buf.Len()
	if target, ok := e.labels[label]; ok {
		delta := int32(target) - int32(instrOff)
		e.emit(0x14000000 | (uint32(delta/4) & 0x03FFFFFF))
		return
	}
	e.fixups = append(e.fixups, fixup{instrOff: instrOff, label: label, kind: fixupB})
	e.emit(0x14000000)
}

// cbz emits CBZ <wt>, label on the 32-bit register holding the loaded
// cell value (sf=0).
func (e *Emitter) cbz(wt reg, label int) {
	e.branchCond(wt, label, 0x34000000, fixupCBZ)
}

// cbnz emits CBNZ <wt>, label on the 32-bit register holding the loaded
// cell value (sf=0).
func (e *Emitter) cbnz(wt reg, label int) {
	e.branchCond(wt, label, 0x35000000, fixupCBNZ)
}

func (e *Emitter) branchCond(wt reg, label int, base uint32, kind fixupKind) {
	instrOff := e.buf.Len()
	word := base | uint32(wt)
	if target, ok := e.labels[label]; ok {
		delta := int32(target) - int32(instrOff)
		e.emit(word | (uint32(delta/4)&0x7FFFF)<<5)
		return
	}
	e.fixups = append(e.fixups, fixup{instrOff: instrOff, label: label, kind: kind})
	e.emit(word)
}
