//go:build arm64
// +build arm64

package jitengine

import (
	"io"

	"github.com/tinylangs/bfjit/internal/asm"
	"github.com/tinylangs/bfjit/internal/jitengine/arm64"
	"github.com/tinylangs/bfjit/internal/lir"
)

// tapeSize is the JIT tier's fixed tape length (SPEC_FULL.md 9, resolved
// open question: unlike the tree-walking tiers' lazily-grown tape, the
// compiled code addresses a fixed-size buffer and never resizes it).
const tapeSize = 30000

// Run compiles prog to native code and executes it once, writing its
// output to out. The generated code cannot service In (spec.md's "," op):
// Compile returns arm64.ErrUnsupportedOp for any program that uses it, and
// callers should fall back to RunLIR for those programs.
func Run(prog []lir.Op, out io.Writer) error {
	var seg asm.CodeSegment
	if err := seg.Map(65536); err != nil {
		return err
	}
	defer seg.Unmap()

	entry, err := arm64.Compile(&seg, prog)
	if err != nil {
		return err
	}

	produced, err := arm64.Run(entry, tapeSize)
	if err != nil {
		return err
	}
	_, err = out.Write(produced)
	return err
}
