//go:build arm64
// +build arm64

package arm64

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinylangs/bfjit/internal/asm"
	"github.com/tinylangs/bfjit/internal/bfir"
	"github.com/tinylangs/bfjit/internal/hir"
	"github.com/tinylangs/bfjit/internal/interp"
	"github.com/tinylangs/bfjit/internal/lir"
)

// runJIT compiles src and executes it natively, returning its output.
func runJIT(t *testing.T, src string) []byte {
	t.Helper()
	prog := lir.Gen(hir.Lower(bfir.Parse([]byte(src))))

	var seg asm.CodeSegment
	require.NoError(t, seg.Map(65536))
	t.Cleanup(func() { _ = seg.Unmap() })

	entry, err := Compile(&seg, prog)
	require.NoError(t, err)

	out, err := Run(entry, 30000)
	require.NoError(t, err)
	return out
}

// runReference walks the same program on the reference BF tier, used as
// the ground truth each JIT test compares against (spec.md 8's
// byte-identical-output invariant, scenarios 1, 2, 4, 5, 6).
func runReference(t *testing.T, src string) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, interp.RunBF(bfir.Parse([]byte(src)), strings.NewReader(""), &out))
	return out.Bytes()
}

func TestJITHelloWorldTrivial(t *testing.T) {
	const src = "+++."
	require.Equal(t, runReference(t, src), runJIT(t, src))
}

func TestJITZeroIdiom(t *testing.T) {
	const src = "+++++[-]."
	require.Equal(t, runReference(t, src), runJIT(t, src))
}

func TestJITMoveCell(t *testing.T) {
	const src = "+++++[->+<]>."
	require.Equal(t, runReference(t, src), runJIT(t, src))
}

func TestJITNestedLoopMultiplication(t *testing.T) {
	const src = "++[>+++<-]>."
	require.Equal(t, runReference(t, src), runJIT(t, src))
}

func TestJITWraparound(t *testing.T) {
	const src = "-."
	require.Equal(t, runReference(t, src), runJIT(t, src))
}

func TestJITRejectsIn(t *testing.T) {
	prog := lir.Gen(hir.Lower(bfir.Parse([]byte(","))))
	var seg asm.CodeSegment
	require.NoError(t, seg.Map(4096))
	t.Cleanup(func() { _ = seg.Unmap() })

	_, err := Compile(&seg, prog)
	require.ErrorIs(t, err, ErrUnsupportedOp)
}
