package lir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinylangs/bfjit/internal/bfir"
	"github.com/tinylangs/bfjit/internal/hir"
	"github.com/tinylangs/bfjit/internal/lir"
)

func compile(src string) []lir.Op {
	return lir.Gen(hir.Lower(bfir.Parse([]byte(src))))
}

func TestGenWriteZeroIdiom(t *testing.T) {
	got := compile("+++++[-].")
	require.Equal(t, []lir.Op{
		{Kind: lir.OffsetModify, Delta: 5, Offset: 0},
		{Kind: lir.WriteZero},
		{Kind: lir.Out},
	}, got)
}

func TestGenHopIdiom(t *testing.T) {
	got := compile("[>]")
	require.Equal(t, []lir.Op{{Kind: lir.Hop, Delta: 1}}, got)
}

func TestGenMoveCellIdiom(t *testing.T) {
	got := compile("+++++[->+<]>.")
	require.Equal(t, []lir.Op{
		{Kind: lir.OffsetModify, Delta: 5, Offset: 0},
		{Kind: lir.MoveCell, Offset: 1},
		{Kind: lir.Move, Delta: 1},
		{Kind: lir.Out},
	}, got)
}

func TestGenRejectsNestedBrackets(t *testing.T) {
	// [ [ - ] ] : the outer loop is nested (contains a BrFor), so pass A
	// must leave the outer BrFor/BrBack pair standing and fold only the
	// inner [-] into WriteZero, rather than mis-folding the inner idiom
	// into the outer loop's idiom match.
	got := compile("[[-]]")
	require.Equal(t, []lir.Op{
		{Kind: lir.BrFor},
		{Kind: lir.WriteZero},
		{Kind: lir.BrBack},
	}, got)
}

func TestGenBalancedOffsetBlock(t *testing.T) {
	// [->>++<<] is a balanced (zero-drift) loop whose body is pure
	// OffsetModify/Move but, adding 2 rather than 1, not the MoveCell
	// idiom: pass B should fold out the intra-loop Move churn and emit
	// offset-addressed modifies plus no fixup Move (since net drift is
	// zero).
	got := compile("[->>++<<]")
	require.Equal(t, []lir.Op{
		{Kind: lir.BrFor},
		{Kind: lir.OffsetModify, Delta: -1, Offset: 0},
		{Kind: lir.OffsetModify, Delta: 2, Offset: 2},
		{Kind: lir.BrBack},
	}, got)
}

func TestGenBalancedOffsetBlockWithDrift(t *testing.T) {
	// A loop that nets a position drift must carry a fixup Move so the
	// instruction after the loop still observes the pre-optimization
	// cursor position.
	got := compile("[->+>-]")
	require.Equal(t, []lir.Op{
		{Kind: lir.BrFor},
		{Kind: lir.OffsetModify, Delta: -1, Offset: 0},
		{Kind: lir.OffsetModify, Delta: 1, Offset: 1},
		{Kind: lir.OffsetModify, Delta: -1, Offset: 2},
		{Kind: lir.Move, Delta: 2},
		{Kind: lir.BrBack},
	}, got)
}
