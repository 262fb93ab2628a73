package tape_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinylangs/bfjit/internal/tape"
)

func TestNewTapeReadsZero(t *testing.T) {
	tp := tape.New()
	require.Equal(t, byte(0), tp.Read())
	require.Equal(t, 0, tp.Pos())
}

func TestAddWrapsModulo256(t *testing.T) {
	tp := tape.New()
	tp.Add(-1)
	require.Equal(t, byte(255), tp.Read())

	tp.Add(2)
	require.Equal(t, byte(1), tp.Read())
}

func TestMoveByAndReadAtAreIndependentOfCursor(t *testing.T) {
	tp := tape.New()
	tp.SetAt(5, 42)
	require.Equal(t, byte(42), tp.ReadAt(5))
	require.Equal(t, byte(0), tp.Read())

	tp.MoveBy(5)
	require.Equal(t, byte(42), tp.Read())
}

func TestReadPastHighWaterMarkIsZero(t *testing.T) {
	tp := tape.New()
	require.Equal(t, byte(0), tp.ReadAt(1000))
}

func TestZeroClearsOnlyCurrentCell(t *testing.T) {
	tp := tape.New()
	tp.SetAt(0, 9)
	tp.SetAt(1, 9)
	tp.MoveBy(1)
	tp.Zero()
	require.Equal(t, byte(9), tp.ReadAt(0))
	require.Equal(t, byte(0), tp.ReadAt(1))
}
