package branchtable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinylangs/bfjit/internal/bfir"
	"github.com/tinylangs/bfjit/internal/branchtable"
)

func TestBuildMatchesFlatBrackets(t *testing.T) {
	ops := bfir.Parse([]byte("[.]"))
	table, err := branchtable.Build(ops, bfir.Op.IsOpen, bfir.Op.IsClose)
	require.NoError(t, err)
	require.Equal(t, 2, table[0])
	require.Equal(t, 0, table[2])
}

func TestBuildMatchesNestedBrackets(t *testing.T) {
	ops := bfir.Parse([]byte("[[.]]"))
	table, err := branchtable.Build(ops, bfir.Op.IsOpen, bfir.Op.IsClose)
	require.NoError(t, err)
	require.Equal(t, 4, table[0])
	require.Equal(t, 3, table[1])
	require.Equal(t, 1, table[3])
	require.Equal(t, 0, table[4])
}

func TestBuildIsAnInvolution(t *testing.T) {
	ops := bfir.Parse([]byte("[>[<]+]"))
	table, err := branchtable.Build(ops, bfir.Op.IsOpen, bfir.Op.IsClose)
	require.NoError(t, err)
	for i, op := range ops {
		if op.IsOpen() || op.IsClose() {
			require.Equal(t, i, table[table[i]])
		}
	}
}

func TestBuildUnmatchedOpenIsError(t *testing.T) {
	ops := bfir.Parse([]byte("[+"))
	_, err := branchtable.Build(ops, bfir.Op.IsOpen, bfir.Op.IsClose)
	require.ErrorIs(t, err, branchtable.ErrUnmatchedBracket)
}

func TestBuildEmptyProgram(t *testing.T) {
	table, err := branchtable.Build([]bfir.Op{}, bfir.Op.IsOpen, bfir.Op.IsClose)
	require.NoError(t, err)
	require.Empty(t, table)
}
