package bfir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinylangs/bfjit/internal/bfir"
)

func TestParseRecognizesAllEightOps(t *testing.T) {
	got := bfir.Parse([]byte("+-><.,[]"))
	require.Equal(t, []bfir.Op{
		bfir.Inc, bfir.Dec, bfir.MvRight, bfir.MvLeft,
		bfir.Out, bfir.In, bfir.BrFor, bfir.BrBack,
	}, got)
}

func TestParseDropsUnrecognizedBytes(t *testing.T) {
	got := bfir.Parse([]byte("hello + world\n-"))
	require.Equal(t, []bfir.Op{bfir.Inc, bfir.Dec}, got)
}

func TestParseEmptySource(t *testing.T) {
	require.Empty(t, bfir.Parse([]byte("")))
}

func TestParseDoesNotValidateBrackets(t *testing.T) {
	got := bfir.Parse([]byte("]["))
	require.Equal(t, []bfir.Op{bfir.BrBack, bfir.BrFor}, got)
}
