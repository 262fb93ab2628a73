//go:build !arm64
// +build !arm64

package jitengine

import (
	"io"

	"github.com/tinylangs/bfjit/internal/lir"
)

// Run always fails on non-arm64 hosts: there is no code generator for any
// other architecture.
func Run(prog []lir.Op, out io.Writer) error {
	return ErrUnsupportedHost
}
