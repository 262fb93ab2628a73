//go:build arm64
// +build arm64

package arm64

import "unsafe"

// callNative invokes JIT-compiled code at the given address with the
// AAPCS64 register convention Compile's output expects (x0=tape,
// x1=output base), implemented in call_arm64.s since Go's own ABI cannot
// be relied on to match.
//
//go:noescape
func callNative(code uintptr, tape, out unsafe.Pointer) int64

// Run executes the code produced by Compile against a fresh tape,
// appending output to out and returning it.
func Run(code uintptr, tapeSize int) ([]byte, error) {
	tape := make([]byte, tapeSize)
	out := make([]byte, tapeSize*outputHeadroom)

	n := callNative(code, unsafe.Pointer(&tape[0]), unsafe.Pointer(&out[0]))
	return out[:n], nil
}

// outputHeadroom bounds how much output a compiled program may produce
// per tape cell before the fixed output buffer is exhausted. Generated
// code does not bounds-check writes to it, matching the optimized tiers'
// "undefined behavior past the edges" contract (SPEC_FULL.md 9).
const outputHeadroom = 64
