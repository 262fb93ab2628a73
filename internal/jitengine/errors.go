// Package jitengine selects and drives the AArch64 JIT backend (spec.md
// 4.7, SPEC_FULL.md 4.7a). Only arm64 hosts can run compiled code; every
// other GOARCH gets ErrUnsupportedHost immediately, the same "unsupported
// host" contract wazero's own compiler engine uses for architectures its
// assembler doesn't target.
package jitengine

import "errors"

// ErrUnsupportedHost is returned by Run on any non-arm64 GOARCH.
var ErrUnsupportedHost = errors.New("bfjit: jit backend requires an arm64 host")
