// Package engine ties the compilation pipeline (internal/bfir,
// internal/hir, internal/lir) to one of the four execution backends
// (spec.md 4.5-4.7) behind a single Config, the way wazero's
// RuntimeConfig selects between its interpreter and compiler engines
// (config.go's NewRuntimeConfigJIT / NewRuntimeConfigInterpreter).
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/tinylangs/bfjit/internal/bfir"
	"github.com/tinylangs/bfjit/internal/hir"
	"github.com/tinylangs/bfjit/internal/interp"
	"github.com/tinylangs/bfjit/internal/jitengine"
	"github.com/tinylangs/bfjit/internal/lir"
	"github.com/tinylangs/bfjit/internal/trace"
)

// Backend selects which tier executes a program.
type Backend string

const (
	// Reference walks BF-IR directly with on-demand bracket scanning
	// (spec.md 4.5). It is the slowest tier and the only one that
	// surfaces ErrPositionUnderflow.
	Reference Backend = "reference"
	// HIR walks run-length-collapsed IR with a precomputed branch table
	// (spec.md 4.6).
	HIR Backend = "hir"
	// LIR walks idiom-recognizing IR with a precomputed branch table
	// (spec.md 4.6) and optionally records loop traces.
	LIR Backend = "lir"
	// JIT compiles LIR to native AArch64 machine code (spec.md 4.7).
	// Unavailable on non-arm64 hosts and for programs that use In.
	JIT Backend = "jit"
)

// ErrUnknownBackend is returned by Config.Run for any Backend value other
// than the four declared constants.
var ErrUnknownBackend = errors.New("bfjit: unknown backend")

// Config selects a backend and optional tracing for one run. The zero
// value has no backend selected, so Run on it returns ErrUnknownBackend;
// NewConfig returns one set to the LIR backend with tracing disabled.
type Config struct {
	backend Backend
	tracer  *trace.Recorder
}

// NewConfig returns a Config defaulted to the LIR backend (SPEC_FULL.md
// 6: this is the CLI's default), matching the balance spec.md 9 strikes
// between the reference tier's simplicity and the JIT's host dependency.
func NewConfig() *Config {
	return &Config{backend: LIR}
}

// WithBackend selects which tier Run uses.
func (c *Config) WithBackend(b Backend) *Config {
	c.backend = b
	return c
}

// WithTrace enables loop-hit tracing (LIR backend only; ignored
// elsewhere). Call Report after Run to print the recorded traces.
func (c *Config) WithTrace() *Config {
	c.tracer = trace.New()
	return c
}

// Report writes any recorded loop traces to w. It is a no-op if tracing
// was never enabled via WithTrace.
func (c *Config) Report(w io.Writer) {
	if c.tracer != nil {
		c.tracer.Report(w)
	}
}

// Run parses src and executes it on the configured backend, writing
// program output to out and reading "," input from in.
func (c *Config) Run(src []byte, in io.Reader, out io.Writer) error {
	bfProg := bfir.Parse(src)

	switch c.backend {
	case Reference:
		return interp.RunBF(bfProg, in, out)
	case HIR:
		return interp.RunHIR(hir.Lower(bfProg), in, out)
	case LIR:
		return interp.RunLIR(lir.Gen(hir.Lower(bfProg)), in, out, c.tracer)
	case JIT:
		if err := requireNoInput(bfProg); err != nil {
			return err
		}
		return jitengine.Run(lir.Gen(hir.Lower(bfProg)), out)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.backend)
	}
}

func requireNoInput(prog []bfir.Op) error {
	for _, op := range prog {
		if op == bfir.In {
			return fmt.Errorf("bfjit: jit backend cannot run programs that read input (use -backend=lir)")
		}
	}
	return nil
}
