// Package trace implements the optional, LIR-tier-only loop tracer
// described by spec.md 4.6: every loop that never encloses a bracket of
// its own ("non-nested") is recorded keyed by its (start, end)
// instruction index, with a hit counter incremented once per completed
// pass through its body, and reported sorted by hit count descending. It
// must never perturb observable output.
package trace

import (
	"fmt"
	"io"
	"sort"

	"github.com/tinylangs/bfjit/internal/lir"
)

type loc struct{ start, end int }

type entry struct {
	loc      loc
	hitCount int
	nested   bool
	ops      []lir.Op
}

// frame tracks one currently-open loop capture. Frames nest in a stack:
// entering a bracket while a frame is already open marks that enclosing
// frame as containing a nested loop, which excludes it from the report
// regardless of how many times it ran.
//
// A frame stays on the stack across every iteration of its loop: the
// interpreter's branch-table optimization only calls OnBrFor once per
// loop entry (a continuing back-branch resumes just past BrFor rather
// than re-executing it), so OnBrBack alone must be able to tell a
// completed-and-continuing pass from a completed-and-exiting one.
// bodyCaptured records that the body's op sequence was already copied
// during the first pass, so later passes bump hitCount without
// re-appending the same ops.
type frame struct {
	start        int
	ops          []lir.Op
	nested       bool
	bodyCaptured bool
	hitCount     int
}

// Recorder accumulates loop traces across one program execution. Use New
// to construct one; the zero value is not ready to use (its traces map is
// nil).
type Recorder struct {
	traces map[loc]*entry
	stack  []frame
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{traces: make(map[loc]*entry)}
}

// OnBrFor must be called whenever the interpreter executes a BrFor at pc.
// op is the BrFor op itself, recorded as the first element of the trace.
func (r *Recorder) OnBrFor(pc int, op lir.Op) {
	if len(r.stack) > 0 {
		r.stack[len(r.stack)-1].nested = true
	}
	r.stack = append(r.stack, frame{start: pc, ops: []lir.Op{op}})
}

// OnBranchSkip must be called immediately after OnBrFor if the BrFor
// short-circuited past its body (current cell was zero). The interpreter
// never reaches the matching BrBack in that case, so the frame is
// discarded here instead of being finalized.
func (r *Recorder) OnBranchSkip() {
	if len(r.stack) == 0 {
		return
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// OnOp must be called for every op executed strictly between a BrFor and
// its matching BrBack (the loop body), so the recorded trace reflects
// what actually ran. It is a no-op when no loop is currently open, and
// once a loop's body has been captured on its first pass, later passes
// through the same body don't append their ops again.
func (r *Recorder) OnOp(op lir.Op) {
	if len(r.stack) == 0 {
		return
	}
	top := len(r.stack) - 1
	if !r.stack[top].bodyCaptured {
		r.stack[top].ops = append(r.stack[top].ops, op)
	}
}

// OnBrBack must be called whenever the interpreter executes a BrBack at
// pc, closing out the current pass through the most recently opened
// loop. pc is the BrBack's own instruction index, not the index it may
// have branched to. continued reports whether that pass looped back
// (current cell was still nonzero) or fell through and exited the loop.
// Every call counts as one completed pass; the frame itself is only
// popped and finalized into the traces map once continued is false,
// since a continuing pass reuses the same open frame rather than
// starting a fresh one (spec.md 4.6).
func (r *Recorder) OnBrBack(pc int, op lir.Op, continued bool) {
	if len(r.stack) == 0 {
		return
	}
	top := len(r.stack) - 1
	if !r.stack[top].bodyCaptured {
		r.stack[top].ops = append(r.stack[top].ops, op)
		r.stack[top].bodyCaptured = true
	}
	r.stack[top].hitCount++
	if continued {
		return
	}

	f := r.stack[top]
	r.stack = r.stack[:top]

	l := loc{start: f.start, end: pc}
	if e, ok := r.traces[l]; ok {
		e.hitCount += f.hitCount
	} else {
		ops := make([]lir.Op, len(f.ops))
		copy(ops, f.ops)
		r.traces[l] = &entry{loc: l, hitCount: f.hitCount, nested: f.nested, ops: ops}
	}
}

// Report writes the recorded traces to w, sorted by hit count descending,
// omitting any loop that encloses a bracket of its own.
func (r *Recorder) Report(w io.Writer) {
	entries := make([]*entry, 0, len(r.traces))
	for _, e := range r.traces {
		if e.nested {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].hitCount > entries[j].hitCount
	})
	for _, e := range entries {
		fmt.Fprintf(w, "Trace: hit_count=%d, loc=(%d,%d), ops=%s\n",
			e.hitCount, e.loc.start, e.loc.end, compact(e.ops))
	}
}

func compact(ops []lir.Op) string {
	s := ""
	for _, op := range ops {
		s += op.String()
	}
	return s
}
