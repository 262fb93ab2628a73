// Package interp implements the three tree-walking backends described by
// spec.md 4.5/4.6: a direct walk over BF-IR (reference semantics), and
// branch-table-driven walks over HIR and LIR.
package interp

import (
	"errors"
	"fmt"
)

// ErrPositionUnderflow is returned by the reference BF-IR interpreter when
// MvLeft would move the cursor left of the tape origin. Per spec.md
// section 7, this check is deliberately reference-tier only: the
// optimized HIR/LIR interpreters use wrapping position arithmetic for
// dispatch speed and do not reproduce this error.
var ErrPositionUnderflow = errors.New("bfjit: position moved left of tape origin")

func wrapIn(err error) error  { return fmt.Errorf("bfjit: in: %w", err) }
func wrapOut(err error) error { return fmt.Errorf("bfjit: out: %w", err) }
