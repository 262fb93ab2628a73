// Package branchtable builds the index-to-index bracket-matching table
// shared by the HIR and LIR interpreters (spec.md 4.4). The original
// Rust source duplicates this walk once per IR type; Go generics let one
// implementation serve both without losing type safety.
package branchtable

import "errors"

// ErrUnmatchedBracket is returned when a BrFor has no matching BrBack (or
// vice versa) at the same nesting depth. Malformed brackets are a fatal,
// non-recoverable programming error per spec.md section 7.
var ErrUnmatchedBracket = errors.New("bfjit: unmatched bracket")

// Build walks ops left to right and returns a same-length table where, for
// every bracket index i, table[i] is the index of its matching partner.
// Non-bracket indices are left as zero. The table is an involution
// restricted to bracket indices: table[i] = j implies table[j] = i.
func Build[T any](ops []T, isOpen, isClose func(T) bool) ([]int, error) {
	table := make([]int, len(ops))

	for i, op := range ops {
		if !isOpen(op) {
			continue
		}

		depth := 0
		matched := false
		for j := i + 1; j < len(ops); j++ {
			switch {
			case isOpen(ops[j]):
				depth++
			case isClose(ops[j]) && depth > 0:
				depth--
			case isClose(ops[j]):
				table[i] = j
				table[j] = i
				matched = true
			}
			if matched {
				break
			}
		}
		if !matched {
			return nil, ErrUnmatchedBracket
		}
	}

	for i, op := range ops {
		if isClose(op) && (!isOpen(ops[table[i]]) || table[table[i]] != i) {
			return nil, ErrUnmatchedBracket
		}
	}

	return table, nil
}
