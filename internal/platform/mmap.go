//go:build linux || darwin

// Package platform isolates the OS-specific bits the JIT tier needs: an
// executable memory mapping to hold generated machine code. Only the two
// arm64-capable unix hosts this engine targets are supported.
package platform

import (
	"fmt"
	"syscall"
)

// MmapCodeSegment allocates a zeroed, read-write-execute memory mapping of
// the given size. Callers write generated instructions into the returned
// slice and must call MunmapCodeSegment when done with it.
func MmapCodeSegment(size int) ([]byte, error) {
	if size == 0 {
		panic("BUG: MmapCodeSegment with zero length")
	}
	b, err := syscall.Mmap(-1, 0, size,
		syscall.PROT_READ|syscall.PROT_WRITE|syscall.PROT_EXEC,
		syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("bfjit: mmap code segment: %w", err)
	}
	return b, nil
}

// MunmapCodeSegment releases a mapping previously returned by
// MmapCodeSegment or RemapCodeSegment.
func MunmapCodeSegment(code []byte) error {
	if len(code) == 0 {
		panic("BUG: MunmapCodeSegment with zero length")
	}
	if err := syscall.Munmap(code); err != nil {
		return fmt.Errorf("bfjit: munmap code segment: %w", err)
	}
	return nil
}

// RemapCodeSegment grows an existing mapping to newSize, copying the old
// contents over and unmapping the old region. The syscall package exposes
// no portable mremap, so this allocates fresh and copies rather than
// attempting an in-place remap.
func RemapCodeSegment(code []byte, newSize int) ([]byte, error) {
	b, err := MmapCodeSegment(newSize)
	if err != nil {
		return nil, err
	}
	copy(b, code)
	if len(code) > 0 {
		if err := MunmapCodeSegment(code); err != nil {
			return nil, err
		}
	}
	return b, nil
}
