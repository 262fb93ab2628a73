// Package asm provides the growable, executable-memory-backed buffer the
// AArch64 backend writes compiled tape-machine instructions into.
package asm

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/tinylangs/bfjit/internal/platform"
)

var zero [16]byte

// CodeSegment represents a memory mapped segment where the JIT's compiled
// instructions are written.
//
// To construct code segments, the program must call Next to obtain a buffer
// view capable of writing data at the end of the segment. Next must be called
// before generating the code of a function because it aligns the next write on
// 16 bytes.
//
// Instances of CodeSegment hold references to memory which is NOT managed by
// the garbage collector and therefore must be released *manually* by calling
// their Unmap method to prevent memory leaks.
//
// The zero value is a valid, empty code segment with no backing mapping until
// Map is called.
type CodeSegment struct {
	code []byte
	size int
}

// Map allocates a memory mapping of the given size to the code segment.
//
// jitengine.Run calls this once per compiled program, before Compile emits
// any instructions. The whole mapping counts as already written, so a
// Buffer obtained from Next afterwards starts right after it.
//
// The method errors if the segment is already backed by a memory mapping.
func (seg *CodeSegment) Map(size int) error {
	if seg.code != nil {
		return fmt.Errorf("code segment already initialized to memory mapping of size %d", len(seg.code))
	}
	b, err := platform.MmapCodeSegment(size)
	if err != nil {
		return err
	}
	seg.code = b
	seg.size = size
	return nil
}

// Unmap releases the underlying memory region held by the code segment,
// clearing its state back to an empty code segment.
//
// The value is still usable after unmapping its memory, a new memory area can
// be allocated by calling Map or writing to the segment.
func (seg *CodeSegment) Unmap() error {
	if seg.code != nil {
		if err := platform.MunmapCodeSegment(seg.code[:cap(seg.code)]); err != nil {
			return err
		}
		seg.code = nil
		seg.size = 0
	}
	return nil
}

// Addr returns the address of the beginning of the code segment as a uintptr.
// The address changes whenever a write grows the segment into a new mapping.
func (seg *CodeSegment) Addr() uintptr {
	if len(seg.code) > 0 {
		return uintptr(unsafe.Pointer(&seg.code[0]))
	}
	return 0
}

// Len returns the length of the byte slice referencing the memory mapping of
// the code segment.
func (seg *CodeSegment) Len() int {
	return len(seg.code)
}

// Bytes returns a byte slice to the memory mapping of the code segment.
//
// The returned slice remains valid until more bytes are written to a buffer
// of the code segment, or Unmap is called.
func (seg *CodeSegment) Bytes() []byte {
	return seg.code
}

// Next returns a buffer pointed at the end of the code segment so the
// emitter can start writing a new compiled program's instructions to it.
//
// Buffers are passed by value, but they hold a reference to the code segment
// that they were created from.
func (seg *CodeSegment) Next() Buffer {
	// Align 16-bytes boundary.
	seg.write(zero[:(16-seg.size&15)&15])
	return Buffer{seg: seg, off: seg.size}
}

func (seg *CodeSegment) append(n int) []byte {
	i := seg.size
	j := seg.size + n
	if j > len(seg.code) {
		seg.grow(n)
	}
	seg.size = j
	return seg.code[i:j:j]
}

func (seg *CodeSegment) write(b []byte) {
	copy(seg.append(len(b)), b)
}

func (seg *CodeSegment) writeUint32(u uint32) {
	seg.size += 4
	if seg.size > len(seg.code) {
		seg.grow(0)
	}
	binary.LittleEndian.PutUint32(seg.code[seg.size-4:seg.size], u)
}

func (seg *CodeSegment) grow(n int) {
	size := len(seg.code)
	want := seg.size + n
	if size >= want {
		return
	}
	if size == 0 {
		size = 65536
	}
	for size < want {
		size *= 2
	}
	b, err := platform.RemapCodeSegment(seg.code, size)
	if err != nil {
		// The only reason for growing the buffer to error is if we run
		// out of memory, so panic for now as it greatly simplifies error
		// handling to assume writing to the buffer would never fail.
		panic(err)
	}
	seg.code = b
}

// Buffer is a reference type representing the section of a code segment,
// starting where it was obtained from Next, that one compiled program's
// instructions are written into. Every AArch64 instruction this JIT emits
// is exactly 4 bytes, so Buffer only exposes a 32-bit little-endian write
// alongside the length/byte accessors Compile needs to compute the entry
// point and resolve branch fixups.
type Buffer struct {
	seg *CodeSegment
	off int
}

// Len returns the number of bytes written to this buffer so far.
func (buf Buffer) Len() int {
	return buf.seg.size - buf.off
}

// Bytes returns the bytes written to this buffer so far.
func (buf Buffer) Bytes() []byte {
	i := buf.off
	j := buf.seg.size
	return buf.seg.Bytes()[i:j:j]
}

// WriteUint32 appends a 32-bit AArch64 instruction word in little-endian
// byte order.
func (buf Buffer) WriteUint32(u uint32) {
	buf.seg.writeUint32(u)
}
