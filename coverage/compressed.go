// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package coverage

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/grailbio/base/log"
)

const (
	// SizeLimit is the largest number of positions that can be stored inline
	// (56 bits, 28 2-bit counters).
	SizeLimit = 28
	// CovFull is the saturation value of a counter.  Two bits could hold 3, but
	// the graph only distinguishes "seen once" from "seen at least twice".
	CovFull = 2
)

// word is the tagged part of a Compressed.  The bits are laid out as
//
//   dddddddd|dddddddd|dddddddd|dddddddd|dddddddd|dddddddd|dddddddd|ssssssF1  local
//   00000000|00000000|00000000|00000000|00000000|00000000|00000000|00000000  heap
//   ssssssss|ssssssss|ssssssss|ssssssss|ssssssss|ssssssss|ssssssss|ssssssF0  full
//
// Bit 0 is the local tag, bit 1 the full flag.  In local mode, s is the
// length and d holds the counters, position i at bits 8+2i and 9+2i.  In full
// mode every bit above the flags is the length.
type word uint64

const (
	tagMask  word = 1    // local array bit
	fullMask word = 2    // full bit
	sizeMask word = 0xFC // 0b11111100

	sizeShift = 2
	dataShift = 8

	// localCoverageMask selects the high bit of each inline counter.  Counters
	// never exceed CovFull, so a set high bit means the position is saturated.
	localCoverageMask word = 0xAAAAAAAAAAAAAA << dataShift
	// localLowMask selects the low bit of each inline counter.
	localLowMask word = 0x55555555555555 << dataShift

	// headerLen is the size of the heap buffer header: uint32 length followed
	// by the uint32 number of saturated positions.
	headerLen = 8
)

// Compressed is a saturating 2-bit coverage counter per position of a
// unitig.
//
// Assigning one Compressed to another aliases the heap buffer of a long
// array.  Use Clone for an independent copy and Move to hand the storage
// over.  The zero Compressed is an empty local store of size 0.
type Compressed struct {
	w word
	// buf is non-nil exactly in heap mode.  It is never shared between two
	// Compressed values.
	buf []byte
}

// New creates a Compressed of the given size.  If full is true, every
// position starts saturated.
func New(size int, full bool) (c Compressed) {
	c.Initialize(size, full)
	return
}

// FromValues creates a non-full Compressed whose counters are vals.  It
// panics if some value exceeds CovFull.
func FromValues(vals []uint8) (c Compressed) {
	size := len(vals)
	c.Initialize(size, false)
	for i, v := range vals {
		if v > CovFull {
			log.Panicf("coverage.FromValues: value %d at position %d exceeds %d", v, i, CovFull)
		}
	}
	if c.buf == nil {
		for i, v := range vals {
			c.w |= word(v) << (dataShift + 2*uint(i))
		}
		return
	}
	Pack2(c.buf[headerLen:], vals)
	nFull := 0
	for _, v := range vals {
		if v == CovFull {
			nFull++
		}
	}
	c.setHeapFull(nFull)
	return
}

// Initialize (re)configures c for a new length, dropping any previous
// storage.  With full set, c enters full mode.  Otherwise all counters are
// zero, stored inline when size <= SizeLimit and in a fresh heap buffer
// otherwise.
func (c *Compressed) Initialize(size int, full bool) {
	if size < 0 {
		log.Panicf("coverage.Initialize: negative size %d", size)
	}
	c.buf = nil
	if full {
		c.w = word(size)<<sizeShift | fullMask
		return
	}
	if size <= SizeLimit {
		c.w = word(size)<<sizeShift | tagMask
		return
	}
	if uint64(size) > math.MaxUint32 {
		log.Panicf("coverage.Initialize: size %d does not fit the heap header", size)
	}
	c.w = 0
	c.buf = make([]byte, headerLen+PackedLen(size))
	binary.NativeEndian.PutUint32(c.buf[0:4], uint32(size))
}

// Release drops the storage of c, leaving an empty local store.
func (c *Compressed) Release() {
	c.Initialize(0, false)
}

// Clone returns a deep copy of c.  Changes to the copy never show up in c,
// and vice versa.
func (c *Compressed) Clone() Compressed {
	d := Compressed{w: c.w}
	if c.buf != nil {
		d.buf = make([]byte, len(c.buf))
		copy(d.buf, c.buf)
	}
	return d
}

// Move transfers the contents of c to the returned value.  c is left as an
// empty local store which can be reused or dropped.
func (c *Compressed) Move() Compressed {
	d := *c
	c.Release()
	return d
}

// IsFull reports whether c is in full mode.
func (c *Compressed) IsFull() bool {
	return c.w&fullMask != 0
}

// SetFull saturates every position, keeping the size and dropping any
// storage.  Nothing bad happens if c is already full.
func (c *Compressed) SetFull() {
	if c.IsFull() {
		return
	}
	c.Initialize(c.Size(), true)
}

// Size returns the number of positions tracked by c.
func (c *Compressed) Size() int {
	switch {
	case c.w&fullMask != 0:
		return int(c.w >> sizeShift)
	case c.buf != nil:
		return int(binary.NativeEndian.Uint32(c.buf[0:4]))
	default:
		return int((c.w & sizeMask) >> sizeShift)
	}
}

func (c *Compressed) heapFull() int {
	return int(binary.NativeEndian.Uint32(c.buf[4:8]))
}

func (c *Compressed) setHeapFull(n int) {
	binary.NativeEndian.PutUint32(c.buf[4:8], uint32(n))
}

// at returns the counter at position i without bounds checking.  c must not
// be full.
func (c *Compressed) at(i int) uint8 {
	if c.buf != nil {
		return Get2(c.buf[headerLen:], i)
	}
	return uint8(c.w>>(dataShift+2*uint(i))) & 3
}

// Cover increments the counters of positions [start, end), saturating at
// CovFull.  It does nothing in full mode.  It panics unless
// 0 <= start <= end <= Size().
func (c *Compressed) Cover(start, end int) {
	if size := c.Size(); start < 0 || start > end || end > size {
		log.Panicf("coverage.Cover: range [%d, %d) invalid for size %d", start, end, size)
	}
	if c.IsFull() {
		return
	}
	if c.buf == nil {
		for i := start; i < end; i++ {
			shift := dataShift + 2*uint(i)
			if (c.w>>shift)&3 < CovFull {
				c.w += 1 << shift
			}
		}
		return
	}
	data := c.buf[headerLen:]
	nNewFull := 0
	for i := start; i < end; i++ {
		if v := Get2(data, i); v < CovFull {
			Set2(data, i, v+1)
			if v+1 == CovFull {
				nNewFull++
			}
		}
	}
	if nNewFull != 0 {
		c.setHeapFull(c.heapFull() + nNewFull)
	}
}

// CovAt returns the counter at position index; CovFull in full mode.  It
// panics unless 0 <= index < Size().
func (c *Compressed) CovAt(index int) uint8 {
	if size := c.Size(); index < 0 || index >= size {
		log.Panicf("coverage.CovAt: index %d out of range for size %d", index, size)
	}
	if c.IsFull() {
		return CovFull
	}
	return c.at(index)
}

// NumFull returns the number of saturated positions.
func (c *Compressed) NumFull() int {
	switch {
	case c.IsFull():
		return c.Size()
	case c.buf != nil:
		return c.heapFull()
	default:
		return bits.OnesCount64(uint64(c.w & localCoverageMask))
	}
}

// LowCoverageInfo returns the number of positions below CovFull and the sum
// of all counters.  It is a cheap check before SplittingVector.
func (c *Compressed) LowCoverageInfo() (nLow, total int) {
	size := c.Size()
	nFull := c.NumFull()
	nLow = size - nFull
	switch {
	case c.IsFull():
		total = size * CovFull
	case c.buf != nil:
		// Padding bits past the last position are always zero.
		for _, b := range c.buf[headerLen:] {
			total += bits.OnesCount8(b & 0x55)
		}
		total += nFull * CovFull
	default:
		total = bits.OnesCount64(uint64(c.w&localLowMask)) + nFull*CovFull
	}
	return
}

// Span is a half-open range of positions [Start, End).  Full is true when
// every position in the range is saturated.
type Span struct {
	Start, End int
	Full       bool
}

// Len returns End - Start.
func (s Span) Len() int { return s.End - s.Start }

// SplittingVector partitions [0, Size()) into maximal runs of saturated and
// non-saturated positions.  The spans are sorted by Start, and each one
// starts where the previous one ends.  An empty store yields no spans; a
// full one yields a single full span.
//
// The graph splits a unitig at the boundaries of the full spans.
func (c *Compressed) SplittingVector() []Span {
	size := c.Size()
	if size == 0 {
		return nil
	}
	if c.IsFull() {
		return []Span{{Start: 0, End: size, Full: true}}
	}
	var spans []Span
	start := 0
	full := c.at(0) == CovFull
	for i := 1; i < size; i++ {
		if f := c.at(i) == CovFull; f != full {
			spans = append(spans, Span{Start: start, End: i, Full: full})
			start, full = i, f
		}
	}
	return append(spans, Span{Start: start, End: size, Full: full})
}

// Unpack appends the counters of all positions to dst and returns the
// extended slice.
func (c *Compressed) Unpack(dst []uint8) []uint8 {
	size := c.Size()
	n := len(dst)
	if cap(dst)-n < size {
		grown := make([]uint8, n, n+size)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+size]
	out := dst[n:]
	switch {
	case c.IsFull():
		for i := range out {
			out[i] = CovFull
		}
	case c.buf != nil:
		Unpack2(out, c.buf[headerLen:])
	default:
		for i := range out {
			out[i] = c.at(i)
		}
	}
	return dst
}

// String returns a human-readable rendering of c, for debugging.
func (c *Compressed) String() string {
	size := c.Size()
	if c.IsFull() {
		return fmt.Sprintf("full(size=%d)", size)
	}
	var sb strings.Builder
	if c.buf != nil {
		fmt.Fprintf(&sb, "heap(size=%d, full=%d): ", size, c.heapFull())
	} else {
		fmt.Fprintf(&sb, "local(size=%d): ", size)
	}
	for i := 0; i < size; i++ {
		sb.WriteByte('0' + c.at(i))
	}
	return sb.String()
}

// Check verifies the representation invariants of c, panicking on failure:
// * A full store owns no buffer and has a clear local tag.
// * A local store has size <= SizeLimit and no bits past its last counter.
// * A heap store has size > SizeLimit, a buffer of exactly
//   headerLen + PackedLen(size) bytes, zero padding bits, and a header count
//   equal to the number of saturated positions.
// * No counter exceeds CovFull.
func (c *Compressed) Check(tag string) {
	size := c.Size()
	switch {
	case c.IsFull():
		if c.buf != nil {
			log.Panicf("full store owns a buffer of %d bytes, tag: %s", len(c.buf), tag)
		}
		if c.w&tagMask != 0 {
			log.Panicf("full store has the local tag set, tag: %s", tag)
		}
	case c.buf != nil:
		if c.w != 0 {
			log.Panicf("heap store has tag word %#x, tag: %s", uint64(c.w), tag)
		}
		if size <= SizeLimit {
			log.Panicf("heap store of size %d should be local, tag: %s", size, tag)
		}
		if len(c.buf) != headerLen+PackedLen(size) {
			log.Panicf("heap buffer has %d bytes, %d expected, tag: %s", len(c.buf), headerLen+PackedLen(size), tag)
		}
		data := c.buf[headerLen:]
		if rem := size & 3; rem != 0 && data[len(data)-1]>>(2*uint(rem)) != 0 {
			log.Panicf("heap buffer has stray bits past position %d, tag: %s", size, tag)
		}
		nFull := 0
		for i := 0; i < size; i++ {
			v := Get2(data, i)
			if v > CovFull {
				log.Panicf("counter %d at position %d exceeds %d, tag: %s", v, i, CovFull, tag)
			}
			if v == CovFull {
				nFull++
			}
		}
		if nFull != c.heapFull() {
			log.Panicf("heap header counts %d full positions, %d found, tag: %s", c.heapFull(), nFull, tag)
		}
	default:
		if c.w != 0 && c.w&tagMask == 0 {
			log.Panicf("local store has a clear local tag, tag: %s", tag)
		}
		if size > SizeLimit {
			log.Panicf("local store has size %d > %d, tag: %s", size, SizeLimit, tag)
		}
		if size < SizeLimit && c.w>>(dataShift+2*uint(size)) != 0 {
			log.Panicf("local store has stray bits past position %d, tag: %s", size, tag)
		}
		for i := 0; i < size; i++ {
			if v := c.at(i); v > CovFull {
				log.Panicf("counter %d at position %d exceeds %d, tag: %s", v, i, CovFull, tag)
			}
		}
	}
}
