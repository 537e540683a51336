// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package coverage

// Packed 2-bit arrays store value i in byte i/4, at bit offset 2*(i%4).  So
// the first value of a byte occupies its two least significant bits.

// PackedLen returns the number of bytes needed to hold n 2-bit values.
func PackedLen(n int) int {
	return (n + 3) >> 2
}

// Get2 returns the 2-bit value at position i of buf.
func Get2(buf []byte, i int) uint8 {
	return (buf[i>>2] >> (2 * uint(i&3))) & 3
}

// Set2 sets the 2-bit value at position i of buf to the low 2 bits of v.
func Set2(buf []byte, i int, v uint8) {
	shift := 2 * uint(i&3)
	b := buf[i>>2] &^ (3 << shift)
	buf[i>>2] = b | ((v & 3) << shift)
}

// Pack2 sets dst[] as follows:
//   bits 2*(i%4)..2*(i%4)+1 of dst[i / 4] := src[i] & 3
// Unused high bits of the last dst[] byte are cleared.
// It panics if len(dst) != PackedLen(len(src)).
//
// This is the inverse of Unpack2().
func Pack2(dst []byte, src []uint8) {
	srcLen := len(src)
	if len(dst) != PackedLen(srcLen) {
		panic("Pack2() requires len(dst) == (len(src) + 3) / 4.")
	}
	nFullByte := srcLen >> 2
	for dstPos := 0; dstPos != nFullByte; dstPos++ {
		s := src[4*dstPos : 4*dstPos+4]
		dst[dstPos] = (s[0] & 3) | (s[1]&3)<<2 | (s[2]&3)<<4 | (s[3]&3)<<6
	}
	if rem := srcLen & 3; rem != 0 {
		var b byte
		for j := 0; j < rem; j++ {
			b |= (src[4*nFullByte+j] & 3) << (2 * uint(j))
		}
		dst[nFullByte] = b
	}
}

// Unpack2 sets dst[i] := Get2(src, i) for every i in [0, len(dst)).
// It panics if len(src) != PackedLen(len(dst)).
//
// Nothing bad happens if some unused high bits of the last src[] byte are
// set; they are ignored.
func Unpack2(dst []uint8, src []byte) {
	dstLen := len(dst)
	if len(src) != PackedLen(dstLen) {
		panic("Unpack2() requires len(src) == (len(dst) + 3) / 4.")
	}
	nFullByte := dstLen >> 2
	for srcPos := 0; srcPos != nFullByte; srcPos++ {
		b := src[srcPos]
		d := dst[4*srcPos : 4*srcPos+4]
		d[0] = b & 3
		d[1] = (b >> 2) & 3
		d[2] = (b >> 4) & 3
		d[3] = b >> 6
	}
	for i := 4 * nFullByte; i < dstLen; i++ {
		dst[i] = Get2(src, i)
	}
}
