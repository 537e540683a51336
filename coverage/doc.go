// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package coverage provides a compact per-position coverage counter for the
// unitigs of a compacted de Bruijn graph.
//
// Each k-mer position of a unitig gets a 2-bit counter which saturates at
// CovFull.  Compressed picks one of three representations:
//
//   - Local: up to SizeLimit counters are packed inline in a single uint64,
//     next to the tag bits and a 6-bit length.  No allocation.
//   - Heap: longer arrays live in an owned byte buffer with an 8-byte header
//     (uint32 length, uint32 number of saturated positions) followed by the
//     packed counters, four per byte.
//   - Full: every position is saturated; only the length is kept.
//
// Wrapper pairs a Compressed with an arbitrary payload, so the graph can
// attach its own metadata to a coverage-tracked unitig.
//
// None of the types here are safe for concurrent mutation.
package coverage
