// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package unitig

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Map describes a match of consecutive k-mers on a unitig.
//
//    xxxxxxxxxxxxxxxxxxxxxxxxxxxxx  unitig
//   |dist ->         xxxxxxxxxyyyyyyy  read on forward strand
//                    | len ->|
//         yyyyXXXXXXXX                 read on reverse strand
//   | dist -> | len  |
//
// Dist and Len are counted in k-mers on the unitig's forward strand, whatever
// the strand of the read.
type Map struct {
	// PosUnitig is the index of the unitig in its Set.
	PosUnitig int
	// Dist is the 0-based k-mer offset of the match from the unitig start.
	Dist int
	// Len is the length of the match in k-mers, >= 1.
	Len int
	// Size is the length of the unitig in k-mers.
	Size int
	// Strand is true when the read matches the forward strand.
	Strand bool
	// IsEmpty is true when no match was found.
	IsEmpty bool
}

// NewMap creates a non-empty Map.
func NewMap(posUnitig, dist, length, size int, strand bool) Map {
	return Map{PosUnitig: posUnitig, Dist: dist, Len: length, Size: size, Strand: strand}
}

// EmptyMap returns the Map of a failed lookup.
func EmptyMap() Map {
	return Map{Len: 1, Strand: true, IsEmpty: true}
}

// Validate checks that m is a non-empty match lying within its unitig.
func (m Map) Validate() error {
	if m.IsEmpty {
		return errors.E(errors.Invalid, "empty mapping")
	}
	// Must not overflow on huge Dist or Len.
	if m.Dist < 0 || m.Len < 1 || m.Len > m.Size || m.Dist > m.Size-m.Len {
		return errors.E(errors.Invalid, fmt.Sprintf("mapping %v does not fit a unitig of %d k-mers", m, m.Size))
	}
	return nil
}

// Start returns the first k-mer position covered by m.
func (m Map) Start() int { return m.Dist }

// End returns one past the last k-mer position covered by m.
func (m Map) End() int { return m.Dist + m.Len }

// String implements fmt.Stringer.
func (m Map) String() string {
	if m.IsEmpty {
		return "{empty}"
	}
	strand := '+'
	if !m.Strand {
		strand = '-'
	}
	return fmt.Sprintf("{unitig:%d [%d,%d) of %d %c}", m.PosUnitig, m.Dist, m.Dist+m.Len, m.Size, strand)
}
