// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package unitig

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bifrost/coverage"
)

// Unitig is a graph segment of Len() k-mers together with its coverage and
// payload.
type Unitig[T any] struct {
	// Name identifies the unitig in input and output files.
	Name string
	// Seq is the sequence of the unitig, len(Seq) = Len()+k-1.  It may be
	// empty when only coverage matters.
	Seq string
	// Coverage tracks the k-mer coverage and carries the payload.
	Coverage coverage.Wrapper[T]
}

// New creates a unitig of nKmers k-mers.  With full set, all of its k-mers
// start fully covered.
func New[T any](name string, nKmers int, full bool) *Unitig[T] {
	return &Unitig[T]{Name: name, Coverage: coverage.NewWrapper[T](nKmers, full)}
}

// Len returns the length of u in k-mers.
func (u *Unitig[T]) Len() int { return u.Coverage.Cov.Size() }

// Cover increments the coverage of the k-mers matched by m.
func (u *Unitig[T]) Cover(m Map) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Size != u.Len() {
		return errors.E(errors.Invalid, fmt.Sprintf("mapping %v on unitig %s of %d k-mers", m, u.Name, u.Len()))
	}
	u.Coverage.Cov.Cover(m.Start(), m.End())
	return nil
}

// LowCoverage returns the number of k-mers below full coverage and the total
// coverage of u.  needSplit is set when u is not in full mode and some k-mer
// is below full coverage: Split then yields at least one piece that is not
// Full, and a unitig without any saturated k-mer has no Full piece to keep.
func (u *Unitig[T]) LowCoverage() (nLow, total int, needSplit bool) {
	nLow, total = u.Coverage.Cov.LowCoverageInfo()
	needSplit = nLow > 0 && !u.Coverage.Cov.IsFull()
	return
}

// Piece is a part of a split unitig.  It covers k-mers [Start, End) of the
// unitig it was cut from.
type Piece[T any] struct {
	Start, End int
	// Full is true when every k-mer of the piece is fully covered.
	Full   bool
	Unitig *Unitig[T]
}

// Split cuts u into maximal runs of fully and partially covered k-mers.  Each
// piece gets a copy of the payload of u and its slice of Seq.  A fully covered piece is created in
// full mode; other pieces keep their coverage.  u itself is not modified.
func (u *Unitig[T]) Split() []Piece[T] {
	spans := u.Coverage.Cov.SplittingVector()
	if len(spans) == 0 {
		return nil
	}
	var vals []uint8
	if len(spans) > 1 {
		vals = u.Coverage.Cov.Unpack(nil)
	}
	data := u.Coverage.Data()
	k := len(u.Seq) - u.Len() + 1
	pieces := make([]Piece[T], len(spans))
	for i, s := range spans {
		p := &Unitig[T]{Name: fmt.Sprintf("%s:%d-%d", u.Name, s.Start, s.End)}
		if u.Seq != "" && k >= 1 {
			p.Seq = u.Seq[s.Start : s.End+k-1]
		}
		switch {
		case s.Full:
			p.Coverage = coverage.NewWrapper[T](s.Len(), true)
		case vals == nil:
			p.Coverage = u.Coverage.Clone()
		default:
			p.Coverage.Cov = coverage.FromValues(vals[s.Start:s.End])
		}
		p.Coverage.SetData(data)
		pieces[i] = Piece[T]{Start: s.Start, End: s.End, Full: s.Full, Unitig: p}
	}
	return pieces
}

// Merge appends the k-mers of o to u, as when two unitigs are joined end to
// end on their forward strands.  The coverage of o follows that of u; the
// result is in full mode only when both inputs are.  The payload becomes
// merge(u's, o's), or stays u's when merge is nil.  Seq is joined on its
// k-1 overlap when both unitigs carry one and cleared otherwise.  o is not
// modified.
func (u *Unitig[T]) Merge(o *Unitig[T], merge func(a, b T) T) error {
	n := u.Len() + o.Len()
	if uint64(n) > math.MaxUint32 {
		return errors.E(errors.Invalid, fmt.Sprintf("merging %s and %s: %d k-mers", u.Name, o.Name, n))
	}
	seq := ""
	if u.Seq != "" && o.Seq != "" {
		k := len(u.Seq) - u.Len() + 1
		if k < 1 || len(o.Seq)-o.Len()+1 != k {
			return errors.E(errors.Invalid, fmt.Sprintf("merging %s and %s: sequence lengths do not match k-mer counts", u.Name, o.Name))
		}
		seq = u.Seq + o.Seq[k-1:]
	}
	var cov coverage.Compressed
	if u.Coverage.Cov.IsFull() && o.Coverage.Cov.IsFull() {
		cov = coverage.New(n, true)
	} else {
		cov = coverage.FromValues(o.Coverage.Cov.Unpack(u.Coverage.Cov.Unpack(make([]uint8, 0, n))))
	}
	data := u.Coverage.Data()
	if merge != nil {
		data = merge(data, o.Coverage.Data())
	}
	u.Seq = seq
	u.Coverage.Cov = cov
	u.Coverage.SetData(data)
	return nil
}
