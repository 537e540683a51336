// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package unitig

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
)

// Set holds the unitigs of a graph, addressed by insertion index or name.
// Not safe for concurrent mutation.
type Set[T any] struct {
	unitigs []*Unitig[T]
	index   map[string]int
}

// NewSet creates an empty Set.
func NewSet[T any]() *Set[T] {
	return &Set[T]{index: map[string]int{}}
}

// Add appends a new unitig of nKmers k-mers and returns its index.  nKmers
// must lie in [1, math.MaxUint32].  With full set, the unitig starts fully
// covered.
func (s *Set[T]) Add(name string, nKmers int, full bool) (int, error) {
	if _, ok := s.index[name]; ok {
		return -1, errors.E(errors.Invalid, "duplicate unitig name:", name)
	}
	if nKmers < 1 || uint64(nKmers) > math.MaxUint32 {
		return -1, errors.E(errors.Invalid, fmt.Sprintf("unitig %s has %d k-mers", name, nKmers))
	}
	i := len(s.unitigs)
	s.unitigs = append(s.unitigs, New[T](name, nKmers, full))
	s.index[name] = i
	return i, nil
}

// Len returns the number of unitigs.
func (s *Set[T]) Len() int { return len(s.unitigs) }

// At returns the i'th unitig.
func (s *Set[T]) At(i int) *Unitig[T] { return s.unitigs[i] }

// Index returns the index of the unitig with the given name.
func (s *Set[T]) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Cover covers the unitig m.PosUnitig with m.
func (s *Set[T]) Cover(m Map) error {
	if m.PosUnitig < 0 || m.PosUnitig >= len(s.unitigs) {
		return errors.E(errors.NotExist, fmt.Sprintf("mapping %v: no such unitig", m))
	}
	return s.unitigs[m.PosUnitig].Cover(m)
}
